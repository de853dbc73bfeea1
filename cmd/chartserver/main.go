package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chartkit/config"
	"chartkit/internal/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	cfg := config.Load()
	log.Printf("[chartserver] symbol=%s tf=%s http=%s metrics=%s",
		cfg.Symbol, cfg.TF, cfg.HTTPAddr, cfg.MetricsAddr)

	svc, err := app.New(cfg)
	if err != nil {
		log.Fatalf("[chartserver] init failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := svc.Run(ctx); err != nil {
		log.Fatalf("[chartserver] fatal: %v", err)
	}
}
