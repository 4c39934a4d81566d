package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deo-labs/deoai/src/agent"
	_ "github.com/deo-labs/deoai/src/ai/providers"
	"github.com/deo-labs/deoai/src/api/config"
	"github.com/deo-labs/deoai/src/api/webserver"
)

func main() {
	cfg := config.Load()

	factory := agent.NewDefaultFactory(cfg.AI, cfg.SnapshotEndpoint, 0)
	router := webserver.New(cfg, webserver.AgentFactory(factory))

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // pipeline turns can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
