// Package main serves a stand-in for the municipal incidents endpoint so the
// wizard can be exercised locally without touching the live city API.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/motis10/muninet/internal/ticketing"
)

func main() {
	addr := flag.String("http-addr", "localhost:8090", "HTTP listen address")
	flag.Parse()

	log.SetPrefix("[MOCKMUNI] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    *addr,
		Handler: ticketing.MockServerHandler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening addr=%s", *addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("shutdown: %v", err)
		}
	}
}
