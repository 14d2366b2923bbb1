// Command server runs the HTTP API for exports, imports, and backup
// management.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/quotehub/quotehub-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
