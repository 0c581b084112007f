package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/Tyrowin/roomchat/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting room chat relay...")

	cfg := server.NewConfigFromEnv()
	server.SetConfig(cfg)

	hub := server.NewHub()
	go hub.Run()

	mux := server.SetupRoutes(hub)
	httpServer := server.CreateServer(cfg.Port, mux)

	go func() {
		if err := server.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Block until an OS signal arrives, then drain the HTTP server before
	// tearing down the hub so in-flight upgrades finish first.
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.ShutdownServer(httpServer, shutdownTimeout)
			},
			"hub": func(ctx context.Context) error {
				return hub.Shutdown(shutdownTimeout)
			},
		},
	)

	os.Exit(<-wait)
}
