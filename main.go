package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drawsync/internal/audit"
	"drawsync/internal/config"
	"drawsync/internal/engine"
	"drawsync/internal/middleware"
	"drawsync/internal/object"
	"drawsync/internal/room"
	"drawsync/internal/transport"

	"github.com/go-chi/chi/v5"
)

func main() {
	cfg := config.Load()

	rooms := room.NewManager(cfg.MaxRooms, cfg.MaxRoomSize, cfg.MaxObjects)
	limits := middleware.NewLimits(cfg.MaxMessageSize, cfg.MessagesPerSec, cfg.BurstSize)
	trail := audit.NewLog(audit.DefaultCapacity)
	eng := engine.New(rooms, object.NewValidator(), limits, room.NewBroadcaster(), trail)
	// 10 connections per minute per IP, burst of 5
	connLimit := middleware.NewConnLimiter(6*time.Second, 5)
	ws := transport.NewHandler(eng, connLimit, limits, cfg.AllowedOrigins)

	r := chi.NewRouter()
	r.Get("/healthz", healthHandler(rooms))
	r.Get("/audit", trail.Handler())
	r.Get("/ws", ws.ServeHTTP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupLoop(ctx, connLimit)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("canvas sync server started on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// healthHandler reports live room and participant counts. All state is
// volatile; a restart starts from zero.
func healthHandler(rooms *room.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "ok",
			"rooms":        rooms.Count(),
			"participants": rooms.ParticipantTotal(),
		})
	}
}

// cleanupLoop periodically drops stale per-IP connection limiters. Rooms
// need no sweep: they are destroyed the moment their last participant
// leaves.
func cleanupLoop(ctx context.Context, connLimit *middleware.ConnLimiter) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			connLimit.Cleanup()
		}
	}
}
