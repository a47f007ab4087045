package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/melo-wellness/melo/backend/internal/auth"
	"github.com/melo-wellness/melo/backend/internal/config"
	"github.com/melo-wellness/melo/backend/internal/handler"
	roomHandler "github.com/melo-wellness/melo/backend/internal/handler/room"
	companionModel "github.com/melo-wellness/melo/backend/internal/model/companion"
	companionService "github.com/melo-wellness/melo/backend/internal/service/companion"
	vent "github.com/melo-wellness/melo/backend/internal/service/vent"
	"github.com/melo-wellness/melo/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	coordinator := vent.NewCoordinator(vent.Limits{
		MaxUsersPerRoom: cfg.Vent.MaxUsersPerRoom,
		HistoryLimit:    cfg.Vent.HistoryLimit,
		RecentDefault:   cfg.Vent.RecentDefault,
		MaxMessageChars: cfg.Vent.MaxMessageChars,
	})
	feed := roomHandler.NewFeed()

	docs, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open document store: %v", err)
	}
	defer docs.Close()

	profiles := companionModel.NewMemoryStore(companionModel.Seed())

	var companionSvc *companionService.Service
	if cfg.AI.Enabled() {
		companionSvc, err = companionService.NewService(ctx, profiles, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize companion service: %v", err)
			log.Println("continuing with canned companion replies only")
		} else {
			log.Println("companion service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, companion replies fall back to canned responses")
	}

	var gate *auth.Gate
	if cfg.Admin.Enabled() {
		gate = auth.NewGate(cfg.Admin.Password, cfg.Admin.TokenSecret, cfg.Admin.SessionTimeout)
		log.Println("admin surface enabled")
	} else {
		log.Println("admin password not configured, admin surface disabled")
	}

	router := handler.NewRouter(coordinator, feed, profiles, companionSvc, docs, gate)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Melo backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
