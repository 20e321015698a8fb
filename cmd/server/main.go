package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/api"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/chat"
	"github.com/playmatatu/tactics/internal/config"
	"github.com/playmatatu/tactics/internal/database"
	"github.com/playmatatu/tactics/internal/migrations"
	"github.com/playmatatu/tactics/internal/redis"
	"github.com/playmatatu/tactics/internal/share"
	"github.com/playmatatu/tactics/internal/store"
	"github.com/playmatatu/tactics/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Initialize configuration (.env is optional)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: it enables the cross-instance relay, chat rate limiting and the
	// redis board store.
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		rdb = client
		defer rdb.Close()
		log.Printf("[REDIS] connected")
	} else {
		log.Printf("[REDIS] REDIS_URL not set; running single-instance without rate limits")
	}

	idle := time.Duration(cfg.BoardIdleMinutes) * time.Minute

	var boardStore store.Store
	switch cfg.BoardStore {
	case "postgres":
		if cfg.MigrateOnStart {
			log.Println("↗ Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		boardStore = store.NewPostgres(db)
	case "redis":
		if rdb == nil {
			log.Fatalf("BOARD_STORE=redis requires REDIS_URL")
		}
		// Keep snapshots a little longer than the idle window so evicted boards can
		// come back.
		boardStore = store.NewRedis(rdb, 2*idle)
	case "memory", "":
		boardStore = store.NewMemory()
	default:
		log.Fatalf("Unknown BOARD_STORE %q (want memory, redis or postgres)", cfg.BoardStore)
	}
	log.Printf("[STORE] board store: %s", cfg.BoardStore)

	mgr := board.NewManager(boardStore, board.ManagerConfig{
		Width:       cfg.PitchWidth,
		Height:      cfg.PitchHeight,
		IdleTimeout: idle,
	})

	hub := ws.NewHub()
	mgr.OnLoad(hub.Attach)
	go hub.Run(ctx)
	if rdb != nil {
		relay := ws.NewRelay(rdb, cfg.InstanceID, hub)
		hub.SetRelay(relay)
		relay.Start(ctx)
	}

	go mgr.RunSaver(ctx)
	go mgr.StartExpiryChecker(ctx, time.Duration(cfg.BoardExpiryPollSeconds)*time.Second)

	assistant := chat.NewClient(cfg, rdb)
	if cfg.GeminiAPIKey == "" {
		log.Printf("[CHAT] GEMINI_API_KEY not set; chat needs a client-supplied key")
	}

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, cfg, api.Services{
		Boards:    mgr,
		Hub:       hub,
		Signer:    share.NewSigner(cfg.ShareSecret, time.Duration(cfg.ShareTTLMinutes)*time.Minute),
		Assistant: assistant,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting tactics board server on port %s (instance=%s)", port, cfg.InstanceID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Printf("[STORE] saved %d live boards", mgr.SaveAll(shutdownCtx))
}
