package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"looptracker/internal/config"
	"looptracker/internal/database"
	"looptracker/internal/handlers"
	"looptracker/internal/repository"
	"looptracker/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	loopRepo := repository.NewLoopRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// Initialize services
	loopService := service.NewLoopService(loopRepo)
	streakService := service.NewStreakService(db, loopRepo, streakRepo)
	reactionService := service.NewReactionService(reactionRepo, loopRepo)

	// Initialize handlers
	loopHandler := handlers.NewLoopHandler(loopService)
	streakHandler := handlers.NewStreakHandler(streakService)
	reactionHandler := handlers.NewReactionHandler(reactionService)

	mux := http.NewServeMux()

	// Loop routes
	mux.HandleFunc("POST /api/loops", handlers.RequireActor(loopHandler.Create))
	mux.HandleFunc("GET /api/loops", handlers.RequireActor(loopHandler.List))
	mux.HandleFunc("GET /api/loops/trending", loopHandler.Trending)
	mux.HandleFunc("GET /api/loops/{id}", handlers.RequireActor(loopHandler.Get))
	mux.HandleFunc("PATCH /api/loops/{id}", handlers.RequireActor(loopHandler.Update))
	mux.HandleFunc("DELETE /api/loops/{id}", handlers.RequireActor(loopHandler.Delete))
	mux.HandleFunc("POST /api/loops/{id}/clone", handlers.RequireActor(loopHandler.Clone))

	// Streak routes
	mux.HandleFunc("POST /api/loops/{id}/streak", handlers.RequireActor(streakHandler.Mark))
	mux.HandleFunc("GET /api/loops/{id}/stats", handlers.RequireActor(streakHandler.Stats))
	mux.HandleFunc("GET /api/loops/{id}/heatmap", handlers.RequireActor(streakHandler.Heatmap))

	// Reaction routes
	mux.HandleFunc("POST /api/loops/{id}/reactions", handlers.RequireActor(reactionHandler.React))
	mux.HandleFunc("DELETE /api/loops/{id}/reactions", handlers.RequireActor(reactionHandler.Unreact))
	mux.HandleFunc("GET /api/loops/{id}/reactions", reactionHandler.List)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
