package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"camops/calendar"
	"camops/config"
	"camops/database"
	"camops/handlers"
	"camops/inventory"
	"camops/middleware"
	"camops/routes"
	"camops/store"
	ws "camops/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	config.LoadConfig()

	// Store selection: Mongo when reachable, memory when offline is allowed
	var appStore store.Store
	if err := database.Connect(); err != nil {
		if !config.AllowOffline {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		log.Printf("Database unreachable (%v), running on the in-memory store", err)
		appStore = store.NewMemoryStore()
	} else {
		appStore = store.NewMongoStore(database.Client, config.DBName)
	}

	// Optional Google Calendar sync
	cal, err := calendar.New(context.Background(), config.GoogleCredentialsFile, config.GoogleCalendarID)
	if err != nil {
		log.Printf("Calendar integration disabled: %v", err)
		cal = nil
	} else if cal != nil {
		log.Printf("Calendar sync enabled for calendar %s", config.GoogleCalendarID)
	}

	hub := ws.NewHub()
	inv := inventory.New(appStore)
	handlers.Init(appStore, inv, cal, hub)
	middleware.Init(appStore)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := handlers.EnsureAdminUser(ctx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Printf("Admin seed failed: %v", err)
	}
	cancel()

	// Router setup
	router := mux.NewRouter()
	routes.RegisterRoutes(router)

	// Global middlewares (order matters!)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	// HTTP server configuration
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("CamOps backend running on http://localhost:%s (store: %s)", config.Port, appStore.Mode())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	database.Disconnect()
	log.Println("Server stopped gracefully")
}
