package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casadosescritores/escritores-go/internal/api"
	"github.com/casadosescritores/escritores-go/internal/auth"
	"github.com/casadosescritores/escritores-go/internal/core"
	"github.com/casadosescritores/escritores-go/internal/jobs"
	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/storage"
	"github.com/casadosescritores/escritores-go/internal/store"
)

var version = "dev"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New(version)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	// --- First User Provisioning ---
	st := store.New(app.DB())
	profileCount, err := st.CountProfiles()
	if err != nil {
		log.Fatalf("Could not check profile count: %v", err)
	}
	if profileCount == 0 {
		log.Println("No profiles found. Creating default admin account.")
		password := generateRandomPassword(12)
		passwordHash, _ := auth.HashPassword(password)
		_, err := st.CreateProfile("admin", passwordHash, models.RoleAdmin)
		if err != nil {
			log.Fatalf("Could not create default admin profile: %v", err)
		}
		log.Println("==================================================")
		log.Println("Default admin profile created.")
		log.Printf("Username: admin")
		log.Printf("Password: %s", password)
		log.Println("Please change this password immediately.")
		log.Println("==================================================")
	}

	// Build the sitemap once so the first request never sees an empty cache.
	if _, err := app.Sitemap().Refresh(); err != nil {
		log.Printf("Warning: initial sitemap build failed: %v", err)
	}

	// Start periodic background jobs (sitemap refresh, session purge).
	jobs.StartJobs(app)

	// Watch the storage bucket for files removed behind our back.
	watcher := storage.NewWatcher(app.Bucket())
	if err := watcher.Start(); err != nil {
		log.Printf("Warning: storage watcher failed to start: %v", err)
	} else {
		defer watcher.Stop()
	}

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}
	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

func generateRandomPassword(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}
