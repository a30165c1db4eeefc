package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/casadosescritores/escritores-go/internal/api"
	"github.com/casadosescritores/escritores-go/internal/core"
	"github.com/casadosescritores/escritores-go/internal/jobs"
)

// A minimal server entrypoint: no admin provisioning, no storage watcher.
// Useful for running behind a supervisor that handles restarts.
func main() {
	// Initialize the core application components
	app, err := core.New("dev")
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	if _, err := app.Sitemap().Refresh(); err != nil {
		log.Printf("Warning: initial sitemap build failed: %v", err)
	}
	jobs.StartJobs(app)

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	log.Printf("Starting web server on %s", addr)

	// Start the HTTP server
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
