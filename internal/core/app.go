package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/casadosescritores/escritores-go/internal/assets"
	"github.com/casadosescritores/escritores-go/internal/config"
	"github.com/casadosescritores/escritores-go/internal/db"
	"github.com/casadosescritores/escritores-go/internal/jobs"
	"github.com/casadosescritores/escritores-go/internal/sitemap"
	"github.com/casadosescritores/escritores-go/internal/storage"
	"github.com/casadosescritores/escritores-go/internal/store"
	"github.com/casadosescritores/escritores-go/internal/websocket"
)

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	config     *config.Config
	database   *sql.DB
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	sitemapSvc *sitemap.Service
	bucket     *storage.Bucket
	version    string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, running migrations
// and provisioning the storage bucket.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	bucket, err := storage.NewBucket(cfg.Storage.Path)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to provision storage bucket: %w", err)
	}

	app := Assemble(cfg, database, bucket, version)
	log.Println("Core application setup complete.")
	return app, nil
}

// Assemble wires an App from already-initialized dependencies. Used by New
// and by test setup, which provides an in-memory database.
func Assemble(cfg *config.Config, database *sql.DB, bucket *storage.Bucket, version string) *App {
	hub := websocket.NewHub()
	go hub.Run()

	app := &App{
		config:     cfg,
		database:   database,
		wsHub:      hub,
		sitemapSvc: sitemap.New(store.New(database), cfg.Site.BaseURL),
		bucket:     bucket,
		version:    version,
	}
	app.jobManager = jobs.NewManager(app)
	jobs.RegisterJobs(app.jobManager)
	return app
}

// Accessors implementing jobs.JobContext.

func (a *App) DB() *sql.DB                  { return a.database }
func (a *App) Config() *config.Config       { return a.config }
func (a *App) WsHub() *websocket.Hub        { return a.wsHub }
func (a *App) Sitemap() *sitemap.Service    { return a.sitemapSvc }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }
func (a *App) Bucket() *storage.Bucket      { return a.bucket }
func (a *App) Version() string              { return a.version }

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.database != nil {
		a.database.Close()
	}
}
