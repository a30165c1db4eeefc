// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/casadosescritores/escritores-go/internal/api"
	"github.com/casadosescritores/escritores-go/internal/config"
	"github.com/casadosescritores/escritores-go/internal/core"
	"github.com/casadosescritores/escritores-go/internal/storage"
)

// SetupTestApp assembles a core.App over an in-memory database and a
// temporary storage bucket.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	database := SetupTestDB(t)

	bucket, err := storage.NewBucket(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to provision test bucket: %v", err)
	}

	cfg := &config.Config{}
	cfg.Site.BaseURL = "http://example.com"
	return core.Assemble(cfg, database, bucket, "test")
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()
	app := SetupTestApp(t)
	server := api.NewServer(app)
	return server, app.DB()
}
