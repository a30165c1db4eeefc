// This new test file verifies the configuration loading logic using Viper.

package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		viper.Reset()
		// Ensure no config file exists for this test
		os.Remove("config.yml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if default values are set
		if cfg.Port != 8080 {
			t.Errorf("Expected default port 8080, got %d", cfg.Port)
		}
		if cfg.Database.Path != "./escritores.db" {
			t.Errorf("Expected default db path './escritores.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Storage.Path != "./storage" {
			t.Errorf("Expected default storage path './storage', got '%s'", cfg.Storage.Path)
		}
		if cfg.Site.BaseURL != "http://localhost:8080" {
			t.Errorf("Expected default base URL 'http://localhost:8080', got '%s'", cfg.Site.BaseURL)
		}
	})

	t.Run("Loads from config file", func(t *testing.T) {
		viper.Reset()
		// Create a temporary config file for this test
		configContent := `
port: 9999
database:
  path: "/tmp/test.db"
storage:
  path: "/tmp/test-storage"
site:
  base_url: "https://escritores.example.com"
sitemap:
  refresh_interval: 5
unknown_setting: "should be ignored"
`
		// Create the config file in the current directory so Viper can find it.
		// Note: `t.TempDir()` is not used here because Viper looks in the CWD.
		configPath := "config.yml"
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config file: %v", err)
		}
		// Clean up the file after the test
		defer os.Remove(configPath)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if values from the file were loaded
		if cfg.Port != 9999 {
			t.Errorf("Expected port 9999, got %d", cfg.Port)
		}
		if cfg.Database.Path != "/tmp/test.db" {
			t.Errorf("Expected db path '/tmp/test.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Site.BaseURL != "https://escritores.example.com" {
			t.Errorf("Expected base URL from file, got '%s'", cfg.Site.BaseURL)
		}
		if cfg.Sitemap.RefreshInterval != 5 {
			t.Errorf("Expected sitemap refresh interval 5, got %d", cfg.Sitemap.RefreshInterval)
		}
	})

	t.Run("Environment variable override", func(t *testing.T) {
		viper.Reset()
		os.Remove("config.yml")
		os.Setenv("ESCRITORES_PORT", "7777")
		defer os.Unsetenv("ESCRITORES_PORT")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}
		if cfg.Port != 7777 {
			t.Errorf("Expected port 7777 from environment, got %d", cfg.Port)
		}
	})
}
