// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Storage struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"storage"`
	Site struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"site"`
	Sitemap struct {
		RefreshInterval int `mapstructure:"refresh_interval"` // minutes, 0 disables the job
	} `mapstructure:"sitemap"`
	Sessions struct {
		PurgeInterval int `mapstructure:"purge_interval"` // minutes, 0 disables the job
	} `mapstructure:"sessions"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with an "ESCRITORES_"
	// prefix. e.g., ESCRITORES_DATABASE_PATH overrides the `database.path` key.
	viper.SetEnvPrefix("ESCRITORES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("database.path", "./escritores.db")
	viper.SetDefault("storage.path", "./storage")
	viper.SetDefault("site.base_url", "http://localhost:8080")
	viper.SetDefault("sitemap.refresh_interval", 30)
	viper.SetDefault("sessions.purge_interval", 60)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
