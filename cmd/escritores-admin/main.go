// A small admin CLI: applies migrations and performs account maintenance
// without going through the HTTP API.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/casadosescritores/escritores-go/internal/assets"
	"github.com/casadosescritores/escritores-go/internal/auth"
	"github.com/casadosescritores/escritores-go/internal/config"
	"github.com/casadosescritores/escritores-go/internal/db"
	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/store"
)

func main() {
	createUser := flag.String("create-user", "", "create a profile with the given username")
	password := flag.String("password", "", "password for -create-user")
	role := flag.String("role", models.RoleUser, "role for -create-user (user, moderator or admin)")
	resetPassword := flag.String("reset-password", "", "reset the password of the given username")
	purgeSessions := flag.Bool("purge-sessions", false, "delete all expired sessions")
	flag.Parse()

	// Load configuration from config.yml
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the database connection
	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Run database migrations
	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	st := store.New(database)

	switch {
	case *createUser != "":
		if *password == "" {
			log.Fatal("-create-user requires -password")
		}
		passwordHash, err := auth.HashPassword(*password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		profile, err := st.CreateProfile(*createUser, passwordHash, *role)
		if err != nil {
			log.Fatalf("Failed to create profile: %v", err)
		}
		fmt.Printf("Created %s profile %q (id %s)\n", profile.Role, profile.Username, profile.ID)

	case *resetPassword != "":
		if *password == "" {
			log.Fatal("-reset-password requires -password")
		}
		profile, err := st.GetProfileByUsername(*resetPassword)
		if err != nil {
			log.Fatalf("Failed to find profile %q: %v", *resetPassword, err)
		}
		passwordHash, err := auth.HashPassword(*password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		if err := st.UpdateProfilePassword(profile.ID, passwordHash); err != nil {
			log.Fatalf("Failed to update password: %v", err)
		}
		fmt.Printf("Password updated for %q\n", profile.Username)

	case *purgeSessions:
		n, err := st.PurgeExpiredSessions()
		if err != nil {
			log.Fatalf("Failed to purge sessions: %v", err)
		}
		fmt.Printf("Purged %d expired sessions\n", n)

	default:
		fmt.Println("Database is up to date. Nothing else to do.")
	}
}
