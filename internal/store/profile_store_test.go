package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/store"
	"github.com/casadosescritores/escritores-go/internal/testutil"
)

func TestProfileCRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	profile, err := st.CreateProfile("escritora", "hash", models.RoleUser)
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if profile.ID == "" {
		t.Fatal("profile has no id")
	}

	t.Run("duplicate username rejected", func(t *testing.T) {
		if _, err := st.CreateProfile("escritora", "hash2", models.RoleUser); err == nil {
			t.Error("expected unique constraint error for duplicate username")
		}
	})

	t.Run("fetch by username", func(t *testing.T) {
		fetched, err := st.GetProfileByUsername("escritora")
		if err != nil {
			t.Fatalf("GetProfileByUsername failed: %v", err)
		}
		if fetched.ID != profile.ID {
			t.Error("wrong profile returned")
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		if _, err := st.GetProfileByID("missing"); !errors.Is(err, store.ErrProfileNotFound) {
			t.Errorf("got %v, want ErrProfileNotFound", err)
		}
	})

	t.Run("update bio and links", func(t *testing.T) {
		if err := st.UpdateProfile(profile.ID, "escrevo contos", "/storage/avatars/x.jpg", "https://site", "@handle"); err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		fetched, _ := st.GetProfileByID(profile.ID)
		if fetched.Bio != "escrevo contos" || fetched.TwitterHandle != "@handle" {
			t.Errorf("update not persisted: %+v", fetched)
		}
	})

	t.Run("role change", func(t *testing.T) {
		if err := st.UpdateProfileRole(profile.ID, models.RoleModerator); err != nil {
			t.Fatalf("UpdateProfileRole failed: %v", err)
		}
		fetched, _ := st.GetProfileByID(profile.ID)
		if fetched.Role != models.RoleModerator {
			t.Errorf("got role %q", fetched.Role)
		}
	})

	t.Run("count and delete", func(t *testing.T) {
		count, err := st.CountProfiles()
		if err != nil || count != 1 {
			t.Fatalf("CountProfiles = %d, %v; want 1", count, err)
		}
		if err := st.DeleteProfile(profile.ID); err != nil {
			t.Fatalf("DeleteProfile failed: %v", err)
		}
		count, _ = st.CountProfiles()
		if count != 0 {
			t.Errorf("CountProfiles after delete = %d, want 0", count)
		}
	})
}

func TestSessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	profile, _ := st.CreateProfile("leitor", "hash", models.RoleUser)

	token, err := st.CreateSession(profile.ID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if token == "" {
		t.Fatal("empty session token")
	}

	t.Run("valid session resolves profile", func(t *testing.T) {
		fetched, err := st.GetProfileFromSession(token)
		if err != nil {
			t.Fatalf("GetProfileFromSession failed: %v", err)
		}
		if fetched.ID != profile.ID {
			t.Error("session resolved to the wrong profile")
		}
	})

	t.Run("deleted session is invalid", func(t *testing.T) {
		if err := st.DeleteSession(token); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := st.GetProfileFromSession(token); err == nil {
			t.Error("expected error for deleted session")
		}
	})

	t.Run("expired sessions are purged", func(t *testing.T) {
		// Insert one expired and one live session directly.
		past := time.Now().Add(-time.Hour)
		future := time.Now().Add(time.Hour)
		db.Exec("INSERT INTO sessions (token, profile_id, expiry) VALUES ('old', ?, ?)", profile.ID, past)
		db.Exec("INSERT INTO sessions (token, profile_id, expiry) VALUES ('live', ?, ?)", profile.ID, future)

		purged, err := st.PurgeExpiredSessions()
		if err != nil {
			t.Fatalf("PurgeExpiredSessions failed: %v", err)
		}
		if purged != 1 {
			t.Errorf("purged %d sessions, want 1", purged)
		}
		if _, err := st.GetProfileFromSession("live"); err != nil {
			t.Errorf("live session should survive the purge: %v", err)
		}
	})
}
