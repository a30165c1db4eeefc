package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/casadosescritores/escritores-go/internal/auth"
	"github.com/casadosescritores/escritores-go/internal/models"
)

const profileColumns = "id, username, password_hash, role, bio, avatar_url, website_url, twitter_handle, created_at"

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.Role, &p.Bio,
		&p.AvatarURL, &p.WebsiteURL, &p.TwitterHandle, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreateProfile adds a new profile to the database.
func (s *Store) CreateProfile(username, passwordHash, role string) (*models.Profile, error) {
	id := uuid.NewString()
	now := time.Now()
	query := "INSERT INTO profiles (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := s.db.Exec(query, id, username, passwordHash, role, now); err != nil {
		return nil, err
	}
	return &models.Profile{
		ID:        id,
		Username:  username,
		Role:      role,
		CreatedAt: now,
	}, nil
}

// GetProfileByID retrieves a profile by its primary key.
func (s *Store) GetProfileByID(id string) (*models.Profile, error) {
	return scanProfile(s.db.QueryRow("SELECT "+profileColumns+" FROM profiles WHERE id = ?", id))
}

// GetProfileByUsername retrieves a profile by its unique username.
func (s *Store) GetProfileByUsername(username string) (*models.Profile, error) {
	return scanProfile(s.db.QueryRow("SELECT "+profileColumns+" FROM profiles WHERE username = ?", username))
}

// ListProfiles retrieves all profiles, ordered by username.
func (s *Store) ListProfiles() ([]*models.Profile, error) {
	rows, err := s.db.Query("SELECT id, username, role, bio, avatar_url, created_at FROM profiles ORDER BY username ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Role, &p.Bio, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// UpdateProfile updates the profile fields a user may edit themselves.
func (s *Store) UpdateProfile(id, bio, avatarURL, websiteURL, twitterHandle string) error {
	query := "UPDATE profiles SET bio = ?, avatar_url = ?, website_url = ?, twitter_handle = ? WHERE id = ?"
	_, err := s.db.Exec(query, bio, avatarURL, websiteURL, twitterHandle, id)
	return err
}

// UpdateProfileRole changes a profile's role. Admin operation.
func (s *Store) UpdateProfileRole(id, role string) error {
	_, err := s.db.Exec("UPDATE profiles SET role = ? WHERE id = ?", role, id)
	return err
}

// UpdateProfilePassword updates only the profile's password hash.
func (s *Store) UpdateProfilePassword(id, passwordHash string) error {
	_, err := s.db.Exec("UPDATE profiles SET password_hash = ? WHERE id = ?", passwordHash, id)
	return err
}

// DeleteProfile removes a profile. Cascading deletes handle sessions,
// content, comments, follows and notifications.
func (s *Store) DeleteProfile(id string) error {
	_, err := s.db.Exec("DELETE FROM profiles WHERE id = ?", id)
	return err
}

// CountProfiles returns the total number of profiles in the database.
func (s *Store) CountProfiles() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count)
	return count, err
}

// CreateSession creates a new session for a profile and returns the token.
func (s *Store) CreateSession(profileID string) (string, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", err
	}
	expiry := time.Now().Add(7 * 24 * time.Hour) // 1 week session
	_, err = s.db.Exec("INSERT INTO sessions (token, profile_id, expiry) VALUES (?, ?, ?)", token, profileID, expiry)
	return token, err
}

// GetProfileFromSession retrieves a profile based on a session token.
func (s *Store) GetProfileFromSession(token string) (*models.Profile, error) {
	var profileID string
	var expiry time.Time
	err := s.db.QueryRow("SELECT profile_id, expiry FROM sessions WHERE token = ?", token).Scan(&profileID, &expiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("invalid session token")
		}
		return nil, err
	}

	if time.Now().After(expiry) {
		s.DeleteSession(token) // Clean up expired session
		return nil, errors.New("session expired")
	}

	return s.GetProfileByID(profileID)
}

// DeleteSession removes a session from the database (used for logout).
func (s *Store) DeleteSession(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// PurgeExpiredSessions removes sessions past their expiry. Run by the
// background job scheduler.
func (s *Store) PurgeExpiredSessions() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expiry < ?", time.Now())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
