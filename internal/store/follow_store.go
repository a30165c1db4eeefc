package store

import (
	"time"

	"github.com/casadosescritores/escritores-go/internal/models"
)

// CreateFollow records a follow edge. Re-following is a no-op rather than
// an error.
func (s *Store) CreateFollow(followerID, followedID string) error {
	query := "INSERT OR IGNORE INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)"
	_, err := s.db.Exec(query, followerID, followedID, time.Now())
	return err
}

// DeleteFollow removes a follow edge. Unfollowing someone not followed is
// a no-op.
func (s *Store) DeleteFollow(followerID, followedID string) error {
	_, err := s.db.Exec("DELETE FROM follows WHERE follower_id = ? AND followed_id = ?", followerID, followedID)
	return err
}

// IsFollowing reports whether the edge exists.
func (s *Store) IsFollowing(followerID, followedID string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followed_id = ?", followerID, followedID).Scan(&count)
	return count > 0, err
}

// ListFollowers returns the profiles following the given profile.
func (s *Store) ListFollowers(profileID string) ([]*models.Profile, error) {
	return s.listFollowEdge(profileID, "f.followed_id", "f.follower_id")
}

// ListFollowing returns the profiles the given profile follows.
func (s *Store) ListFollowing(profileID string) ([]*models.Profile, error) {
	return s.listFollowEdge(profileID, "f.follower_id", "f.followed_id")
}

func (s *Store) listFollowEdge(profileID, whereCol, joinCol string) ([]*models.Profile, error) {
	query := `
		SELECT p.id, p.username, p.bio, p.avatar_url
		FROM follows f
		JOIN profiles p ON ` + joinCol + ` = p.id
		WHERE ` + whereCol + ` = ?
		ORDER BY f.created_at DESC`
	rows, err := s.db.Query(query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Bio, &p.AvatarURL); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// CountFollowers returns how many profiles follow the given profile, and
// how many it follows.
func (s *Store) CountFollowers(profileID string) (followers int, following int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM follows WHERE followed_id = ?", profileID).Scan(&followers); err != nil {
		return
	}
	err = s.db.QueryRow("SELECT COUNT(*) FROM follows WHERE follower_id = ?", profileID).Scan(&following)
	return
}
