// This file defines the core data structures (models) for our application.
// These structs represent the writers, their works and the social graph.

package models

import "time"

// Roles a profile can hold. Moderators may remove comments; admins manage
// user accounts.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Profile represents a registered writer.
type Profile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"` // Never serialized in responses
	Role          string    `json:"role"`
	Bio           string    `json:"bio"`
	AvatarURL     string    `json:"avatar_url"`
	WebsiteURL    string    `json:"website_url"`
	TwitterHandle string    `json:"twitter_handle"`
	CreatedAt     time.Time `json:"created_at"`
}
