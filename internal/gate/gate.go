// Package gate centralizes the authorization checks performed before every
// mutating operation. The database schema enforces the same rules through
// foreign keys and cascades; the two layers are deliberately redundant.
package gate

import (
	"errors"

	"github.com/casadosescritores/escritores-go/internal/models"
)

var (
	// ErrForbidden means the actor is authenticated but not allowed to
	// touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated means there is no actor at all.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Authorize permits a mutation only when the actor is the content's author.
func Authorize(actorID, authorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if actorID != authorID {
		return ErrForbidden
	}
	return nil
}

// AuthorizeModeration permits the content author, moderators and admins.
// Used for comment removal.
func AuthorizeModeration(actor *models.Profile, authorID string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.ID == authorID || actor.Role == models.RoleModerator || actor.Role == models.RoleAdmin {
		return nil
	}
	return ErrForbidden
}

// AuthorizeAdminDelete permits an admin to delete a target profile. Admins
// may not delete other admins, and may not delete themselves; both cases
// are hard rejections, not no-ops.
func AuthorizeAdminDelete(actor, target *models.Profile) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if target.Role == models.RoleAdmin {
		return ErrForbidden
	}
	if target.ID == actor.ID {
		return ErrForbidden
	}
	return nil
}
