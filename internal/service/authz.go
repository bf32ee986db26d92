package service

import (
	"errors"

	"github.com/campdir/campdir-api/internal/model"
)

var (
	// ErrNotAuthenticated means a valid token referenced a user that no
	// longer exists.
	ErrNotAuthenticated = errors.New("user account not found")

	// ErrNotAuthorized means the actor is authenticated but neither owns
	// the resource nor holds the admin role.
	ErrNotAuthorized = errors.New("not authorized to modify this resource")

	// ErrAlreadyPublished means a non-admin actor already owns a
	// bootcamp and tried to create another.
	ErrAlreadyPublished = errors.New("user has already published a bootcamp")
)

// CanModify decides whether actor may mutate a resource owned by
// ownerID: owners and admins may, nobody else. Reads never consult this;
// they are public. Callers must resolve existence first so a missing
// resource surfaces as not-found rather than not-authorized.
func CanModify(actor *model.User, ownerID int64) error {
	if actor.ID == ownerID || actor.Role == model.RoleAdmin {
		return nil
	}
	return ErrNotAuthorized
}

// CanPublish decides whether actor may create a bootcamp. Non-admins are
// limited to one bootcamp each; admins are exempt.
func CanPublish(actor *model.User, alreadyOwns bool) error {
	if alreadyOwns && actor.Role != model.RoleAdmin {
		return ErrAlreadyPublished
	}
	return nil
}
