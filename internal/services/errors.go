package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uucee/ClubWebApp/internal/permissions"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes and user-facing messages.
var (
	ErrValidation        = errors.New("validation failed")
	ErrEmailTaken        = errors.New("a member with this email already exists")
	ErrUsernameTaken     = errors.New("this username is already taken")
	ErrInvalidToken      = errors.New("invalid invitation link")
	ErrInvitationExpired = errors.New("this invitation link has expired")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrWeakPassword      = errors.New("password must be at least 8 characters long")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidStatus     = errors.New("invalid status selected")
	ErrMemberNotFound    = errors.New("member not found")
	ErrUserNotFound      = errors.New("user not found")

	// ErrInviteNotSent signals partial failure: the member records were
	// created but the invitation email could not be delivered.
	ErrInviteNotSent = errors.New("member created but invitation email could not be sent")
)

func validationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidation, detail)
}

func permissionError(d permissions.Decision) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, d.Reason)
}

// isUniqueViolation matches duplicate-key errors from both Postgres and
// the SQLite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}

// isTokenCollision narrows a unique violation to the invitation token
// column so issuance can re-roll instead of failing.
func isTokenCollision(err error) bool {
	return isUniqueViolation(err) && strings.Contains(err.Error(), "invitation_token")
}
