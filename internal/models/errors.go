package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInactiveWeek is returned when an action targets a week that is not active.
	ErrInactiveWeek = errors.New("voting week is not active")

	// ErrNoActiveWeek is returned when a group has no active week at all.
	// It matches ErrInactiveWeek with errors.Is.
	ErrNoActiveWeek = fmt.Errorf("no active voting week: %w", ErrInactiveWeek)

	ErrDuplicateTrack = errors.New("track already submitted this week")
	ErrBudgetExceeded = errors.New("vote would exceed coin budget")

	// ErrTrackNotInWeek is a referential-integrity failure: the track exists
	// but belongs to a different week than the one voted in.
	ErrTrackNotInWeek = errors.New("track does not belong to this week")

	// ErrConflict is returned when a concurrent week activation is detected.
	ErrConflict = errors.New("concurrent week activation")

	ErrCatalogUnavailable = errors.New("track catalog unavailable")
	ErrStoreUnavailable   = errors.New("store unavailable")

	ErrNotMember = errors.New("not a member of this group")
	ErrNotAdmin  = errors.New("group admin role required")

	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrWeekNotFound  = errors.New("week not found")
	ErrTrackNotFound = errors.New("track not found")

	ErrInviteCodeTaken = errors.New("invite code already in use")
	ErrEmailExists     = errors.New("email already registered")

	ErrInvalidInput = errors.New("invalid input")
)

// InvalidInput wraps ErrInvalidInput with a reason.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
