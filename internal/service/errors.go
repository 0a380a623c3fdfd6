package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/loekvdlooilionx/votejam/internal/auth"
	"github.com/loekvdlooilionx/votejam/internal/middleware"
	"github.com/loekvdlooilionx/votejam/internal/models"
)

// codeFor maps domain errors onto Connect codes. Anything unclassified is Internal.
func codeFor(err error) connect.Code {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, models.ErrInactiveWeek):
		return connect.CodeFailedPrecondition
	case errors.Is(err, models.ErrDuplicateTrack),
		errors.Is(err, models.ErrEmailExists):
		return connect.CodeAlreadyExists
	case errors.Is(err, models.ErrBudgetExceeded):
		return connect.CodeResourceExhausted
	case errors.Is(err, models.ErrTrackNotInWeek),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword):
		return connect.CodeInvalidArgument
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrInviteCodeTaken):
		return connect.CodeAborted
	case errors.Is(err, models.ErrCatalogUnavailable),
		errors.Is(err, models.ErrStoreUnavailable):
		return connect.CodeUnavailable
	case errors.Is(err, models.ErrNotMember),
		errors.Is(err, models.ErrNotAdmin):
		return connect.CodePermissionDenied
	case errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrWeekNotFound),
		errors.Is(err, models.ErrTrackNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return connect.CodeNotFound
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return connect.CodeUnauthenticated
	}
	return connect.CodeInternal
}

// toConnectError logs err and converts it for the wire.
// Internal failures are not echoed to the client.
func toConnectError(ctx context.Context, op string, err error, attrs ...any) error {
	code := codeFor(err)
	attrs = append(attrs, "user_id", middleware.GetUserID(ctx), "code", code, "error", err)
	if middleware.IsServerCode(code) {
		slog.Error(op+" failed", attrs...)
	} else {
		slog.Warn(op+" failed", attrs...)
	}

	if code == connect.CodeInternal {
		return connect.NewError(code, errors.New("internal error"))
	}
	return connect.NewError(code, err)
}

// callerID returns the authenticated user, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
