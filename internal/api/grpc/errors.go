package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"quote-negotiation-backend/internal/domain"
)

// toStatus converts a service error into a gRPC status error. Errors that are
// already statuses pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		capErr     *domain.CapExceededError
		dup        *domain.DuplicateActiveQuoteError
		validation *domain.ValidationError
		feedback   *domain.MissingFeedbackError
		locked     *domain.FieldLockedError
		noChange   *domain.NoChangeError
		invalid    *domain.InvalidTransitionError
		stale      *domain.StaleStateError
		forbidden  *domain.ForbiddenError
	)
	switch {
	case errors.As(err, &capErr):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.As(err, &dup):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.As(err, &validation), errors.As(err, &feedback), errors.As(err, &locked):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &invalid), errors.As(err, &noChange):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &stale):
		return status.Error(codes.Aborted, err.Error())
	case errors.As(err, &forbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrQuoteNotFound), errors.Is(err, domain.ErrRentalNotFound), errors.Is(err, domain.ErrNotificationNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
