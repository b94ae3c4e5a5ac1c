package grpc

import (
	"context"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"quote-negotiation-backend/internal/domain"
)

// GetUserIDFromContext extracts the user ID from the gRPC metadata.
// It expects a header named "user-id".
func GetUserIDFromContext(ctx context.Context) (int32, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return 0, status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	userIDs := md.Get("user-id")
	if len(userIDs) == 0 {
		return 0, status.Errorf(codes.Unauthenticated, "user_id is not provided in metadata")
	}

	userID, err := strconv.ParseInt(userIDs[0], 10, 32)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid user_id format: %v", err)
	}

	return int32(userID), nil
}

// GetUserRoleFromContext extracts the caller role set by the auth interceptor.
func GetUserRoleFromContext(ctx context.Context) (domain.Role, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	roles := md.Get("user-role")
	if len(roles) == 0 {
		return "", status.Errorf(codes.Unauthenticated, "user_role is not provided in metadata")
	}

	role := domain.Role(roles[0])
	if !role.Valid() {
		return "", status.Errorf(codes.PermissionDenied, "unknown role %q", roles[0])
	}
	return role, nil
}
