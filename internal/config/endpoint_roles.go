package config

import (
	"path"

	"quote-negotiation-backend/internal/domain"
)

var everyone = []domain.Role{domain.RoleStaff, domain.RoleManager, domain.RoleCustomer}

// EndpointRoles maps an operation name to the roles allowed to call it. The
// gRPC interceptor looks up the last segment of the full method name, the
// REST middleware the mux route name.
var EndpointRoles = map[string][]domain.Role{
	// QuoteService
	"CreateQuote":         {domain.RoleStaff},
	"GetQuote":            everyone,
	"ListQuotesForRental": everyone,
	"ManagerAction":       {domain.RoleManager},
	"ReviseQuote":         {domain.RoleStaff},
	"CustomerAction":      {domain.RoleCustomer},

	// NotificationService
	"GetNotifications":     everyone,
	"MarkNotificationRead": everyone,
}

// PublicEndpoints need no token.
var PublicEndpoints = map[string]bool{
	"Health": true,
	"/grpc.reflection.v1.ServerReflection/ServerReflectionInfo":      true,
	"/grpc.reflection.v1alpha.ServerReflection/ServerReflectionInfo": true,
}

// OperationName reduces a gRPC full method ("/quote.v1.QuoteService/GetQuote")
// to its operation name. Other names are returned unchanged.
func OperationName(fullMethod string) string {
	return path.Base(fullMethod)
}

// RoleAllowed reports whether role may call operation. Unknown operations are denied.
func RoleAllowed(operation string, role domain.Role) bool {
	for _, r := range EndpointRoles[operation] {
		if r == role {
			return true
		}
	}
	return false
}
