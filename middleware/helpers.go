package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/intramural-stats/models"
)

type contextKey string

const (
	roleContextKey      contextKey = "role"
	requestIDContextKey contextKey = "request_id"
)

var ErrRoleNotInContext = errors.New("user role not found in context")

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	role, ok := ctx.Value(roleContextKey).(models.UserRole)
	if !ok || role == "" {
		return "", ErrRoleNotInContext
	}
	return role, nil
}

func withUserRole(ctx context.Context, role models.UserRole) context.Context {
	return context.WithValue(ctx, roleContextKey, role)
}

// GetRequestID returns the id assigned by RequestLogger, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
