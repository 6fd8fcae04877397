package userctx

import (
	"context"

	"github.com/samape/samape/models"
)

// Context key type
type contextKey string

const userIDKey contextKey = "user_id"
const userNameKey contextKey = "user_name"
const userRoleKey contextKey = "user_role"

// SetUser adds the authenticated user's identity to the request context
func SetUser(ctx context.Context, id int, name string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	ctx = context.WithValue(ctx, userNameKey, name)
	return context.WithValue(ctx, userRoleKey, role)
}

// UserID retrieves the authenticated user's ID, or 0 when anonymous
func UserID(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 0
}

// UserIDPtr returns the user ID as a pointer for audit records, nil when
// anonymous
func UserIDPtr(ctx context.Context) *int {
	if id, ok := ctx.Value(userIDKey).(int); ok && id > 0 {
		return &id
	}
	return nil
}

// UserName retrieves the authenticated user's display name
func UserName(ctx context.Context) string {
	if name, ok := ctx.Value(userNameKey).(string); ok {
		return name
	}
	return ""
}

// UserRole retrieves the authenticated user's role, or "" when anonymous
func UserRole(ctx context.Context) models.Role {
	if role, ok := ctx.Value(userRoleKey).(models.Role); ok {
		return role
	}
	return ""
}
