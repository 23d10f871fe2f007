package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/moviemaestro/moviemaestro-backend/internal/users"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxUserEmail contextKey = "user_email"
	ctxIsAdmin   contextKey = "is_admin"
	ctxAccessID  contextKey = "access_id"
)

func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func UserEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserEmail).(string); ok {
		return v
	}
	return ""
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// AccessIDFromContext returns the jti of the presented access token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// CallerFromContext assembles the authenticated principal seeded by Auth.
func CallerFromContext(ctx context.Context) users.Caller {
	return users.Caller{
		ID:      UserIDFromContext(ctx),
		Email:   UserEmailFromContext(ctx),
		IsAdmin: IsAdminFromContext(ctx),
	}
}

// WithCaller injects the principal into the context, mainly for handler tests.
func WithCaller(ctx context.Context, caller users.Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, caller.ID)
	ctx = context.WithValue(ctx, ctxUserEmail, caller.Email)
	return context.WithValue(ctx, ctxIsAdmin, caller.IsAdmin)
}

// WithAccessID injects the session identifier into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
