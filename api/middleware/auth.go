package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/moviemaestro/moviemaestro-backend/api/responses"
	pkgAuth "github.com/moviemaestro/moviemaestro-backend/pkg/auth"
	"github.com/moviemaestro/moviemaestro-backend/pkg/auth/session"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxUserEmail, claims.Email)
			ctx = context.WithValue(ctx, ctxIsAdmin, claims.IsAdmin)
			ctx = context.WithValue(ctx, ctxAccessID, claims.ID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":  claims.UserID.String(),
					"is_admin": claims.IsAdmin,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}
