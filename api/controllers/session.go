package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/moviemaestro/moviemaestro-backend/api/middleware"
	"github.com/moviemaestro/moviemaestro-backend/api/responses"
	"github.com/moviemaestro/moviemaestro-backend/api/validators"
	pkgAuth "github.com/moviemaestro/moviemaestro-backend/pkg/auth"
	"github.com/moviemaestro/moviemaestro-backend/pkg/auth/session"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/logger"
)

type sessionTokenRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthLogout revokes the refresh mapping tied to the authenticated session.
func AuthLogout(manager sessionTokenRotator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := manager.Revoke(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthRefresh rotates the refresh token and issues a new access token. The
// expired access token is still required so the rotation is bound to the
// original session.
func AuthRefresh(manager sessionTokenRotator, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		var body refreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := middleware.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if claims.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		newAccessID, newRefreshToken, err := manager.Rotate(r.Context(), claims.ID, body.RefreshToken)
		if err != nil {
			if errors.Is(err, session.ErrInvalidRefreshToken) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session"))
			return
		}

		payload := pkgAuth.AccessTokenPayload{
			UserID:  claims.UserID,
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
			JTI:     newAccessID,
		}
		accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt"))
			return
		}

		responses.WriteSuccess(w, refreshResponse{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
		})
	}
}
