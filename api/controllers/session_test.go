package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moviemaestro/moviemaestro-backend/api/middleware"
	pkgAuth "github.com/moviemaestro/moviemaestro-backend/pkg/auth"
	"github.com/moviemaestro/moviemaestro-backend/pkg/auth/session"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
)

type stubRotator struct {
	newAccessID string
	newRefresh  string
	rotateErr   error
	revokeErr   error

	revokedID string
}

func (s *stubRotator) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.newAccessID, s.newRefresh, nil
}

func (s *stubRotator) Revoke(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return s.revokeErr
}

func sessionJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
}

func mintSessionToken(t *testing.T, cfg config.JWTConfig, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "session@example.com",
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthLogoutRevokesContextSession(t *testing.T) {
	rotator := &stubRotator{}
	handler := AuthLogout(rotator, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "session-1"))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if rotator.revokedID != "session-1" {
		t.Fatalf("expected session-1 revoked, got %q", rotator.revokedID)
	}
}

func TestAuthLogoutWithoutSessionID(t *testing.T) {
	handler := AuthLogout(&stubRotator{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRotates(t *testing.T) {
	cfg := sessionJWTConfig()
	rotator := &stubRotator{newAccessID: session.NewAccessID(), newRefresh: "next-refresh"}
	handler := AuthRefresh(rotator, cfg, nil)

	token := mintSessionToken(t, cfg, "session-2")
	req := httptest.NewRequest(http.MethodPost, "/users/refresh", bytes.NewReader([]byte(`{"refreshToken":"current-refresh"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RefreshToken != "next-refresh" {
		t.Fatalf("unexpected refresh token %q", envelope.Data.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, envelope.Data.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != rotator.newAccessID {
		t.Fatalf("expected jti %q got %q", rotator.newAccessID, claims.ID)
	}
}

func TestAuthRefreshRejectsInvalidRefreshToken(t *testing.T) {
	cfg := sessionJWTConfig()
	rotator := &stubRotator{rotateErr: session.ErrInvalidRefreshToken}
	handler := AuthRefresh(rotator, cfg, nil)

	token := mintSessionToken(t, cfg, "session-3")
	req := httptest.NewRequest(http.MethodPost, "/users/refresh", bytes.NewReader([]byte(`{"refreshToken":"stolen"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRequiresBearerToken(t *testing.T) {
	handler := AuthRefresh(&stubRotator{}, sessionJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/users/refresh", bytes.NewReader([]byte(`{"refreshToken":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
