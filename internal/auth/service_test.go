package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/moviemaestro/moviemaestro-backend/pkg/auth"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubSessions struct {
	lastAccessID string
	token        string
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.lastAccessID = accessID
	return s.token, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-0123456789",
		Issuer:            "moviemaestro-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60 * 24 * 7,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Name:         "Yoshi",
		Email:        "yoshi@example.com",
		PasswordHash: hash,
		IsAdmin:      true,
	}
}

func newLoginService(t *testing.T, repo *stubUserRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func expectInvalidCredentials(t *testing.T, err error) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != pkgerrors.CodeInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %q", appErr.Code())
	}
	if appErr.Message() != invalidCredentialsMessage {
		t.Fatalf("unexpected message %q", appErr.Message())
	}
}

func TestLoginSuccess(t *testing.T) {
	user := seedUser(t, "hunter2")
	sessions := &stubSessions{token: "refresh-token"}
	svc := newLoginService(t, &stubUserRepo{user: user}, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Yoshi@Example.com",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Status != "Successful Login" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}
	if resp.User == nil || resp.User.Email != "yoshi@example.com" {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if !claims.IsAdmin {
		t.Fatal("expected admin claim")
	}
	if claims.ID != sessions.lastAccessID {
		t.Fatalf("jti %q does not match stored session %q", claims.ID, sessions.lastAccessID)
	}
}

func TestLoginUnknownEmailAndWrongPasswordLookIdentical(t *testing.T) {
	user := seedUser(t, "hunter2")
	svc := newLoginService(t, &stubUserRepo{user: user}, &stubSessions{token: "rt"})
	ctx := context.Background()

	_, unknownErr := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "hunter2"})
	expectInvalidCredentials(t, unknownErr)

	_, wrongErr := svc.Login(ctx, LoginRequest{Email: "yoshi@example.com", Password: "wrong"})
	expectInvalidCredentials(t, wrongErr)

	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginBlankCredentials(t *testing.T) {
	svc := newLoginService(t, &stubUserRepo{}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{})
	expectInvalidCredentials(t, err)
}
