package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/moviemaestro/moviemaestro-backend/internal/users"
	pkgAuth "github.com/moviemaestro/moviemaestro-backend/pkg/auth"
	"github.com/moviemaestro/moviemaestro-backend/pkg/auth/session"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
	"github.com/moviemaestro/moviemaestro-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	loginSuccessStatus        = "Successful Login"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

type service struct {
	users   userRepository
	session sessionManager
	jwtCfg  config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:   params.UserRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	payload := pkgAuth.AccessTokenPayload{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		JTI:     accessID,
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		Status:       loginSuccessStatus,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// authenticate returns the same error for an unknown email and a wrong
// password so responses do not leak which accounts exist.
func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.ToLower(strings.TrimSpace(email))
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}
	return user, nil
}
