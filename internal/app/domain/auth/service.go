package auth

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the signed JWT and the authenticated profile.
type TokenResponse struct {
	Token string          `json:"token"`
	User  *models.Profile `json:"user"`
}

var _ Service = (*ServiceImpl)(nil)

// Service handles registration and credential login.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
}

type ServiceImpl struct {
	logger    *zap.Logger
	repo      Repository
	jwtConfig JWTConfig
	jwt       *JWTService
}

func NewService(repo Repository, jwtConfig JWTConfig, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		jwtConfig: jwtConfig,
		jwt:       NewJWTService(),
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(zap.String("method", "Register"))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := HashPassword(req.Password)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.CreateProfile(ctx, email, hash, req.FirstName, req.LastName); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(s.jwtConfig, profile.ID, profile.Email)
	if err != nil {
		l.Error("Failed to sign token", zap.Error(err))
		return nil, err
	}

	l.Info("User registered", zap.String("user_id", profile.ID.String()))
	return &TokenResponse{Token: token, User: profile}, nil
}

func (s *ServiceImpl) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	profile, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and bad password.
		return nil, models.ErrUnauthenticated
	}

	if !CheckPassword(profile.PasswordHash, req.Password) {
		return nil, models.ErrUnauthenticated
	}

	token, err := s.jwt.GenerateToken(s.jwtConfig, profile.ID, profile.Email)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, err
	}

	return &TokenResponse{Token: token, User: profile}, nil
}
