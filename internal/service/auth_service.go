package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventease/internal/auth"
	"eventease/internal/errors"
	"eventease/internal/model"
	"eventease/internal/repository"
)

const bcryptCost = 10

// AuthService handles sign-up, sign-in and sign-out.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (token string, user *model.User, err error)
	SignIn(ctx context.Context, email, password string) (token string, user *model.User, err error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	Session(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// SignUp creates a new organizer account and issues a token for it. New
// accounts always get the EVENT_OWNER role; admin/staff are provisioned via
// the seed tooling, not self-service.
func (s *authService) SignUp(ctx context.Context, name, email, password string) (string, *model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, errors.ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleEventOwner,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// SignIn authenticates a user and returns a signed token.
func (s *authService) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// Session returns the current user record for an authenticated caller.
func (s *authService) Session(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// SignOut revokes the presented token server-side. The blacklist entry lives
// only as long as the token would have.
func (s *authService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		// Nothing to revoke; sign-out is idempotent.
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.tokenStore.RevokeToken(ctx, claims.ID, ttl)
}
