package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/prasetyo/school-engine/internal/auth"
	"github.com/prasetyo/school-engine/internal/config"
	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/repository"
	customError "github.com/prasetyo/school-engine/pkg/errors"
)

// AuthService handles login, account registration and account lookups.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	quotas   config.StorageConfig
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, quotas config.StorageConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		quotas:   quotas,
	}
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, customError.WrapUnauthorized("invalid email or password")
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, customError.WrapUnauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, customError.WrapUnauthorized("failed to issue token")
	}

	return &domain.LoginResponse{Token: token, User: user}, nil
}

// Register creates a new account with the role's default storage quota.
// Only admins may register accounts.
func (s *AuthService) Register(ctx context.Context, identity domain.Identity, req *domain.RegisterRequest) (*domain.User, error) {
	if !identity.IsAdmin() {
		return nil, customError.WrapForbidden("only admins can register accounts")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, customError.WrapValidation("failed to hash password")
	}

	limit := s.quotas.DefaultQuota
	if req.Role == domain.RoleAdmin {
		limit = s.quotas.AdminQuota
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		StorageUsed:  0,
		StorageLimit: limit,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, customError.WrapConflict("email is already registered")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return user, nil
}

// Me returns the account behind an identity.
func (s *AuthService) Me(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, wrapLookupError(err, "account", identity.ID.String())
	}
	return user, nil
}

// ListUsers returns every account. Only admins may list accounts.
func (s *AuthService) ListUsers(ctx context.Context, identity domain.Identity) ([]*domain.User, error) {
	if !identity.IsAdmin() {
		return nil, customError.WrapForbidden("only admins can list accounts")
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return users, nil
}

// UpdateQuota sets a new storage limit on an account.
func (s *AuthService) UpdateQuota(ctx context.Context, identity domain.Identity, accountID uuid.UUID, limit int64) (*domain.User, error) {
	if !identity.IsAdmin() {
		return nil, customError.WrapForbidden("only admins can change storage quotas")
	}

	if limit <= 0 {
		return nil, customError.WrapValidation("storage limit must be positive")
	}

	if err := s.userRepo.UpdateStorageLimit(ctx, accountID, limit); err != nil {
		return nil, wrapLookupError(err, "account", accountID.String())
	}

	user, err := s.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, wrapLookupError(err, "account", accountID.String())
	}
	return user, nil
}
