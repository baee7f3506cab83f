// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and minting session tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// UserService provides authentication-related operations:
// - Register: create identities and mint a first token
// - Login: verify credentials and mint tokens
// - GetUser: resolve an authenticated subject to its identity record
type UserService struct {
	db                    dbx.DBTX
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register hashes the password, creates the identity, and mints a session
// token for it. Duplicate usernames or emails yield
// users.ErrDuplicateUsername / users.ErrDuplicateEmail: the pre-checks below
// give precise field-level errors, while the store's unique constraints
// remain the authority when two registrations race.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, "", users.ErrDuplicateUsername
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", fmt.Errorf("error checking username: %w", err)
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, "", users.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) || errors.Is(err, users.ErrDuplicateEmail) ||
			errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return user, token, nil
}

// Login verifies the credentials and mints a session token. An unknown
// username and a wrong password both yield common.ErrorUnauthorized, so a
// caller cannot distinguish which check failed.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", fmt.Errorf("error getting user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return user, token, nil
}

// GetUser resolves a user id to its identity record. The record may have
// been deleted after the token was issued; that case surfaces as
// common.ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an identity. Tokens already minted for it keep
// verifying; callers resolving them just find no record.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// CountUsers returns the number of registered identities.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}
