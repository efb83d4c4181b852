// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/sec"
	"github.com/taibuivan/wanderlust/pkg/uuid"
)

// Service implements account use cases.
type Service struct {
	users UserRepository
}

// NewService constructs a new [Service].
func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// # Registration Flow

// RegisterInput holds validated signup data.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register hashes the password and persists a new account.

Returns:
  - *User: Created entity
  - error: apperr.Conflict if the username or email is taken
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

/*
Authenticate checks a username and password.

Unknown users and wrong passwords produce the same fault, and both paths run
one bcrypt comparison so response time does not reveal which usernames exist.

Returns:
  - *User: the matching account
  - error: apperr.Unauthorized with [MessageBadCredentials]
*/
func (service *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := service.users.FindByUsername(ctx, username)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, err
		}
		sec.CheckPasswordHash(password, sec.DummyHash)
		return nil, apperr.Unauthorized(MessageBadCredentials)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized(MessageBadCredentials)
	}

	return user, nil
}

// FindByID resolves the account bound to a session.
func (service *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return service.users.FindByID(ctx, id)
}
