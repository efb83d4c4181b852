// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account is the identity provider for Wanderlust.

It registers members, checks their credentials, binds them to the session and
resolves the current user on every request.

# Architecture

  - Entities: User.
  - Service: Register, Authenticate and FindByID use cases.
  - Delivery: signup, login and logout pages, plus the middleware that turns
    the session's user id into a [sec.Identity].
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/wanderlust/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the request-scoped view of the user.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{UserID: user.ID, Username: user.Username}
}

// # Repository Contracts

// UserRepository defines the persistence contract for accounts.
type UserRepository interface {
	/*
		Create inserts a new account.

		Returns:
		  - error: apperr.Conflict if the username or email is taken
	*/
	Create(ctx context.Context, user *User) error

	/*
		FindByID retrieves an account by id.

		Returns:
		  - error: apperr.NotFound if absent
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByUsername retrieves an account by its exact username.

		Returns:
		  - error: apperr.NotFound if absent
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// # Messages

const (
	MessageBadCredentials = "Password or username is incorrect"
	MessageWelcomeBack    = "Welcome back!"
	MessageSignedUp       = "Successfully signed up!"
	MessageGoodbye        = "Goodbye!"
)
