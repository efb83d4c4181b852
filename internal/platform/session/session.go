// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the server-side session and flash store.

A session is identified by an opaque random token carried in a signed cookie.
Everything else lives in the [Store]: the bound identity, the one-shot flash
messages, and the single pending post-login redirect.

Architecture:

  - Store: externally owned key-value storage with a TTL (Redis in production).
  - Handle: the only session state a request holds. It wraps the store and the
    current token and is injected into the request context by [Manager.Middleware].
  - Manager: issues cookies, creates anonymous sessions, and rotates the token
    when an identity is bound or unbound.

Flashes are drained atomically, so a message queued during one request is
delivered by exactly one later render.
*/
package session

import (
	"context"
	"errors"
	"time"
)

// # Flash Messages

// Category classifies a flash message.
type Category string

const (
	// Success flashes confirm a completed action.
	Success Category = "success"
	// Error flashes explain why an action was refused.
	Error Category = "error"
)

// Flash is a one-shot notification delivered by the next rendered response.
type Flash struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// # Session Record

// Record is the persisted part of a session.
type Record struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAuthenticated reports whether an identity is bound to the record.
func (record *Record) IsAuthenticated() bool {
	return record != nil && record.UserID != ""
}

// ErrNotFound is returned by [Store.Load] for unknown or expired tokens.
var ErrNotFound = errors.New("session: not found")

// # Storage Contract

// Store is the durable, process-external session storage.
//
// Implementations must be safe for concurrent use by requests on different
// sessions, and DrainFlashes / TakeRedirect must be atomic read-and-clear
// operations.
type Store interface {
	// Load returns the record for token or [ErrNotFound].
	Load(ctx context.Context, token string) (*Record, error)

	// Save writes the record and (re)starts its TTL.
	Save(ctx context.Context, record *Record) error

	// Delete removes the record together with its flashes and pending redirect.
	Delete(ctx context.Context, token string) error

	// PushFlash queues a flash message for the session.
	PushFlash(ctx context.Context, token string, flash Flash) error

	// DrainFlashes returns every queued flash and clears the queue.
	DrainFlashes(ctx context.Context, token string) ([]Flash, error)

	// SetRedirect records the pending post-login destination, replacing any previous one.
	SetRedirect(ctx context.Context, token, url string) error

	// TakeRedirect returns and clears the pending destination ("" when none).
	TakeRedirect(ctx context.Context, token string) (string, error)
}
