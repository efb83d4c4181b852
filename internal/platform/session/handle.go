// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"

	"github.com/taibuivan/wanderlust/internal/platform/ctxkey"
)

// Handle is the per-request view of a session.
//
// It holds no state of its own beyond the current record; every flash and
// redirect operation goes straight to the [Store]. A Handle is owned by one
// request and is not safe for concurrent use.
type Handle struct {
	store  Store
	record *Record
}

// NewHandle binds a store to a loaded record.
func NewHandle(store Store, record *Record) *Handle {
	return &Handle{store: store, record: record}
}

// Token returns the current session token.
func (handle *Handle) Token() string { return handle.record.Token }

// UserID returns the bound identity, or "" for anonymous sessions.
func (handle *Handle) UserID() string { return handle.record.UserID }

// IsAuthenticated reports whether an identity is bound.
func (handle *Handle) IsAuthenticated() bool { return handle.record.IsAuthenticated() }

// Flash queues a one-shot message for the next rendered response.
func (handle *Handle) Flash(ctx context.Context, category Category, message string) error {
	if err := handle.store.PushFlash(ctx, handle.record.Token, Flash{Category: category, Message: message}); err != nil {
		return fmt.Errorf("session_flash_failed: %w", err)
	}
	return nil
}

// Flashes drains the queue. Only the renderer should call this.
func (handle *Handle) Flashes(ctx context.Context) ([]Flash, error) {
	return handle.store.DrainFlashes(ctx, handle.record.Token)
}

// Requeue puts drained flashes back in their original order, for a render
// that failed after draining them.
func (handle *Handle) Requeue(ctx context.Context, flashes []Flash) error {
	for _, flash := range flashes {
		if err := handle.store.PushFlash(ctx, handle.record.Token, flash); err != nil {
			return fmt.Errorf("session_flash_requeue_failed: %w", err)
		}
	}
	return nil
}

// SetRedirect remembers where to send the user after login.
func (handle *Handle) SetRedirect(ctx context.Context, url string) error {
	return handle.store.SetRedirect(ctx, handle.record.Token, url)
}

// TakeRedirect returns and forgets the pending destination.
func (handle *Handle) TakeRedirect(ctx context.Context) (string, error) {
	return handle.store.TakeRedirect(ctx, handle.record.Token)
}

// # Context Helpers

// WithHandle returns a new context carrying handle.
func WithHandle(ctx context.Context, handle *Handle) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, handle)
}

// FromContext returns the request's session handle, or nil if the session
// middleware did not run.
func FromContext(ctx context.Context) *Handle {
	handle, ok := ctx.Value(ctxkey.KeySession).(*Handle)
	if !ok {
		return nil
	}
	return handle
}
