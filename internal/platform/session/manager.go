// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
)

// ErrorResponder renders a fault raised while loading the session.
type ErrorResponder interface {
	Error(writer http.ResponseWriter, request *http.Request, err error)
}

// Manager owns the cookie side of sessions.
type Manager struct {
	store     Store
	cookie    CookieOptions
	responder ErrorResponder
}

// NewManager constructs a [Manager].
func NewManager(store Store, cookie CookieOptions, responder ErrorResponder) *Manager {
	return &Manager{
		store:     store,
		cookie:    cookie.normalize(),
		responder: responder,
	}
}

// Middleware resolves the session for every request.
//
// # Flow
//  1. Read and verify the signed cookie.
//  2. Load the record from the store.
//  3. If the cookie is missing, forged, or the record expired, create a new
//     anonymous session and issue its cookie.
//  4. Inject the [Handle] into the request context.
func (manager *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		var record *Record
		if token, ok := manager.cookie.readToken(request); ok {
			loaded, err := manager.store.Load(ctx, token)
			switch {
			case err == nil:
				record = loaded
			case errors.Is(err, ErrNotFound):
				ctxutil.GetLogger(ctx).DebugContext(ctx, "session_expired")
			default:
				manager.responder.Error(writer, request, err)
				return
			}
		}

		if record == nil {
			created, err := manager.create(ctx, writer, "")
			if err != nil {
				manager.responder.Error(writer, request, err)
				return
			}
			record = created
		}

		ctx = WithHandle(ctx, NewHandle(manager.store, record))
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// Establish binds userID to the session behind handle.
//
// The token is rotated so a token planted before login is worthless after it.
// Pending flashes and the pending redirect move to the new token.
func (manager *Manager) Establish(ctx context.Context, writer http.ResponseWriter, handle *Handle, userID string) error {
	if userID == "" {
		return fmt.Errorf("session_establish_failed: empty user id")
	}
	return manager.rotate(ctx, writer, handle, userID)
}

// End unbinds the identity. Later requests on the new token are anonymous.
func (manager *Manager) End(ctx context.Context, writer http.ResponseWriter, handle *Handle) error {
	return manager.rotate(ctx, writer, handle, "")
}

// rotate replaces handle's record with a fresh one bound to userID.
func (manager *Manager) rotate(ctx context.Context, writer http.ResponseWriter, handle *Handle, userID string) error {
	previous := handle.record

	pendingRedirect, err := manager.store.TakeRedirect(ctx, previous.Token)
	if err != nil {
		return fmt.Errorf("session_rotate_failed: %w", err)
	}
	pendingFlashes, err := manager.store.DrainFlashes(ctx, previous.Token)
	if err != nil {
		return fmt.Errorf("session_rotate_failed: %w", err)
	}

	next, err := manager.create(ctx, writer, userID)
	if err != nil {
		return err
	}

	for _, flash := range pendingFlashes {
		if err := manager.store.PushFlash(ctx, next.Token, flash); err != nil {
			return fmt.Errorf("session_rotate_failed: %w", err)
		}
	}
	if pendingRedirect != "" {
		if err := manager.store.SetRedirect(ctx, next.Token, pendingRedirect); err != nil {
			return fmt.Errorf("session_rotate_failed: %w", err)
		}
	}

	if err := manager.store.Delete(ctx, previous.Token); err != nil {
		return fmt.Errorf("session_rotate_failed: %w", err)
	}

	handle.record = next

	ctxutil.GetLogger(ctx).InfoContext(ctx, "session_rotated",
		slog.Bool("authenticated", next.IsAuthenticated()),
	)

	return nil
}

// create stores a new record and issues its cookie.
func (manager *Manager) create(ctx context.Context, writer http.ResponseWriter, userID string) (*Record, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	record := &Record{Token: token, UserID: userID, CreatedAt: time.Now().UTC()}
	if err := manager.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("session_create_failed: %w", err)
	}

	manager.cookie.setCookie(writer, token)
	return record, nil
}
