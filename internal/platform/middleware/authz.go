// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/constants"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/platform/session"
)

// Messages shown by the guards.
const (
	MessageLoginRequired    = "You must be logged in"
	MessagePermissionDenied = "You do not have permission to do that"
)

// errNoSession means the session middleware is missing from the chain.
var errNoSession = errors.New("session handle missing from request context")

// # Authentication

// RequireAuth only lets requests with a current user through.
//
// # Flow
//
// An anonymous request has its URI (path and query) remembered as the pending
// redirect, gets an error flash, and is sent to the login page. Login replays
// the remembered URI afterwards.
func RequireAuth(responder ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			if ctxutil.GetCurrentUser(ctx) != nil {
				next.ServeHTTP(writer, request)
				return
			}

			handle := session.FromContext(ctx)
			if handle == nil {
				responder.Error(writer, request, apperr.Internal(errNoSession))
				return
			}

			if err := handle.SetRedirect(ctx, request.URL.RequestURI()); err != nil {
				responder.Error(writer, request, apperr.Internal(err))
				return
			}
			if err := handle.Flash(ctx, session.Error, MessageLoginRequired); err != nil {
				responder.Error(writer, request, apperr.Internal(err))
				return
			}

			ctxutil.GetLogger(ctx).InfoContext(ctx, "auth_required",
				slog.String("redirect", request.URL.RequestURI()),
			)

			respond.Redirect(writer, request, constants.LoginPath)
		})
	}
}

// # Ownership

// OwnerLookup returns the owner id of the resource addressed by request.
// It returns an error satisfying [apperr.IsNotFound] when the resource is gone.
type OwnerLookup func(ctx context.Context, request *http.Request) (string, error)

// Ownership describes one owned resource for [RequireOwner].
type Ownership struct {
	// Resource names the resource in messages ("Listing", "Review").
	Resource string
	// Lookup fetches the owner reference fresh from storage.
	Lookup OwnerLookup
	// NotFoundRedirect is where to go when the resource does not exist.
	NotFoundRedirect func(request *http.Request) string
	// DeniedRedirect is where to go when the current user is not the owner.
	DeniedRedirect func(request *http.Request) string
}

// RequireOwner only lets the owner of a resource through.
//
// It must be mounted after [RequireAuth]. The owner is read on every request
// and never cached. A resource without an owner reference is treated as owned
// by nobody.
func RequireOwner(responder ErrorResponder, ownership Ownership) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)

			user := ctxutil.GetCurrentUser(ctx)
			if user == nil {
				responder.Error(writer, request, apperr.Internal(fmt.Errorf("require_owner_without_auth: %s", request.URL.Path)))
				return
			}

			handle := session.FromContext(ctx)
			if handle == nil {
				responder.Error(writer, request, apperr.Internal(errNoSession))
				return
			}

			ownerID, err := ownership.Lookup(ctx, request)
			if err != nil {
				if !apperr.IsNotFound(err) {
					responder.Error(writer, request, err)
					return
				}
				if err := handle.Flash(ctx, session.Error, ownership.Resource+" not found"); err != nil {
					responder.Error(writer, request, apperr.Internal(err))
					return
				}
				respond.Redirect(writer, request, ownership.NotFoundRedirect(request))
				return
			}

			if ownerID == "" {
				logger.WarnContext(ctx, "ownership_reference_missing",
					slog.String("resource", ownership.Resource),
				)
			}

			if !ctxutil.OwnsResource(ctx, ownerID) {
				logger.InfoContext(ctx, "ownership_denied",
					slog.String("resource", ownership.Resource),
					slog.String("user_id", user.UserID),
				)
				if err := handle.Flash(ctx, session.Error, MessagePermissionDenied); err != nil {
					responder.Error(writer, request, apperr.Internal(err))
					return
				}
				respond.Redirect(writer, request, ownership.DeniedRedirect(request))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
