// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/session"
)

// UserFinder resolves a session's user id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// ErrorResponder renders a fault.
type ErrorResponder interface {
	Error(writer http.ResponseWriter, request *http.Request, err error)
}

// LoadCurrentUser attaches the logged-in user to the request context.
//
// It runs after the session middleware. A session whose account no longer
// exists is treated as anonymous.
func LoadCurrentUser(finder UserFinder, responder ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			handle := session.FromContext(ctx)
			if handle == nil || !handle.IsAuthenticated() {
				next.ServeHTTP(writer, request)
				return
			}

			user, err := finder.FindByID(ctx, handle.UserID())
			if err != nil {
				if !apperr.IsNotFound(err) {
					responder.Error(writer, request, err)
					return
				}
				ctxutil.GetLogger(ctx).WarnContext(ctx, "session_user_missing", slog.String("user_id", handle.UserID()))
				next.ServeHTTP(writer, request)
				return
			}

			ctx = ctxutil.WithCurrentUser(ctx, user.Identity())

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
