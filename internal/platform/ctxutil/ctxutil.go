// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/wanderlust/internal/platform/ctxkey"
	"github.com/taibuivan/wanderlust/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// WithClientIP records the client address resolved by the proxy-aware middleware.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP returns the resolved client address, or "" if none was recorded.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Identity

// WithCurrentUser binds the session's identity to the request. The request
// logger is rebound with the user id so every later log line names the actor.
// A nil user leaves ctx anonymous.
func WithCurrentUser(ctx context.Context, user *sec.Identity) context.Context {
	if user == nil {
		return ctx
	}
	ctx = WithLogger(ctx, GetLogger(ctx).With(slog.String("user_id", user.UserID)))
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetCurrentUser returns the logged-in [*sec.Identity], or nil for anonymous requests.
func GetCurrentUser(ctx context.Context) *sec.Identity {
	user, _ := ctx.Value(ctxkey.KeyUser).(*sec.Identity)
	return user
}

// OwnsResource reports whether the logged-in user is ownerID.
//
// An anonymous request owns nothing, and neither does anyone own a resource
// whose owner reference is empty (its account was deleted).
func OwnsResource(ctx context.Context, ownerID string) bool {
	return GetCurrentUser(ctx).Is(ownerID)
}
