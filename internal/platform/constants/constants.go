// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, routes and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: Cookie name, lifetime and Redis key prefix.
  - Routes: Landing pages used by guards and the login flow.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "wanderlust"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Listing forms carry an image, so this is looser than a JSON API would use.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// SessionCookieName carries the signed session token. Nothing else goes in the cookie.
	SessionCookieName = "wanderlust.sid"

	// DefaultSessionTTL bounds both the cookie and the server-side record.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// SessionTokenLength is the byte length of a random session token.
	SessionTokenLength = 32

	// RedisPrefixSession namespaces every session key in Redis.
	RedisPrefixSession = "session:"
)

// # Routes

const (
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath = "/users/login"

	// SignupPath renders the registration form.
	SignupPath = "/users/signup"

	// ListingsPath is the default landing route after login, logout and most failures.
	ListingsPath = "/listings"

	// UploadsPath serves stored listing images.
	UploadsPath = "/uploads"
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Form Conventions

const (
	// MethodOverrideParam tunnels PUT and DELETE through HTML forms (?_method=DELETE).
	MethodOverrideParam = "_method"

	// DefaultMaxUploadBytes caps a multipart listing form, image included.
	DefaultMaxUploadBytes = 10 << 20
)
