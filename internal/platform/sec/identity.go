// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides password hashing and the request-scoped identity value.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. The
// [Identity] value is what the session layer resolves on every request and
// what guards compare resource owners against.
package sec

// Identity is the authenticated user bound to the current session.
//
// It is rebuilt from the session and the account store on every request and
// never cached across requests.
type Identity struct {
	UserID   string
	Username string
}

// Is reports whether the identity is the given user id.
func (identity *Identity) Is(userID string) bool {
	return identity != nil && userID != "" && identity.UserID == userID
}
