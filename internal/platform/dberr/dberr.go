// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes we classify.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextRepr     = "22P02"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity in a NOT_FOUND message; action names the failing
// operation in the logged cause (e.g. "listing_find").
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint and input classification
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.Conflict(conflictMessage(pgErr))
		case invalidTextRepr:
			// A malformed id never matches a row.
			return apperr.NotFound(resource)
		case foreignKeyViolation:
			return apperr.NotFound(resource)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s_failed: %w", action, err))
}

// conflictMessage picks a user-facing message from the violated constraint.
func conflictMessage(pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "accounts_username_key":
		return "A user with the given username is already registered"
	case "accounts_email_key":
		return "A user with the given email is already registered"
	default:
		return "Resource already exists"
	}
}
