// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate runs declarative form schemas and turns their violations into
// a single [apperr.AppError].
//
// # Architecture
//
// Schemas are plain structs implementing [validation.Validatable] with
// ozzo-validation rules. They live next to the resource they describe
// (listing, review, account). This package only owns the glue: running a
// schema, flattening its violations, and carrying the typed result to the
// action through the request context.
package validate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
)

// ErrorResponder renders a validation or binding fault.
type ErrorResponder interface {
	Error(writer http.ResponseWriter, request *http.Request, err error)
}

// Struct validates schema and reports every violation at once.
//
// The returned error is nil or a VALIDATION_ERROR whose message reads
// "field: message, field: message" in field order and whose details list each
// violation. A rule that fails for a reason other than a violation is reported
// as an internal fault.
func Struct(schema validation.Validatable) error {
	err := schema.Validate()
	if err == nil {
		return nil
	}

	var violations validation.Errors
	if !errors.As(err, &violations) {
		return apperr.Internal(fmt.Errorf("schema_validation_failed: %w", err))
	}

	details := flatten("", violations)
	if len(details) == 0 {
		return nil
	}

	parts := make([]string, 0, len(details))
	for _, detail := range details {
		parts = append(parts, detail.Field+": "+detail.Message)
	}

	return apperr.ValidationError(strings.Join(parts, ", "), details...)
}

// flatten walks nested [validation.Errors] into a sorted list of dotted fields.
func flatten(prefix string, violations validation.Errors) []apperr.FieldError {
	keys := make([]string, 0, len(violations))
	for key := range violations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var details []apperr.FieldError
	for _, key := range keys {
		fieldErr := violations[key]
		if fieldErr == nil {
			continue
		}

		field := key
		if prefix != "" {
			field = prefix + "." + key
		}

		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			details = append(details, flatten(field, nested)...)
			continue
		}

		details = append(details, apperr.FieldError{Field: field, Message: fieldErr.Error()})
	}

	return details
}

// # Rules

// IntBetween checks that a non-empty string is an integer within [min, max].
//
// Numeric form fields stay strings in payloads so an empty value is reported
// by Required rather than silently becoming zero.
func IntBetween(min, max int) validation.Rule {
	return validation.By(func(value interface{}) error {
		raw, _ := value.(string)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}

		number, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("must be a whole number")
		}
		if number < min || number > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	})
}

// # Request Binding

// Payload is a raw form schema that can be converted into its typed input once
// it has passed validation.
type Payload[T any] interface {
	validation.Validatable
	Input() (T, error)
}

// Binder reads a [Payload] from a request.
type Binder[T any] func(writer http.ResponseWriter, request *http.Request) (Payload[T], error)

type inputKey[T any] struct{}

// Middleware binds and validates the request body before the action runs.
//
// On success the typed input is placed in the request context and can be read
// with [InputFrom]. On failure nothing downstream runs and the fault goes to
// responder unchanged.
func Middleware[T any](responder ErrorResponder, bind Binder[T]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			payload, err := bind(writer, request)
			if err != nil {
				responder.Error(writer, request, err)
				return
			}

			if err := Struct(payload); err != nil {
				responder.Error(writer, request, err)
				return
			}

			input, err := payload.Input()
			if err != nil {
				responder.Error(writer, request, err)
				return
			}

			ctx := WithInput(request.Context(), input)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// WithInput stores a validated input in ctx.
func WithInput[T any](ctx context.Context, input T) context.Context {
	return context.WithValue(ctx, inputKey[T]{}, input)
}

// InputFrom returns the validated input stored by [Middleware].
func InputFrom[T any](ctx context.Context) (T, bool) {
	input, ok := ctx.Value(inputKey[T]{}).(T)
	return input, ok
}
