// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond turns action results and faults into HTTP responses.
//
// # Architecture
//
// Every fault in the request pipeline ends up in [Responder.Error], which is the
// only place that renders an error page. Actions are written as [ActionFunc] so
// they can simply return an error; [Responder.Wrap] forwards that error here
// with its classification intact.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
)

// ErrorView is the template rendered for every fault.
const ErrorView = "error.html"

// Renderer renders a named view with data.
type Renderer interface {
	Render(writer http.ResponseWriter, request *http.Request, status int, name string, data map[string]any) error
}

// ActionFunc is an HTTP action that reports failure by returning an error.
type ActionFunc func(writer http.ResponseWriter, request *http.Request) error

// Responder renders errors through the shared error view.
type Responder struct {
	views Renderer
}

// NewResponder creates a [Responder] rendering through views.
func NewResponder(views Renderer) *Responder {
	return &Responder{views: views}
}

// Wrap adapts an [ActionFunc] into an [http.HandlerFunc].
//
// A returned error is handed to [Responder.Error] exactly as returned.
func (responder *Responder) Wrap(action ActionFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := action(writer, request); err != nil {
			responder.Error(writer, request, err)
		}
	}
}

// Normalize derives the status code and user-facing message for err.
//
// Classified faults keep their own status and message. Anything else is a 500
// with [apperr.GenericMessage].
func Normalize(err error) (int, string) {
	if appError := apperr.As(err); appError != nil {
		status := appError.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		message := appError.Message
		if message == "" {
			message = apperr.GenericMessage
		}
		return status, message
	}
	return http.StatusInternalServerError, apperr.GenericMessage
}

// Error renders the error view for err.
//
// # Logging
//
// Server faults are logged with their cause. Client faults are logged at debug
// level only. The cause never reaches the page.
func (responder *Responder) Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)
	status, message := Normalize(err)

	if status >= http.StatusInternalServerError {
		attrs := []any{
			slog.Int("status", status),
			slog.String("error", err.Error()),
		}
		if appError := apperr.As(err); appError != nil {
			attrs = append(attrs, slog.String("code", appError.Code), slog.Any("cause", appError.Cause))
		}
		logger.ErrorContext(ctx, "request_failed", attrs...)
	} else {
		logger.DebugContext(ctx, "request_rejected",
			slog.Int("status", status),
			slog.String("message", message),
		)
	}

	if responder.views == nil {
		http.Error(writer, message, status)
		return
	}

	data := map[string]any{"status": status, "message": message}
	if renderErr := responder.views.Render(writer, request, status, ErrorView, data); renderErr != nil {
		logger.ErrorContext(ctx, "error_view_render_failed", slog.String("error", renderErr.Error()))
		http.Error(writer, message, status)
	}
}

// # Navigation

// Redirect sends the browser to url.
//
// GET and HEAD use 302. Every other method uses 303 so the follow-up request
// is always a GET, even after a tunnelled PUT or DELETE.
func Redirect(writer http.ResponseWriter, request *http.Request, url string) {
	status := http.StatusSeeOther
	if request.Method == http.MethodGet || request.Method == http.MethodHead {
		status = http.StatusFound
	}
	http.Redirect(writer, request, url, status)
}

// # JSON

// JSON writes a JSON response with the given status code. Only probes use it.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}
