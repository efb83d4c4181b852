// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/constants"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/platform/session"
	"github.com/taibuivan/wanderlust/internal/platform/validate"
)

// SessionBinder binds and unbinds identities on a session.
type SessionBinder interface {
	Establish(ctx context.Context, writer http.ResponseWriter, handle *session.Handle, userID string) error
	End(ctx context.Context, writer http.ResponseWriter, handle *session.Handle) error
}

// errNoSession means the session middleware is missing from the chain.
var errNoSession = errors.New("session handle missing from request context")

// # Definitions & Constructors

// Handler implements the signup, login and logout pages.
type Handler struct {
	service   *Service
	sessions  SessionBinder
	views     respond.Renderer
	responder *respond.Responder
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, sessions SessionBinder, views respond.Renderer, responder *respond.Responder) *Handler {
	return &Handler{service: service, sessions: sessions, views: views, responder: responder}
}

// Routes returns a [chi.Router] mounted at /users.
//
// # Endpoints
//   - GET  /signup : Signup form.
//   - POST /signup : Creates an account and logs it in.
//   - GET  /login  : Login form.
//   - POST /login  : Authenticates and replays the pending redirect.
//   - GET  /logout : Ends the session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/signup", handler.responder.Wrap(handler.signupForm))
	router.Post("/signup", handler.responder.Wrap(handler.signup))
	router.Get("/login", handler.responder.Wrap(handler.loginForm))
	router.Post("/login", handler.responder.Wrap(handler.login))
	router.Get("/logout", handler.responder.Wrap(handler.logout))

	return router
}

func (handler *Handler) signupForm(writer http.ResponseWriter, request *http.Request) error {
	return handler.views.Render(writer, request, http.StatusOK, "users/signup.html", nil)
}

func (handler *Handler) loginForm(writer http.ResponseWriter, request *http.Request) error {
	return handler.views.Render(writer, request, http.StatusOK, "users/login.html", nil)
}

/*
Signup registers a new member and logs them in.

POST /users/signup

Response:
  - 303 to the pending redirect or /listings on success
  - 303 to /users/signup with an error flash on a schema or conflict fault
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()

	handle := session.FromContext(ctx)
	if handle == nil {
		return apperr.Internal(errNoSession)
	}

	payload, err := bindSignup(writer, request)
	if err != nil {
		return err
	}

	if err := validate.Struct(payload); err != nil {
		return handler.rejectForm(writer, request, handle, err, constants.SignupPath)
	}

	input, err := payload.Input()
	if err != nil {
		return err
	}

	user, err := handler.service.Register(ctx, input)
	if err != nil {
		return handler.rejectForm(writer, request, handle, err, constants.SignupPath)
	}

	return handler.completeLogin(writer, request, handle, user, MessageSignedUp)
}

/*
Login authenticates a member.

POST /users/login

Response:
  - 303 to the pending redirect or /listings on success
  - 303 to /users/login with [MessageBadCredentials] on failure
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()

	handle := session.FromContext(ctx)
	if handle == nil {
		return apperr.Internal(errNoSession)
	}

	payload, err := bindLogin(writer, request)
	if err != nil {
		return err
	}

	if err := validate.Struct(payload); err != nil {
		return handler.rejectForm(writer, request, handle, apperr.Unauthorized(MessageBadCredentials), constants.LoginPath)
	}

	user, err := handler.service.Authenticate(ctx, payload.Username, payload.Password)
	if err != nil {
		ctxutil.GetLogger(ctx).InfoContext(ctx, "login_failed", slog.String("username", payload.Username))
		return handler.rejectForm(writer, request, handle, err, constants.LoginPath)
	}

	return handler.completeLogin(writer, request, handle, user, MessageWelcomeBack)
}

/*
Logout ends the session.

GET /users/logout
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()

	handle := session.FromContext(ctx)
	if handle == nil {
		return apperr.Internal(errNoSession)
	}

	if err := handler.sessions.End(ctx, writer, handle); err != nil {
		return err
	}
	if err := handle.Flash(ctx, session.Success, MessageGoodbye); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "logout_succeeded")
	respond.Redirect(writer, request, constants.ListingsPath)
	return nil
}

// # Helpers

// completeLogin binds user to the session and replays the pending redirect.
//
// The redirect is taken before the session is rotated so it is consumed by
// exactly this login.
func (handler *Handler) completeLogin(writer http.ResponseWriter, request *http.Request, handle *session.Handle, user *User, message string) error {
	ctx := request.Context()

	target, err := handle.TakeRedirect(ctx)
	if err != nil {
		return err
	}

	if err := handler.sessions.Establish(ctx, writer, handle, user.ID); err != nil {
		return err
	}
	if err := handle.Flash(ctx, session.Success, message); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "login_succeeded",
		slog.String("user_id", user.ID),
		slog.Bool("replayed", target != ""),
	)

	respond.Redirect(writer, request, SafeRedirect(target))
	return nil
}

// rejectForm flashes a client fault and sends the user back to the form.
// Server faults are returned for the error page.
func (handler *Handler) rejectForm(writer http.ResponseWriter, request *http.Request, handle *session.Handle, cause error, formPath string) error {
	appError := apperr.As(cause)
	if appError == nil || appError.HTTPStatus >= http.StatusInternalServerError {
		return cause
	}

	if err := handle.Flash(request.Context(), session.Error, appError.Message); err != nil {
		return err
	}

	respond.Redirect(writer, request, formPath)
	return nil
}

// SafeRedirect returns target if it is a local path, otherwise the listings page.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return constants.ListingsPath
	}
	return target
}
