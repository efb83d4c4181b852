// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/constants"
	"github.com/taibuivan/wanderlust/internal/platform/middleware"
	requestutil "github.com/taibuivan/wanderlust/internal/platform/request"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/platform/session"
	"github.com/taibuivan/wanderlust/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the review endpoints nested under a listing.
type Handler struct {
	service   *Service
	responder *respond.Responder
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, responder *respond.Responder) *Handler {
	return &Handler{service: service, responder: responder}
}

// Routes returns a [chi.Router] mounted at /listings/{id}/reviews.
//
// # Endpoints
//   - POST   /            : Posts a review (login required).
//   - DELETE /{reviewID}  : Deletes a review (author only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	requireAuth := middleware.RequireAuth(handler.responder)

	router.With(
		requireAuth,
		validate.Middleware(handler.responder, Binder()),
	).Post("/", handler.responder.Wrap(handler.create))

	router.With(
		requireAuth,
		middleware.RequireOwner(handler.responder, handler.Ownership()),
	).Delete("/{reviewID}", handler.responder.Wrap(handler.delete))

	return router
}

// Ownership describes reviews to [middleware.RequireOwner]. Both failure
// paths go back to the listing the review was addressed through.
func (handler *Handler) Ownership() middleware.Ownership {
	return middleware.Ownership{
		Resource: "Review",
		Lookup: func(ctx context.Context, request *http.Request) (string, error) {
			return handler.service.AuthorOf(ctx, requestutil.Param(request, "id"), requestutil.Param(request, "reviewID"))
		},
		NotFoundRedirect: listingPath,
		DeniedRedirect:   listingPath,
	}
}

/*
Create posts a review on a listing.

POST /listings/{id}/reviews
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()

	user, err := requestutil.RequiredUser(request)
	if err != nil {
		return err
	}

	input, ok := validate.InputFrom[Input](ctx)
	if !ok {
		return apperr.Internal(errMissingInput)
	}

	listingID := requestutil.Param(request, "id")
	if _, err := handler.service.Create(ctx, listingID, user.UserID, input); err != nil {
		if apperr.IsNotFound(err) {
			return flashAndRedirect(writer, request, session.Error, err.Error(), constants.ListingsPath)
		}
		return err
	}

	return flashAndRedirect(writer, request, session.Success, MessageCreated, listingPath(request))
}

/*
Delete removes a review.

DELETE /listings/{id}/reviews/{reviewID}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) error {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "reviewID")); err != nil {
		return err
	}

	return flashAndRedirect(writer, request, session.Success, MessageDeleted, listingPath(request))
}

// # Helpers

// errMissingInput means the validation middleware is missing from the chain.
var errMissingInput = errors.New("validated review input missing from request context")

func listingPath(request *http.Request) string {
	return constants.ListingsPath + "/" + requestutil.Param(request, "id")
}

func flashAndRedirect(writer http.ResponseWriter, request *http.Request, category session.Category, message, target string) error {
	if handle := session.FromContext(request.Context()); handle != nil {
		if err := handle.Flash(request.Context(), category, message); err != nil {
			return err
		}
	}
	respond.Redirect(writer, request, target)
	return nil
}
