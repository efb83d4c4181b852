// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/constants"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/middleware"
	requestutil "github.com/taibuivan/wanderlust/internal/platform/request"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/platform/session"
	"github.com/taibuivan/wanderlust/internal/platform/validate"
	"github.com/taibuivan/wanderlust/pkg/pagination"
)

// errMissingInput means the validation middleware is missing from the chain.
var errMissingInput = errors.New("validated listing input missing from request context")

// # Definitions & Constructors

// Handler implements the /listings pages.
type Handler struct {
	service        *Service
	views          respond.Renderer
	responder      *respond.Responder
	maxUploadBytes int64
}

// NewHandler constructs a new [Handler]. maxUploadBytes bounds a listing form, image included.
func NewHandler(service *Service, views respond.Renderer, responder *respond.Responder, maxUploadBytes int64) *Handler {
	return &Handler{service: service, views: views, responder: responder, maxUploadBytes: maxUploadBytes}
}

// Routes returns a [chi.Router] mounted at /listings.
//
// Guards run in a fixed order: RequireAuth, then RequireOwner, then the schema
// check. A rejected request never reaches the form parser or the action.
//
// # Endpoints
//   - GET    /          : Index with search, category filter and pages.
//   - GET    /new       : Create form (login required).
//   - POST   /          : Creates a listing (login required).
//   - GET    /{id}      : Listing page with reviews.
//   - GET    /{id}/edit : Edit form (owner only).
//   - PUT    /{id}      : Updates a listing (owner only).
//   - DELETE /{id}      : Deletes a listing (owner only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	requireAuth := middleware.RequireAuth(handler.responder)
	requireOwner := middleware.RequireOwner(handler.responder, handler.Ownership())
	validateForm := validate.Middleware(handler.responder, Binder(handler.maxUploadBytes))

	router.Get("/", handler.responder.Wrap(handler.index))
	router.With(requireAuth).Get("/new", handler.responder.Wrap(handler.newForm))
	router.With(requireAuth, validateForm).Post("/", handler.responder.Wrap(handler.create))

	router.Get("/{id}", handler.responder.Wrap(handler.show))
	router.With(requireAuth, requireOwner).Get("/{id}/edit", handler.responder.Wrap(handler.editForm))
	router.With(requireAuth, requireOwner, validateForm).Put("/{id}", handler.responder.Wrap(handler.update))
	router.With(requireAuth, requireOwner).Delete("/{id}", handler.responder.Wrap(handler.delete))

	return router
}

// Ownership describes listings to [middleware.RequireOwner].
func (handler *Handler) Ownership() middleware.Ownership {
	return middleware.Ownership{
		Resource: "Listing",
		Lookup: func(ctx context.Context, request *http.Request) (string, error) {
			return handler.service.OwnerOf(ctx, requestutil.Param(request, "id"))
		},
		NotFoundRedirect: func(*http.Request) string { return constants.ListingsPath },
		DeniedRedirect:   listingPath,
	}
}

/*
Index lists listings.

GET /listings?search=&filter=&page=&limit=

A search or filter without results flashes [MessageNoResults] and goes back to
the unfiltered index.
*/
func (handler *Handler) index(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()
	query := request.URL.Query()

	filter := Filter{Search: query.Get("search"), Category: query.Get("filter")}
	page := pagination.FromRequest(request)

	listings, meta, err := handler.service.List(ctx, filter, page)
	if err != nil {
		return err
	}

	if len(listings) == 0 && !filter.IsEmpty() {
		return flashAndRedirect(writer, request, session.Error, MessageNoResults, constants.ListingsPath)
	}

	return handler.views.Render(writer, request, http.StatusOK, "listings/index.html", map[string]any{
		"listings":   listings,
		"categories": Categories,
		"filter":     filter.Category,
		"search":     filter.Search,
		"pager":      pager(meta, filter),
	})
}

func (handler *Handler) newForm(writer http.ResponseWriter, request *http.Request) error {
	return handler.views.Render(writer, request, http.StatusOK, "listings/new.html", map[string]any{
		"categories": Categories,
	})
}

/*
Create adds a listing owned by the current user.

POST /listings (multipart, listing[image] required)
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

	image, err := formImage(request)
	if err != nil {
		return err
	}
	if image == nil {
		return flashAndRedirect(writer, request, session.Error, MessageImageMissing, constants.ListingsPath+"/new")
	}
	defer image.File.Close()

	if _, err := handler.service.Create(ctx, user.UserID, input, image); err != nil {
		return err
	}

	return flashAndRedirect(writer, request, session.Success, MessageCreated, constants.ListingsPath)
}

/*
Show renders one listing with its reviews.

GET /listings/{id}
*/
func (handler *Handler) show(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()

	listing, reviews, err := handler.service.Get(ctx, requestutil.Param(request, "id"))
	if err != nil {
		if apperr.IsNotFound(err) {
			return flashAndRedirect(writer, request, session.Error, MessageNotFound, constants.ListingsPath)
		}
		return err
	}

	deletable := make([]string, 0, len(reviews))
	for _, item := range reviews {
		if ctxutil.OwnsResource(ctx, item.AuthorID) {
			deletable = append(deletable, item.ID)
		}
	}

	return handler.views.Render(writer, request, http.StatusOK, "listings/show.html", map[string]any{
		"listing":   listing,
		"reviews":   reviews,
		"is_owner":  ctxutil.OwnsResource(ctx, listing.OwnerID),
		"deletable": deletable,
	})
}

/*
EditForm renders the edit form.

GET /listings/{id}/edit
*/
func (handler *Handler) editForm(writer http.ResponseWriter, request *http.Request) error {
	listing, err := handler.service.Find(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		return err
	}

	return handler.views.Render(writer, request, http.StatusOK, "listings/edit.html", map[string]any{
		"listing":    listing,
		"categories": Categories,
	})
}

/*
Update saves the edit form.

PUT /listings/{id} (multipart, listing[image] optional)
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) error {
	ctx := request.Context()

	input, ok := validate.InputFrom[Input](ctx)
	if !ok {
		return apperr.Internal(errMissingInput)
	}

	image, err := formImage(request)
	if err != nil {
		return err
	}
	if image != nil {
		defer image.File.Close()
	}

	id := requestutil.Param(request, "id")
	if _, err := handler.service.Update(ctx, id, input, image); err != nil {
		return err
	}

	return flashAndRedirect(writer, request, session.Success, MessageUpdated, listingPath(request))
}

/*
Delete removes a listing and its reviews.

DELETE /listings/{id}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) error {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		return err
	}

	return flashAndRedirect(writer, request, session.Success, MessageDeleted, constants.ListingsPath)
}

// # Helpers

// formImage returns the uploaded listing[image], or nil if none was sent.
func formImage(request *http.Request) (*Upload, error) {
	file, header, err := requestutil.File(request, formGroup, "image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, requestutil.ErrInvalidForm
	}
	if header.Size == 0 {
		file.Close()
		return nil, nil
	}
	return &Upload{File: file, Header: header}, nil
}

func listingPath(request *http.Request) string {
	return constants.ListingsPath + "/" + requestutil.Param(request, "id")
}

// pager builds the template data for the page links, keeping the filter.
func pager(meta pagination.Meta, filter Filter) map[string]any {
	values := url.Values{}
	if filter.Search != "" {
		values.Set("search", filter.Search)
	}
	if filter.Category != "" {
		values.Set("filter", filter.Category)
	}
	if meta.Limit != pagination.DefaultLimit {
		values.Set("limit", strconv.Itoa(meta.Limit))
	}

	query := ""
	if encoded := values.Encode(); encoded != "" {
		query = "&" + encoded
	}

	return map[string]any{
		"page":        meta.Page,
		"total_pages": meta.TotalPages,
		"has_prev":    meta.HasPrev(),
		"prev":        meta.Prev(),
		"has_next":    meta.HasNext(),
		"next":        meta.Next(),
		"query":       query,
	}
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
