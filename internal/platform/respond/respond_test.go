// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
)

type captureRenderer struct {
	status int
	name   string
	data   map[string]any
	fail   error
}

func (c *captureRenderer) Render(w http.ResponseWriter, _ *http.Request, status int, name string, data map[string]any) error {
	if c.fail != nil {
		return c.fail
	}
	c.status, c.name, c.data = status, name, data
	w.WriteHeader(status)
	return nil
}

/*
TestNormalize maps classified and unclassified faults.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.ValidationError("title: cannot be blank"), http.StatusBadRequest, "title: cannot be blank"},
		{"not_found", apperr.NotFound("Listing"), http.StatusNotFound, "Listing not found"},
		{"wrapped", fmt.Errorf("listing_get_failed: %w", apperr.PageNotFound()), http.StatusNotFound, "Page Not Found"},
		{"plain", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Something went wrong"},
		{"empty_app_error", &apperr.AppError{}, http.StatusInternalServerError, "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := respond.Normalize(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

/*
TestWrap_ForwardsErrorUnchanged verifies that an action failure reaches the error view as is.
*/
func TestWrap_ForwardsErrorUnchanged(t *testing.T) {
	views := &captureRenderer{}
	responder := respond.NewResponder(views)

	handler := responder.Wrap(func(http.ResponseWriter, *http.Request) error {
		return apperr.ValidationError("price: must be a whole number")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/listings", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, respond.ErrorView, views.name)
	assert.Equal(t, "price: must be a whole number", views.data["message"])
	assert.Equal(t, http.StatusBadRequest, views.data["status"])
}

/*
TestWrap_SuccessRendersNothing ensures a nil error leaves the response to the action.
*/
func TestWrap_SuccessRendersNothing(t *testing.T) {
	views := &captureRenderer{}
	responder := respond.NewResponder(views)

	handler := responder.Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusAccepted)
		return nil
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, views.name)
}

/*
TestError_HidesInternalCause checks that driver text never reaches the page.
*/
func TestError_HidesInternalCause(t *testing.T) {
	views := &captureRenderer{}
	responder := respond.NewResponder(views)

	rec := httptest.NewRecorder()
	responder.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperr.Internal(errors.New("pq: secret detail")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong", views.data["message"])
}

/*
TestError_FallsBackWhenViewFails writes plain text if the error view cannot render.
*/
func TestError_FallsBackWhenViewFails(t *testing.T) {
	responder := respond.NewResponder(&captureRenderer{fail: errors.New("template missing")})

	rec := httptest.NewRecorder()
	responder.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperr.PageNotFound())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
}

/*
TestRedirect picks 302 or 303 depending on the method.
*/
func TestRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Redirect(rec, httptest.NewRequest(http.MethodGet, "/", nil), "/listings")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	respond.Redirect(rec, httptest.NewRequest(http.MethodDelete, "/listings/1", nil), "/listings")
	require.Equal(t, http.StatusSeeOther, rec.Code)
}
