// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/sec"
	"github.com/taibuivan/wanderlust/internal/platform/session"
	"github.com/taibuivan/wanderlust/internal/view"
)

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	renderer, err := view.New(false)
	require.NoError(t, err)
	return renderer
}

func newHandle(t *testing.T) *session.Handle {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return session.NewHandle(session.NewRedisStore(client, time.Hour), &session.Record{Token: "tok"})
}

/*
TestRender_ErrorPage writes the status and message.
*/
func TestRender_ErrorPage(t *testing.T) {
	renderer := newRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	err := renderer.Render(rec, req, http.StatusNotFound, "error.html", map[string]any{
		"status":  http.StatusNotFound,
		"message": "Page Not Found",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Page Not Found")
	assert.Contains(t, rec.Body.String(), "Log in")
}

/*
TestRender_FlashesShownOnce drains the flash queue on the first render only.
*/
func TestRender_FlashesShownOnce(t *testing.T) {
	renderer := newRenderer(t)
	handle := newHandle(t)
	ctx := context.Background()

	require.NoError(t, handle.Flash(ctx, session.Success, "Welcome back!"))
	require.NoError(t, handle.Flash(ctx, session.Error, "You must be logged in"))

	req := httptest.NewRequest(http.MethodGet, "/users/login", nil)
	req = req.WithContext(session.WithHandle(req.Context(), handle))

	first := httptest.NewRecorder()
	require.NoError(t, renderer.Render(first, req, http.StatusOK, "users/login.html", nil))
	assert.Contains(t, first.Body.String(), "Welcome back!")
	assert.Contains(t, first.Body.String(), "You must be logged in")

	second := httptest.NewRecorder()
	require.NoError(t, renderer.Render(second, req, http.StatusOK, "users/login.html", nil))
	assert.NotContains(t, second.Body.String(), "Welcome back!")
	assert.NotContains(t, second.Body.String(), "You must be logged in")
}

/*
TestRender_CurrentUser shows the logout link for a logged-in user.
*/
func TestRender_CurrentUser(t *testing.T) {
	renderer := newRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	req = req.WithContext(ctxutil.WithCurrentUser(req.Context(), &sec.Identity{UserID: "u1", Username: "wanderer"}))

	rec := httptest.NewRecorder()
	require.NoError(t, renderer.Render(rec, req, http.StatusOK, "error.html", map[string]any{"status": 500, "message": "x"}))

	assert.Contains(t, rec.Body.String(), "wanderer")
	assert.Contains(t, rec.Body.String(), "/users/logout")
}

/*
TestRender_EscapesUserContent keeps user text inert.
*/
func TestRender_EscapesUserContent(t *testing.T) {
	renderer := newRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, renderer.Render(rec, req, http.StatusBadRequest, "error.html", map[string]any{
		"status":  400,
		"message": "<script>alert(1)</script>",
	}))

	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

/*
TestRender_UnknownTemplate returns an error and writes nothing.
*/
func TestRender_UnknownTemplate(t *testing.T) {
	renderer := newRenderer(t)

	rec := httptest.NewRecorder()
	err := renderer.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing.html", nil)

	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())
}
