// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wanderlust/internal/api"
	"github.com/taibuivan/wanderlust/internal/listing"
	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/config"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/platform/session"
	"github.com/taibuivan/wanderlust/internal/review"
	"github.com/taibuivan/wanderlust/internal/upload"
	"github.com/taibuivan/wanderlust/internal/users/account"
	"github.com/taibuivan/wanderlust/internal/view"
	"github.com/taibuivan/wanderlust/pkg/pagination"
	"github.com/taibuivan/wanderlust/pkg/uuid"
)

// # Fakes

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]account.User
}

func (m *memoryUsers) Create(_ context.Context, user *account.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return apperr.Conflict("A user with the given username is already registered")
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, apperr.NotFound("Account")
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

type memoryListings struct {
	mu       sync.Mutex
	listings map[string]listing.Listing
}

func (m *memoryListings) List(_ context.Context, filter listing.Filter, page pagination.Params) ([]listing.Listing, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []listing.Listing
	for _, item := range m.listings {
		if filter.Category == "" || item.Category == filter.Category {
			out = append(out, item)
		}
	}
	return out, len(out), nil
}

func (m *memoryListings) FindByID(_ context.Context, id string) (*listing.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.listings[id]; ok {
		return &item, nil
	}
	return nil, apperr.NotFound("Listing")
}

func (m *memoryListings) OwnerOf(ctx context.Context, id string) (string, error) {
	item, err := m.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return item.OwnerID, nil
}

func (m *memoryListings) Create(_ context.Context, item *listing.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.CreatedAt = time.Now()
	m.listings[item.ID] = *item
	return nil
}

func (m *memoryListings) Update(_ context.Context, item *listing.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[item.ID] = *item
	return nil
}

func (m *memoryListings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listings, id)
	return nil
}

type memoryReviews struct {
	mu      sync.Mutex
	reviews map[string]review.Review
}

func (m *memoryReviews) ListByListing(_ context.Context, listingID string) ([]review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []review.Review
	for _, item := range m.reviews {
		if item.ListingID == listingID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memoryReviews) FindByID(_ context.Context, id string) (*review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.reviews[id]; ok {
		return &item, nil
	}
	return nil, apperr.NotFound("Review")
}

func (m *memoryReviews) Create(_ context.Context, item *review.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[item.ID] = *item
	return nil
}

func (m *memoryReviews) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reviews, id)
	return nil
}

// # Fixture

// browser is one visitor with their own cookie.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	b.cookies = mergeCookies(b.cookies, rec.Result().Cookies())
	return rec
}

// mergeCookies replaces stored cookies by name, the way a browser jar does.
// A later Set-Cookie for the same name wins.
func mergeCookies(jar, received []*http.Cookie) []*http.Cookie {
	for _, cookie := range received {
		replaced := false
		for i, stored := range jar {
			if stored.Name == cookie.Name {
				jar[i] = cookie
				replaced = true
			}
		}
		if !replaced {
			jar = append(jar, cookie)
		}
	}
	return jar
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) login(username, password string) *httptest.ResponseRecorder {
	return b.post("/users/login", url.Values{
		"user[username]": {username},
		"user[password]": {password},
	})
}

type fixture struct {
	server   *api.Server
	users    *account.Service
	listings *memoryListings
	t        *testing.T
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	views, err := view.New(false)
	require.NoError(t, err)
	responder := respond.NewResponder(views)

	manager := session.NewManager(
		session.NewRedisStore(client, time.Hour),
		session.CookieOptions{Secret: []byte("0123456789abcdef0123456789abcdef")},
		responder,
	)

	images, err := upload.NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	users := account.NewService(&memoryUsers{users: map[string]account.User{}})
	listings := &memoryListings{listings: map[string]listing.Listing{}}
	reviews := &memoryReviews{reviews: map[string]review.Review{}}

	listingService := listing.NewService(listings, reviews, images)
	reviewService := review.NewService(reviews, listingService)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckSessions: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}, slog.Default())

	server := api.NewServer(context.Background(), &config.Config{ServerPort: "0"}, slog.Default(), responder,
		api.Interceptors{
			Session:     manager.Middleware,
			CurrentUser: account.LoadCurrentUser(users, responder),
		},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Uploads:   http.FileServer(http.Dir(images.Dir())),
			Accounts:  account.NewHandler(users, manager, views, responder),
			Listings:  listing.NewHandler(listingService, views, responder, 1<<20),
			Reviews:   review.NewHandler(reviewService, responder),
		},
	)

	return &fixture{server: server, users: users, listings: listings, t: t}
}

func (f *fixture) browser() *browser {
	return &browser{t: f.t, handler: f.server.Handler()}
}

func (f *fixture) register(username string) *account.User {
	user, err := f.users.Register(context.Background(), account.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-" + username,
	})
	require.NoError(f.t, err)
	return user
}

func (f *fixture) seedListing(ownerID string) listing.Listing {
	item := listing.Listing{
		ID:          uuid.New(),
		Title:       "Lakeside cabin",
		Description: "Quiet cabin with a view of the lake",
		Image:       listing.Image{URL: "/uploads/cabin.png"},
		Price:       150,
		Location:    "Hallstatt",
		Country:     "Austria",
		Category:    "Mountains",
		OwnerID:     ownerID,
	}
	require.NoError(f.t, f.listings.Create(context.Background(), &item))
	return item
}

// # Scenarios

/*
TestScenario_LoginReplaysPendingRedirect sends the visitor back where the guard stopped them.
*/
func TestScenario_LoginReplaysPendingRedirect(t *testing.T) {
	f := newFixture(t)
	f.register("alice")
	visitor := f.browser()

	rec := visitor.get("/listings/new")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/login", rec.Header().Get("Location"))

	page := visitor.get("/users/login")
	assert.Contains(t, page.Body.String(), "You must be logged in")

	rec = visitor.login("alice", "password-alice")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/new", rec.Header().Get("Location"))

	rec = visitor.get("/listings/new")
	assert.Equal(t, http.StatusOK, rec.Code)

	// The redirect was consumed by that login.
	visitor.get("/users/logout")
	rec = visitor.login("alice", "password-alice")
	assert.Equal(t, "/listings", rec.Header().Get("Location"))
}

/*
TestScenario_NonOwnerDeleteIsRejected leaves the listing in place and flashes once.
*/
func TestScenario_NonOwnerDeleteIsRejected(t *testing.T) {
	f := newFixture(t)
	owner := f.register("alice")
	f.register("mallory")
	item := f.seedListing(owner.ID)

	visitor := f.browser()
	visitor.login("mallory", "password-mallory")
	visitor.get("/listings") // drain the welcome flash

	rec := visitor.post("/listings/"+item.ID+"?_method=DELETE", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/"+item.ID, rec.Header().Get("Location"))

	_, err := f.listings.FindByID(context.Background(), item.ID)
	require.NoError(t, err)

	page := visitor.get("/listings/" + item.ID)
	assert.Contains(t, page.Body.String(), "You do not have permission to do that")

	page = visitor.get("/listings/" + item.ID)
	assert.NotContains(t, page.Body.String(), "You do not have permission to do that")
}

/*
TestScenario_OwnerDeleteSucceeds runs the same request as the owner.
*/
func TestScenario_OwnerDeleteSucceeds(t *testing.T) {
	f := newFixture(t)
	owner := f.register("alice")
	item := f.seedListing(owner.ID)

	visitor := f.browser()
	visitor.login("alice", "password-alice")

	rec := visitor.post("/listings/"+item.ID+"?_method=DELETE", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))

	_, err := f.listings.FindByID(context.Background(), item.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestScenario_InvalidListingListsEveryViolation renders one 400 page naming all bad fields.
*/
func TestScenario_InvalidListingListsEveryViolation(t *testing.T) {
	f := newFixture(t)
	f.register("alice")

	visitor := f.browser()
	visitor.login("alice", "password-alice")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range map[string]string{
		"listing[title]":       "",
		"listing[description]": "Quiet cabin with a view of the lake",
		"listing[price]":       "2000000",
		"listing[location]":    "Hallstatt",
		"listing[country]":     "Austria",
		"listing[category]":    "Mountains",
	} {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/listings", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := visitor.send(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price: must be between 0 and 1000000, title: cannot be blank")
}

// # Infrastructure

/*
TestServer_Routing covers the root redirect, unknown pages and probes.
*/
func TestServer_Routing(t *testing.T) {
	f := newFixture(t)
	visitor := f.browser()

	rec := visitor.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))

	rec = visitor.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")

	rec = visitor.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = visitor.get("/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ready", payload.Status)
}
