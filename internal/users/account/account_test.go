// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/internal/platform/respond"
	"github.com/taibuivan/wanderlust/internal/platform/sec"
	"github.com/taibuivan/wanderlust/internal/platform/session"
	"github.com/taibuivan/wanderlust/internal/users/account"
	"github.com/taibuivan/wanderlust/internal/view"
)

// # Fakes

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*account.User
	fail  error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*account.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *account.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return apperr.Conflict("A user with the given username is already registered")
		}
		if existing.Email == user.Email {
			return apperr.Conflict("A user with the given email is already registered")
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("Account")
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

// # Fixture

type fixture struct {
	users   *memoryUsers
	service *account.Service
	store   *session.RedisStore
	manager *session.Manager
	router  http.Handler
	jar     []*http.Cookie
	t       *testing.T
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	views, err := view.New(false)
	require.NoError(t, err)
	responder := respond.NewResponder(views)

	store := session.NewRedisStore(client, time.Hour)
	manager := session.NewManager(store, session.CookieOptions{Secret: []byte("0123456789abcdef0123456789abcdef")}, responder)

	users := newMemoryUsers()
	service := account.NewService(users)
	handler := account.NewHandler(service, manager, views, responder)

	router := chi.NewRouter()
	router.Use(manager.Middleware, account.LoadCurrentUser(service, responder))
	router.Mount("/users", handler.Routes())
	router.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		if user := ctxutil.GetCurrentUser(r.Context()); user != nil {
			_, _ = w.Write([]byte(user.Username))
		}
	})

	return &fixture{users: users, service: service, store: store, manager: manager, router: router, t: t}
}

// do sends a request carrying the fixture's cookies and keeps any new ones.
func (f *fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range f.jar {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	f.jar = mergeCookies(f.jar, rec.Result().Cookies())
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

func (f *fixture) register(username, password string) *account.User {
	user, err := f.service.Register(context.Background(), account.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(f.t, err)
	return user
}

// # Service

/*
TestAuthenticate_SameFaultForUnknownAndWrong prevents username enumeration.
*/
func TestAuthenticate_SameFaultForUnknownAndWrong(t *testing.T) {
	f := newFixture(t)
	f.register("alice", "correct-horse")

	_, unknownErr := f.service.Authenticate(context.Background(), "nobody", "whatever1")
	_, wrongErr := f.service.Authenticate(context.Background(), "alice", "wrong-pass")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, apperr.As(unknownErr).Message, apperr.As(wrongErr).Message)
	assert.Equal(t, account.MessageBadCredentials, unknownErr.Error())

	user, err := f.service.Authenticate(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
}

/*
TestAuthenticate_StorageFailureEscalates keeps infrastructure faults distinct from bad credentials.
*/
func TestAuthenticate_StorageFailureEscalates(t *testing.T) {
	users := &failingUsers{err: apperr.Internal(errors.New("db down"))}
	service := account.NewService(users)

	_, err := service.Authenticate(context.Background(), "alice", "password1")
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

type failingUsers struct{ err error }

func (f *failingUsers) Create(context.Context, *account.User) error { return f.err }
func (f *failingUsers) FindByID(context.Context, string) (*account.User, error) {
	return nil, f.err
}
func (f *failingUsers) FindByUsername(context.Context, string) (*account.User, error) {
	return nil, f.err
}

// # Handlers

/*
TestLogin_ReplaysPendingRedirect sends the user to the page they were refused.
*/
func TestLogin_ReplaysPendingRedirect(t *testing.T) {
	f := newFixture(t)
	f.register("alice", "correct-horse")

	// First visit creates the anonymous session.
	f.do(http.MethodGet, "/users/login", nil)
	require.NotEmpty(t, f.jar)
	token := strings.SplitN(f.jar[0].Value, ".", 2)[0]
	require.NoError(t, f.store.SetRedirect(context.Background(), token, "/listings/new"))

	rec := f.do(http.MethodPost, "/users/login", url.Values{
		"user[username]": {"alice"},
		"user[password]": {"correct-horse"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/new", rec.Header().Get("Location"))

	newToken := strings.SplitN(f.jar[0].Value, ".", 2)[0]
	assert.NotEqual(t, token, newToken)

	who := f.do(http.MethodGet, "/whoami", nil)
	assert.Equal(t, "alice", who.Body.String())

	// The flash shows on the next rendered page, once.
	page := f.do(http.MethodGet, "/users/login", nil)
	assert.Contains(t, page.Body.String(), account.MessageWelcomeBack)
	page = f.do(http.MethodGet, "/users/login", nil)
	assert.NotContains(t, page.Body.String(), account.MessageWelcomeBack)
}

/*
TestLogin_DefaultsToListings lands on /listings when nothing is pending.
*/
func TestLogin_DefaultsToListings(t *testing.T) {
	f := newFixture(t)
	f.register("alice", "correct-horse")

	rec := f.do(http.MethodPost, "/users/login", url.Values{
		"user[username]": {"alice"},
		"user[password]": {"correct-horse"},
	})

	assert.Equal(t, "/listings", rec.Header().Get("Location"))
}

/*
TestLogin_BadCredentials flashes the generic reason and returns to the form.
*/
func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.register("alice", "correct-horse")

	tests := []struct {
		name string
		form url.Values
	}{
		{"wrong_password", url.Values{"user[username]": {"alice"}, "user[password]": {"nope-nope"}}},
		{"unknown_user", url.Values{"user[username]": {"bob"}, "user[password]": {"nope-nope"}}},
		{"missing_fields", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/users/login", tt.form)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/users/login", rec.Header().Get("Location"))

			page := f.do(http.MethodGet, "/users/login", nil)
			assert.Contains(t, page.Body.String(), account.MessageBadCredentials)
		})
	}

	who := f.do(http.MethodGet, "/whoami", nil)
	assert.Empty(t, who.Body.String())
}

/*
TestSignup_CreatesAndLogsIn registers, establishes the session and flashes success.
*/
func TestSignup_CreatesAndLogsIn(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/users/signup", url.Values{
		"user[username]": {"carol"},
		"user[email]":    {"Carol@Example.com"},
		"user[password]": {"long-enough"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))
	assert.Len(t, rec.Result().Cookies(), 1, "only the signed-in session cookie is sent")

	who := f.do(http.MethodGet, "/whoami", nil)
	assert.Equal(t, "carol", who.Body.String())

	page := f.do(http.MethodGet, "/users/signup", nil)
	assert.Contains(t, page.Body.String(), account.MessageSignedUp)

	stored, err := f.users.FindByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", stored.Email)
}

/*
TestSignup_RejectsInvalidAndDuplicate returns to the form with an error flash.
*/
func TestSignup_RejectsInvalidAndDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register("alice", "correct-horse")

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{
			"duplicate_username",
			url.Values{"user[username]": {"alice"}, "user[email]": {"other@example.com"}, "user[password]": {"long-enough"}},
			"A user with the given username is already registered",
		},
		{
			"invalid_fields",
			url.Values{"user[username]": {"a!"}, "user[email]": {"not-an-email"}, "user[password]": {"short"}},
			"email: must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/users/signup", tt.form)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/users/signup", rec.Header().Get("Location"))

			page := f.do(http.MethodGet, "/users/signup", nil)
			assert.Contains(t, page.Body.String(), tt.message)
		})
	}
}

/*
TestLogout_EndsSession leaves the visitor anonymous with a goodbye flash.
*/
func TestLogout_EndsSession(t *testing.T) {
	f := newFixture(t)
	f.register("alice", "correct-horse")

	f.do(http.MethodPost, "/users/login", url.Values{
		"user[username]": {"alice"},
		"user[password]": {"correct-horse"},
	})
	require.Equal(t, "alice", f.do(http.MethodGet, "/whoami", nil).Body.String())

	rec := f.do(http.MethodGet, "/users/logout", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))

	assert.Empty(t, f.do(http.MethodGet, "/whoami", nil).Body.String())

	page := f.do(http.MethodGet, "/users/login", nil)
	assert.Contains(t, page.Body.String(), account.MessageGoodbye)
}

// # Middleware

/*
TestLoadCurrentUser_MissingAccountIsAnonymous ignores sessions whose account is gone.
*/
func TestLoadCurrentUser_MissingAccountIsAnonymous(t *testing.T) {
	users := newMemoryUsers()
	handle := session.NewHandle(nil, &session.Record{Token: "tok", UserID: "ghost"})

	var seen *sec.Identity
	handler := account.LoadCurrentUser(users, respond.NewResponder(nil))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetCurrentUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.WithHandle(req.Context(), handle))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, seen)
}

/*
TestLoadCurrentUser_StorageFailure renders the error page.
*/
func TestLoadCurrentUser_StorageFailure(t *testing.T) {
	users := newMemoryUsers()
	users.fail = apperr.Internal(errors.New("db down"))
	handle := session.NewHandle(nil, &session.Record{Token: "tok", UserID: "u1"})

	called := false
	handler := account.LoadCurrentUser(users, respond.NewResponder(nil))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.WithHandle(req.Context(), handle))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

/*
TestSafeRedirect only allows local paths.
*/
func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/listings"},
		{"/listings/new", "/listings/new"},
		{"/listings?search=goa", "/listings?search=goa"},
		{"//evil.example", "/listings"},
		{"/\\evil.example", "/listings"},
		{"https://evil.example", "/listings"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, account.SafeRedirect(tt.in))
		})
	}
}
