package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-tutor-portal/api"
	"github.com/jrsteele09/go-tutor-portal/sessions"
	"github.com/jrsteele09/go-tutor-portal/storage/repofake"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

type recorded struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
	Body          map[string]any
}

type backendFixture struct {
	server *httptest.Server
	lock   sync.Mutex
	calls  []recorded
	routes map[string]func(w http.ResponseWriter)
}

func newBackend(t *testing.T) *backendFixture {
	t.Helper()
	f := &backendFixture{routes: map[string]func(w http.ResponseWriter){}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		f.lock.Lock()
		f.calls = append(f.calls, rec)
		handler, ok := f.routes[r.Method+" "+r.URL.Path]
		f.lock.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *backendFixture) handle(route string, status int, body string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.routes[route] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (f *backendFixture) last(t *testing.T) recorded {
	t.Helper()
	f.lock.Lock()
	defer f.lock.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func TestLoginPostsCredentials(t *testing.T) {
	backend := newBackend(t)
	backend.handle("POST /login", http.StatusOK, `{"token":"tok-A"}`)
	backend.handle("POST /login/admin", http.StatusOK, `{"token":"tok-ADMIN"}`)
	client := api.New(backend.server.URL)

	tok, err := client.Login(context.Background(), users.LoginForm{Username: "amy", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "tok-A", tok)

	call := backend.last(t)
	require.Equal(t, map[string]any{"username": "amy", "password": "secret1"}, call.Body)
	require.Empty(t, call.Authorization)
	require.NotEmpty(t, call.RequestID)

	tok, err = client.AdminLogin(context.Background(), users.LoginForm{Username: "root", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "tok-ADMIN", tok)
	require.Equal(t, "/login/admin", backend.last(t).Path)
}

func TestLoginRejectsInvalidFormWithoutRequest(t *testing.T) {
	backend := newBackend(t)
	client := api.New(backend.server.URL)

	_, err := client.Login(context.Background(), users.LoginForm{Username: "a", Password: "123"})
	require.ErrorIs(t, err, users.ErrInvalidForm)
	require.Empty(t, backend.calls)
}

func TestLoginEmptyToken(t *testing.T) {
	backend := newBackend(t)
	backend.handle("POST /login", http.StatusOK, `{}`)

	_, err := api.New(backend.server.URL).Login(context.Background(), users.LoginForm{Username: "amy", Password: "secret1"})
	require.Error(t, err)
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "error field", status: http.StatusUnauthorized, body: `{"error":"Invalid credentials"}`, message: "Invalid credentials"},
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"Username taken"}`, message: "Username taken"},
		{name: "detail field", status: http.StatusUnprocessableEntity, body: `{"detail":"bad code"}`, message: "bad code"},
		{name: "plain text", status: http.StatusInternalServerError, body: `boom`, message: "boom"},
		{name: "empty body", status: http.StatusServiceUnavailable, body: ``, message: "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newBackend(t)
			backend.handle("POST /login", tt.status, tt.body)

			_, err := api.New(backend.server.URL).Login(context.Background(), users.LoginForm{Username: "amy", Password: "secret1"})
			require.Error(t, err)

			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.message, api.Message(err))
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	backend := newBackend(t)
	backend.handle("GET /profile", http.StatusUnauthorized, `{"error":"expired"}`)

	_, err := api.New(backend.server.URL).Profile(context.Background())
	require.True(t, api.IsUnauthorized(err))
	require.False(t, api.IsUnauthorized(nil))
	require.Equal(t, "", api.Message(nil))
}

func TestProfileAttachesBearer(t *testing.T) {
	backend := newBackend(t)
	backend.handle("GET /profile", http.StatusOK, `{"username":"amy","email":"amy@example.com","created_at":"2024-03-01T10:00:00Z"}`)
	client := api.New(backend.server.URL+"/", api.WithTokenSource(staticTokens("tok-A")))

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "amy", profile.Username)
	require.Equal(t, "amy@example.com", profile.Email)
	require.Equal(t, 2024, profile.CreatedAt.Year())

	call := backend.last(t)
	require.Equal(t, "/profile", call.Path)
	require.Equal(t, "Bearer tok-A", call.Authorization)
}

func TestProfileRejectsMalformedBody(t *testing.T) {
	for _, body := range []string{"", "null", "{}", `{"unexpected":1}`, `{"username":"","email":"amy@example.com"}`} {
		t.Run(body, func(t *testing.T) {
			backend := newBackend(t)
			backend.handle("GET /profile", http.StatusOK, body)
			client := api.New(backend.server.URL, api.WithTokenSource(staticTokens("tok-A")))

			profile, err := client.Profile(context.Background())
			require.ErrorIs(t, err, api.ErrMalformedResponse)
			require.Nil(t, profile)
		})
	}
}

func TestMalformedProfileInvalidatesSession(t *testing.T) {
	backend := newBackend(t)
	backend.handle("GET /profile", http.StatusOK, "{}")

	repo := repofake.NewFakeStorageRepo()
	store := sessions.New(repo)
	store.SetProfileFetcher(api.New(backend.server.URL, api.WithTokenSource(store)))
	store.Login("tok-A", users.RoleUser)
	store.Initialize(context.Background())

	require.Equal(t, sessions.PhaseAnonymous, store.Phase())
	require.Nil(t, store.Snapshot().User)
	require.Zero(t, repo.Len())
	require.Equal(t, "Bearer tok-A", backend.last(t).Authorization)
}

func TestRegisterAndVerifyEmail(t *testing.T) {
	backend := newBackend(t)
	backend.handle("POST /register", http.StatusOK, `{"created_at":"2024-03-01 10:00:00"}`)
	backend.handle("GET /verify_email/amy lee", http.StatusOK, `{"status":"ok"}`)
	client := api.New(backend.server.URL)

	createdAt, err := client.Register(context.Background(), users.RegisterForm{
		Username: "amy", Email: "amy@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, 10, createdAt.Hour())
	require.Equal(t, map[string]any{"username": "amy", "email": "amy@example.com", "password": "secret1"}, backend.last(t).Body)

	err = client.VerifyEmail(context.Background(), users.ActivationForm{Username: "amy lee", Code: "12 34"})
	require.NoError(t, err)
	call := backend.last(t)
	require.Equal(t, "/verify_email/amy lee", call.Path)
	require.Equal(t, "code=12+34", call.RawQuery)
}

func TestAccountModification(t *testing.T) {
	backend := newBackend(t)
	backend.handle("POST /modify/username", http.StatusOK, `{"status":"ok"}`)
	backend.handle("POST /modify/password", http.StatusOK, `{"status":"ok"}`)
	backend.handle("POST /modify/delete", http.StatusOK, `{"status":"ok"}`)
	client := api.New(backend.server.URL, api.WithTokenSource(staticTokens("tok-A")))
	ctx := context.Background()

	require.NoError(t, client.ModifyUsername(ctx, users.RoleUser, users.ModifyUsernameForm{NewUsername: "amelia", Password: "secret1"}))
	require.Equal(t, map[string]any{"new_username": "amelia", "password": "secret1", "role": "users"}, backend.last(t).Body)

	require.NoError(t, client.ModifyPassword(ctx, users.RoleAdmin, users.ModifyPasswordForm{
		CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2",
	}))
	require.Equal(t, map[string]any{"current_password": "secret1", "new_password": "secret2", "role": "admins"}, backend.last(t).Body)

	require.NoError(t, client.DeleteAccount(ctx, users.RoleUser))
	call := backend.last(t)
	require.Equal(t, map[string]any{"role": "users"}, call.Body)
	require.Equal(t, "Bearer tok-A", call.Authorization)
}

func TestAdminDirectory(t *testing.T) {
	backend := newBackend(t)
	backend.handle("GET /admin/users", http.StatusOK, `{
		"usernames": ["amy", "bob"],
		"emails": ["amy@example.com", "bob@example.com"],
		"created_at": ["2024-03-01T10:00:00Z", "garbage"]
	}`)
	backend.handle("POST /admin/delete_user", http.StatusOK, `{"status":"ok"}`)
	backend.handle("GET /admin/stats/amy", http.StatusOK, `{"conversation": 7, "tags": [["math", 4], ["physics", 3]]}`)
	backend.handle("POST /admin/broadcast", http.StatusOK, `{"status":"sent"}`)

	var dir users.Directory = api.New(backend.server.URL, api.WithTokenSource(staticTokens("tok-ADMIN"))).Admin()
	ctx := context.Background()

	list, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "bob@example.com", list[1].Email)
	require.Equal(t, 2024, list[0].CreatedAt.Year())
	require.True(t, list[1].CreatedAt.IsZero())

	require.NoError(t, dir.Delete(ctx, "bob"))
	require.Equal(t, map[string]any{"username": "bob"}, backend.last(t).Body)
	require.Error(t, dir.Delete(ctx, ""))

	stats, err := dir.Stats(ctx, "amy")
	require.NoError(t, err)
	require.Equal(t, 7, stats.Conversation)
	require.Equal(t, []users.TagCount{{Tag: "math", Count: 4}, {Tag: "physics", Count: 3}}, stats.Tags)

	require.NoError(t, dir.Broadcast(ctx, users.BroadcastForm{Subject: "Hi", Body: "Exams next week"}))
	call := backend.last(t)
	require.Equal(t, map[string]any{"subject": "Hi", "body": "Exams next week"}, call.Body)
	require.Equal(t, "Bearer tok-ADMIN", call.Authorization)

	require.ErrorIs(t, dir.Broadcast(ctx, users.BroadcastForm{}), users.ErrInvalidForm)
}

func TestAdminForbidden(t *testing.T) {
	backend := newBackend(t)
	backend.handle("GET /admin/users", http.StatusForbidden, `{"error":"admins only"}`)

	_, err := api.New(backend.server.URL).Admin().List(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, "admins only", apiErr.Message)
}
