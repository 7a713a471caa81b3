package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/rossum/internal/auth"
	rossumhttp "github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthServer struct {
	*httptest.Server

	logins      atomic.Int32
	logouts     atomic.Int32
	loginStatus int
	lastLogin   map[string]interface{}
	logoutAuth  string
	mu          sync.Mutex
}

func newFakeAuthServer(t *testing.T, loginStatus int) *fakeAuthServer {
	t.Helper()

	fake := &fakeAuthServer{loginStatus: loginStatus}
	fake.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/v1/auth/login":
			fake.logins.Add(1)

			var body map[string]interface{}

			_ = json.NewDecoder(request.Body).Decode(&body)

			fake.mu.Lock()
			fake.lastLogin = body
			fake.mu.Unlock()

			writer.WriteHeader(fake.loginStatus)

			if fake.loginStatus == http.StatusOK {
				_, _ = writer.Write([]byte(`{"key": "issued-token"}`))
			} else {
				_, _ = writer.Write([]byte(`{"non_field_errors": ["Unable to log in with provided credentials."]}`))
			}
		case "/v1/auth/logout":
			fake.logouts.Add(1)

			fake.mu.Lock()
			fake.logoutAuth = request.Header.Get("Authorization")
			fake.mu.Unlock()

			_, _ = writer.Write([]byte(`{"detail": "Successfully logged out."}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fake.Close)

	return fake
}

func (f *fakeAuthServer) transport() *rossumhttp.Client {
	return rossumhttp.NewClient(f.URL+"/v1", nil)
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://api.test/v1/queues", nil)
	require.NoError(t, err)

	return req
}

func TestSession_Authorize(t *testing.T) {
	t.Parallel()

	t.Run("logs in once and reuses the token", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{Username: "jane", Password: "secret"})
		assert.False(t, session.LoggedIn())

		for _iter := 0; _iter < 3; _iter++ {
			req := newRequest(t)
			require.NoError(t, session.Authorize(context.Background(), req))
			assert.Equal(t, "Token issued-token", req.Header.Get("Authorization"))
		}

		assert.Equal(t, int32(1), server.logins.Load())
		assert.True(t, session.LoggedIn())
		assert.Equal(t, "jane", server.lastLogin["username"])
		assert.Equal(t, "secret", server.lastLogin["password"])
		assert.NotContains(t, server.lastLogin, "max_token_lifetime_s")
	})

	t.Run("sends the requested token lifetime", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{
			Username:         "jane",
			Password:         "secret",
			MaxTokenLifetime: time.Hour,
		})

		_, err := session.Token(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, 3600, server.lastLogin["max_token_lifetime_s"], 0)
	})

	t.Run("short lifetime keeps one session", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{
			Username:         "jane",
			Password:         "secret",
			MaxTokenLifetime: 20 * time.Second,
		})

		for _iter := 0; _iter < 3; _iter++ {
			key, err := session.Token(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "issued-token", key)
		}

		require.NoError(t, session.Logout(context.Background()))
		assert.Equal(t, int32(1), server.logins.Load())
		assert.Equal(t, int32(1), server.logouts.Load())
		assert.InDelta(t, 20, server.lastLogin["max_token_lifetime_s"], 0)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusUnauthorized)
		session := auth.NewSession(server.transport(), auth.Credentials{Username: "jane", Password: "wrong"})

		err := session.Authorize(context.Background(), newRequest(t))
		require.ErrorIs(t, err, rossum.ErrInvalidCredentials)
		assert.Equal(t, "Login failed with the provided credentials.", err.Error())
		assert.False(t, session.LoggedIn())
	})

	t.Run("other login failures keep the response", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusBadRequest)
		session := auth.NewSession(server.transport(), auth.Credentials{Username: "jane"})

		_, err := session.Token(context.Background())
		require.Error(t, err)
		assert.True(t, rossum.IsAPIError(err))
		assert.NotErrorIs(t, err, rossum.ErrInvalidCredentials)
	})

	t.Run("concurrent callers share one login", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{Username: "jane", Password: "secret"})

		var wg sync.WaitGroup

		for _iter := 0; _iter < 8; _iter++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, _ = session.Token(context.Background())
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(1), server.logins.Load())
	})

	t.Run("static token skips login", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{Token: "preset"})

		req := newRequest(t)
		require.NoError(t, session.Authorize(context.Background(), req))
		assert.Equal(t, "Token preset", req.Header.Get("Authorization"))
		assert.Zero(t, server.logins.Load())
	})
}

func TestSession_Logout(t *testing.T) {
	t.Parallel()

	t.Run("posts the cached token and forgets it", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{Username: "jane", Password: "secret"})

		_, err := session.Token(context.Background())
		require.NoError(t, err)

		require.NoError(t, session.Logout(context.Background()))
		assert.Equal(t, int32(1), server.logouts.Load())
		assert.Equal(t, "Token issued-token", server.logoutAuth)
		assert.False(t, session.LoggedIn())

		require.NoError(t, session.Logout(context.Background()))
		assert.Equal(t, int32(1), server.logouts.Load())
	})

	t.Run("without a session nothing is sent", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{Username: "jane", Password: "secret"})

		require.NoError(t, session.Logout(context.Background()))
		assert.Zero(t, server.logins.Load())
		assert.Zero(t, server.logouts.Load())
	})

	t.Run("static token is logged out", func(t *testing.T) {
		t.Parallel()

		server := newFakeAuthServer(t, http.StatusOK)
		session := auth.NewSession(server.transport(), auth.Credentials{Token: "preset"})

		require.NoError(t, session.Logout(context.Background()))
		assert.Equal(t, int32(1), server.logouts.Load())
		assert.Equal(t, "Token preset", server.logoutAuth)
	})
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	authenticator := auth.New(nil, auth.Credentials{Username: "jane", Password: "secret"}, true)

	req := newRequest(t)
	require.NoError(t, authenticator.Authorize(context.Background(), req))

	username, password, ok := req.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "jane", username)
	assert.Equal(t, "secret", password)

	assert.NoError(t, authenticator.Logout(context.Background()))
}
