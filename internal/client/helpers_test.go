package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/rossum/internal/auth"
	rossumhttp "github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/internal/retry"
)

const testToken = "test-token"

// fakeAPI serves canned handlers keyed by "METHOD /path" and counts the
// requests it receives.
type fakeAPI struct {
	*httptest.Server

	t        *testing.T
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{t: t, routes: map[string]http.HandlerFunc{}}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) handle(route string, handler http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.routes[route] = handler
}

func (a *fakeAPI) serve(writer http.ResponseWriter, request *http.Request) {
	route := request.Method + " " + request.URL.Path

	a.mu.Lock()
	a.requests = append(a.requests, route)
	handler, ok := a.routes[route]
	a.mu.Unlock()

	if !ok {
		a.t.Errorf("unexpected request %s", route)
		writer.WriteHeader(http.StatusNotFound)

		return
	}

	handler(writer, request)
}

func (a *fakeAPI) requestCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.requests)
}

func (a *fakeAPI) baseURL() string {
	return a.URL + "/v1"
}

// newTestClient creates a client authenticated with a static token that
// gives up on the first connection failure.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	opts := []rossumhttp.Option{
		rossumhttp.WithRetryPolicy(retry.Policy{MaxAttempts: 1, Wait: time.Millisecond}),
	}
	session := auth.NewSession(rossumhttp.NewClient(baseURL, nil, opts...), auth.Credentials{Token: testToken})

	return NewWithAuthenticator(baseURL, session, nil, opts...)
}

func writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

// respond returns a handler answering with a fixed JSON body.
func respond(status int, body interface{}) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, status, body)
	}
}

// page builds a paginated list response.
func page(results []interface{}, next interface{}, total int) map[string]interface{} {
	return map[string]interface{}{
		"results": results,
		"pagination": map[string]interface{}{
			"next":     next,
			"previous": nil,
			"total":    total,
		},
	}
}

func decodeBody(t *testing.T, request *http.Request) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		t.Errorf("decoding request body: %v", err)
	}

	return body
}
