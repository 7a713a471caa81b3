package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// useMemFs swaps the command filesystem for an in-memory one and resets
// viper, restoring both when the test ends.
func useMemFs(t *testing.T) afero.Fs {
	t.Helper()

	previous := appFs
	memFs := afero.NewMemMapFs()
	appFs = memFs
	viper.Reset()

	t.Cleanup(func() {
		appFs = previous
		viper.Reset()
	})

	return memFs
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()

	root := NewRootCommand("1.0.0", "abc123", "2026-01-01")

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

// fakeAPI serves canned JSON per path and records requests.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]any
	requests []string
	bodies   map[string]map[string]any
	logouts  int
}

func newFakeAPI(t *testing.T, routes map[string]any) *fakeAPI {
	t.Helper()

	api := &fakeAPI{routes: routes, bodies: map[string]map[string]any{}}
	api.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()

		key := request.Method + " " + request.URL.Path
		api.requests = append(api.requests, key)

		if request.URL.Path == "/v1/auth/logout" {
			api.logouts++

			_, _ = writer.Write([]byte(`{"detail": "Successfully logged out."}`))

			return
		}

		if request.Body != nil && request.Method != http.MethodGet {
			var body map[string]any
			if json.NewDecoder(request.Body).Decode(&body) == nil {
				api.bodies[key] = body
			}
		}

		response, ok := api.routes[key]
		if !ok {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"detail": "Not found."}`))

			return
		}

		switch typed := response.(type) {
		case []byte:
			_, _ = writer.Write(typed)
		case int:
			writer.WriteHeader(typed)
		default:
			writer.Header().Set("Content-Type", "application/json")

			if request.Method == http.MethodPost {
				writer.WriteHeader(http.StatusCreated)
			}

			_ = json.NewEncoder(writer).Encode(typed)
		}
	}))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) url(path string) string {
	return a.URL + "/v1/" + path
}

func (a *fakeAPI) requested() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.requests...)
}

func (a *fakeAPI) body(key string) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.bodies[key]
}

func page(results ...map[string]any) map[string]any {
	return map[string]any{
		"pagination": map[string]any{"next": nil, "total": len(results)},
		"results":    results,
	}
}

func requireJSON(t *testing.T, output string) []map[string]any {
	t.Helper()

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded), output)

	return decoded
}
