package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

func TestPaginator_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("two pages", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		api.handle("GET /v1/queues", func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Token "+testToken, request.Header.Get("Authorization"))

			if request.URL.Query().Get("page") == "2" {
				writeJSON(writer, http.StatusOK, page([]interface{}{
					map[string]interface{}{"id": 2, "url": api.baseURL() + "/queues/2"},
				}, nil, 2))

				return
			}

			writeJSON(writer, http.StatusOK, page([]interface{}{
				map[string]interface{}{"id": 1, "url": api.baseURL() + "/queues/1"},
			}, api.baseURL()+"/queues?page=2", 2))
		})

		client := newTestClient(t, api.baseURL())

		queues, total, err := client.FetchAll(context.Background(), "queues", rossum.Query{}, rossum.ListOptions{})
		require.NoError(t, err)
		require.Len(t, queues, 2)
		assert.Equal(t, 2, total)
		assert.Equal(t, 1, queues[0].ID())
		assert.Equal(t, 2, queues[1].ID())
		assert.Equal(t, 2, api.requestCount())
	})

	t.Run("single page without next", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		api.handle("GET /v1/hooks", respond(http.StatusOK, page([]interface{}{}, nil, 0)))

		client := newTestClient(t, api.baseURL())

		hooks, total, err := client.FetchAll(context.Background(), "hooks", nil, rossum.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, hooks)
		assert.Zero(t, total)
	})

	t.Run("sideload given twice", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		client := newTestClient(t, api.baseURL())

		_, _, err := client.FetchAll(context.Background(), "annotations",
			rossum.Query{"sideload": "modifiers"},
			rossum.ListOptions{Sideloads: []rossum.Sideload{rossum.Modifiers.Sideload()}},
		)
		require.ErrorIs(t, err, rossum.ErrSideloadSpecifiedTwice)
		assert.Equal(t, "sideloading cannot be specified both in query and sideloads", err.Error())
		assert.Zero(t, api.requestCount())
	})

	t.Run("sideloads gathered from every page", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		userURL := func(id string) string { return api.baseURL() + "/users/" + id }

		api.handle("GET /v1/annotations", func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Query().Get("page") == "2" {
				response := page([]interface{}{
					map[string]interface{}{"id": 2, "modifier": userURL("8")},
				}, nil, 2)
				response["modifiers"] = []interface{}{map[string]interface{}{"url": userURL("8"), "username": "bob"}}
				writeJSON(writer, http.StatusOK, response)

				return
			}

			assert.Equal(t, "modifiers", request.URL.Query().Get("sideload"))
			assert.Equal(t, "to_review", request.URL.Query().Get("status"))

			response := page([]interface{}{
				map[string]interface{}{"id": 1, "modifier": userURL("7")},
			}, api.baseURL()+"/annotations?page=2", 2)
			response["modifiers"] = []interface{}{map[string]interface{}{"url": userURL("7"), "username": "alice"}}
			writeJSON(writer, http.StatusOK, response)
		})

		client := newTestClient(t, api.baseURL())
		query := rossum.Query{"status": "to_review"}

		annotations, _, err := client.FetchAll(context.Background(), "annotations", query,
			rossum.ListOptions{Sideloads: []rossum.Sideload{rossum.NewSideload("modifiers")}})
		require.NoError(t, err)
		require.Len(t, annotations, 2)

		first, ok := annotations[0].Record("modifier")
		require.True(t, ok)
		assert.Equal(t, "alice", first.String("username"))

		second, ok := annotations[1].Record("modifier")
		require.True(t, ok)
		assert.Equal(t, "bob", second.String("username"))

		assert.False(t, query.Has("sideload"), "caller's query must not be modified")
	})

	t.Run("custom result key", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		api.handle("GET /v1/queues", func(writer http.ResponseWriter, _ *http.Request) {
			response := page([]interface{}{map[string]interface{}{"id": 1}}, nil, 1)
			response["schemas"] = []interface{}{map[string]interface{}{"id": 9}}
			writeJSON(writer, http.StatusOK, response)
		})

		client := newTestClient(t, api.baseURL())

		schemas, total, err := client.FetchAll(context.Background(), "queues", nil, rossum.ListOptions{ResultKey: "schemas"})
		require.NoError(t, err)
		require.Len(t, schemas, 1)
		assert.Equal(t, 9, schemas[0].ID())
		assert.Equal(t, 1, total)
	})

	t.Run("API error on a later page", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		api.handle("GET /v1/queues", func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Query().Get("page") == "2" {
				writeJSON(writer, http.StatusInternalServerError, map[string]string{"detail": "boom"})

				return
			}

			writeJSON(writer, http.StatusOK, page([]interface{}{}, api.baseURL()+"/queues?page=2", 2))
		})

		client := newTestClient(t, api.baseURL())

		_, _, err := client.FetchAll(context.Background(), "queues", nil, rossum.ListOptions{})
		require.Error(t, err)
		assert.True(t, rossum.IsAPIError(err))
	})
}

func TestExtend(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []interface{}{1, 2, 3}, extend([]interface{}{1}, []interface{}{2, 3}))
	assert.Equal(t, []interface{}{2}, extend(nil, []interface{}{2}))
	assert.Equal(t, "first", extend("first", "second"))
	assert.Equal(t, "second", extend(nil, "second"))
}
