package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	t.Run("continues past refused deletes", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		api.handle("DELETE /v1/annotations/1", func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})
		api.handle("DELETE /v1/annotations/2", respond(http.StatusConflict, map[string]string{"detail": "locked"}))
		api.handle("DELETE /v1/annotations/3", func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})

		client := newTestClient(t, api.baseURL())

		var out bytes.Buffer

		err := client.Delete(context.Background(), []rossum.DeleteTarget{
			{ID: "1", URL: api.baseURL() + "/annotations/1"},
			{ID: "2", URL: api.baseURL() + "/annotations/2"},
			{ID: "3", URL: "annotations/3"},
		}, rossum.DeleteOptions{Out: &out, Verbose: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, api.requestCount())

		output := out.String()
		assert.Contains(t, output, "Deleted annotation 1.\n")
		assert.Contains(t, output, `Deleting annotation 2 caused "Invalid response [`)
		assert.Contains(t, output, "Deleted annotation 3.\n")
	})

	t.Run("quiet unless verbose", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t)
		api.handle("DELETE /v1/queues/8", func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})

		client := newTestClient(t, api.baseURL())

		var out bytes.Buffer

		err := client.Delete(context.Background(), []rossum.DeleteTarget{{ID: "8", URL: "queues/8"}},
			rossum.DeleteOptions{Item: "queue", Out: &out, Verbose: 1})
		require.NoError(t, err)
		assert.Empty(t, out.String())
	})

	t.Run("aborts on unexpected errors", func(t *testing.T) {
		t.Parallel()

		closed := httptest.NewServer(http.NotFoundHandler())
		deadURL := closed.URL + "/v1/annotations/1"
		closed.Close()

		api := newFakeAPI(t)
		client := newTestClient(t, api.baseURL())

		var out bytes.Buffer

		err := client.Delete(context.Background(), []rossum.DeleteTarget{
			{ID: "1", URL: deadURL},
			{ID: "2", URL: api.baseURL() + "/annotations/2"},
		}, rossum.DeleteOptions{Out: &out})
		require.ErrorIs(t, err, rossum.ErrUnexpectedDeleteError)
		assert.Contains(t, out.String(), "Deleting annotation 1 caused an unexpected exception:")
		assert.Zero(t, api.requestCount())
	})
}
