package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

func annotationsResponse() rossum.Record {
	return rossum.Record{
		"results": []interface{}{
			map[string]interface{}{
				"id":       1,
				"modifier": "https://x/v1/users/7",
				"content":  "https://x/v1/annotations/1/content",
				"documents": []interface{}{
					"https://x/v1/documents/3",
					"https://x/v1/documents/404",
				},
			},
			map[string]interface{}{
				"id":       2,
				"modifier": "https://x/v1/users/404",
				"content":  "https://x/v1/annotations/2/content",
			},
		},
		"modifiers": []interface{}{
			map[string]interface{}{"url": "https://x/v1/users/7", "username": "alice"},
		},
		"documents": []interface{}{
			map[string]interface{}{"url": "https://x/v1/documents/3", "file_name": "invoice.pdf"},
		},
		"content": []interface{}{
			map[string]interface{}{"url": "https://x/v1/annotations/1/content/11", "schema_id": "total"},
			map[string]interface{}{"url": "https://x/v1/annotations/1/content/12", "schema_id": "vat"},
		},
	}
}

func TestResolveSideloads(t *testing.T) {
	t.Parallel()

	t.Run("singular references", func(t *testing.T) {
		t.Parallel()

		response := annotationsResponse()
		resolveSideloads(response, []rossum.Sideload{rossum.NewSideload("modifiers")})

		results := response.Records("results")

		modifier, ok := results[0].Record("modifier")
		require.True(t, ok)
		assert.Equal(t, "alice", modifier.String("username"))

		missing, ok := results[1].Record("modifier")
		require.True(t, ok)
		assert.Empty(t, missing)
	})

	t.Run("plural references drop unmatched", func(t *testing.T) {
		t.Parallel()

		response := annotationsResponse()
		resolveSideloads(response, []rossum.Sideload{rossum.Documents.Sideload()})

		results := response.Records("results")
		documents := results[0].Records("documents")
		require.Len(t, documents, 1)
		assert.Equal(t, "invoice.pdf", documents[0].String("file_name"))
		assert.False(t, results[1].Has("documents"))
	})

	t.Run("content grouped by annotation", func(t *testing.T) {
		t.Parallel()

		response := annotationsResponse()
		resolveSideloads(response, []rossum.Sideload{rossum.Content.WithSchemaIDs("total", "vat")})

		results := response.Records("results")
		datapoints := results[0].Records("content")
		require.Len(t, datapoints, 2)
		assert.Equal(t, "total", datapoints[0].String("schema_id"))
		assert.Equal(t, "vat", datapoints[1].String("schema_id"))

		empty, ok := results[1].Record("content")
		require.True(t, ok)
		assert.Empty(t, empty)
	})

	t.Run("resolving twice changes nothing", func(t *testing.T) {
		t.Parallel()

		sideloads := []rossum.Sideload{
			rossum.NewSideload("modifiers"),
			rossum.Documents.Sideload(),
			rossum.Content.WithSchemaIDs("total"),
		}

		response := annotationsResponse()
		resolveSideloads(response, sideloads)

		first := response.Records("results")
		snapshot := []interface{}{first[0]["modifier"], first[0]["documents"], first[0]["content"], first[1]["modifier"]}

		assert.NotPanics(t, func() { resolveSideloads(response, sideloads) })

		second := response.Records("results")
		assert.Equal(t, snapshot, []interface{}{second[0]["modifier"], second[0]["documents"], second[0]["content"], second[1]["modifier"]})
	})
}

func TestPaginator_Sideload(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	api.handle("GET /v1/queues", func(writer http.ResponseWriter, request *http.Request) {
		assert.Empty(t, request.URL.Query().Get("sideload"))
		writeJSON(writer, http.StatusOK, page([]interface{}{
			map[string]interface{}{"id": 1, "workspace": api.baseURL() + "/workspaces/5"},
		}, nil, 1))
	})
	api.handle("GET /v1/workspaces", respond(http.StatusOK, page([]interface{}{
		map[string]interface{}{"id": 5, "url": api.baseURL() + "/workspaces/5", "name": "Finance"},
	}, nil, 1)))

	client := newTestClient(t, api.baseURL())

	queues, err := client.ListQueues(context.Background(), rossum.QueueFilter{}, rossum.Workspaces.Sideload())
	require.NoError(t, err)
	require.Len(t, queues, 1)

	workspace, ok := queues[0].Record("workspace")
	require.True(t, ok)
	assert.Equal(t, "Finance", workspace.String("name"))
}
