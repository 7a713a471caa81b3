package commands

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/internal/publish"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

func queueRoutes(api *fakeAPI) {
	api.routes["GET /v1/queues"] = page(map[string]any{
		"id":        1,
		"name":      "Invoices",
		"url":       api.url("queues/1"),
		"workspace": api.url("workspaces/7"),
		"inbox":     api.url("inboxes/3"),
		"schema":    api.url("schemas/4"),
		"users":     []any{api.url("users/10")},
		"hooks":     []any{},
	})
	api.routes["GET /v1/inboxes"] = page(map[string]any{
		"id":    3,
		"url":   api.url("inboxes/3"),
		"email": "invoices@example.test",
	})
}

func TestQueueList(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		useMemFs(t)

		api := newFakeAPI(t, map[string]any{})
		queueRoutes(api)

		output, err := runCommand(t, "", "queue", "list", "-o", "json", "--url", api.URL, "--token", "abc")
		require.NoError(t, err)

		queues := requireJSON(t, output)
		require.Len(t, queues, 1)
		assert.Equal(t, "Invoices", queues[0]["name"])

		inbox, ok := queues[0]["inbox"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "invoices@example.test", inbox["email"])

		assert.Contains(t, api.requested(), "POST /v1/auth/logout")
	})

	t.Run("table", func(t *testing.T) {
		useMemFs(t)

		api := newFakeAPI(t, map[string]any{})
		queueRoutes(api)

		output, err := runCommand(t, "", "queue", "list", "--url", api.URL, "--token", "abc")
		require.NoError(t, err)
		assert.Contains(t, output, "Invoices")
		assert.Contains(t, output, "invoices@example.test")
	})

	t.Run("stored profile", func(t *testing.T) {
		fs := useMemFs(t)

		api := newFakeAPI(t, map[string]any{})
		queueRoutes(api)

		require.NoError(t, afero.WriteFile(fs, testConfigFile, []byte("current_profile: work\nprofiles:\n  work:\n    url: "+
			api.URL+"\n    token: abc\n"), constants.ConfigFilePerm))

		output, err := runCommand(t, "", "queue", "list", "-o", "yaml", "--config", testConfigFile)
		require.NoError(t, err)
		assert.Contains(t, output, "name: Invoices")
	})
}

type fakePublisher struct {
	url     string
	subject string
	exports []publish.Export
	closed  bool
}

func (f *fakePublisher) Publish(_ context.Context, export publish.Export) error {
	f.exports = append(f.exports, export)

	return nil
}

func (f *fakePublisher) Close() {
	f.closed = true
}

func TestQueueExport(t *testing.T) {
	csv := []byte("Invoice ID,Total\n42,100\n")

	t.Run("stdout", func(t *testing.T) {
		useMemFs(t)

		api := newFakeAPI(t, map[string]any{"GET /v1/queues/5/export": csv})

		output, err := runCommand(t, "", "queue", "export", "5", "--annotation-id", "11", "--annotation-id", "12",
			"--url", api.URL, "--token", "abc")
		require.NoError(t, err)
		assert.Equal(t, string(csv), output)
	})

	t.Run("output file", func(t *testing.T) {
		fs := useMemFs(t)

		api := newFakeAPI(t, map[string]any{"GET /v1/queues/5/export": csv})

		_, err := runCommand(t, "", "queue", "export", "5", "--annotation-id", "11", "-O", "/out/export.csv",
			"--url", api.URL, "--token", "abc")
		require.NoError(t, err)

		data, err := afero.ReadFile(fs, "/out/export.csv")
		require.NoError(t, err)
		assert.Equal(t, csv, data)
	})

	t.Run("nats", func(t *testing.T) {
		useMemFs(t)

		api := newFakeAPI(t, map[string]any{"GET /v1/queues/5/export": csv})

		fake := &fakePublisher{}
		previous := newPublisher
		newPublisher = func(url, subject string) (exportPublisher, error) {
			fake.url = url
			fake.subject = subject

			return fake, nil
		}

		t.Cleanup(func() { newPublisher = previous })

		output, err := runCommand(t, "", "queue", "export", "5", "--annotation-id", "11", "-f", "CSV",
			"--nats-url", "nats://broker.test:4222", "--nats-subject", "rossum.exports",
			"--url", api.URL, "--token", "abc")
		require.NoError(t, err)
		assert.Equal(t, "Published 24 bytes to rossum.exports.\n", output)

		assert.Equal(t, "nats://broker.test:4222", fake.url)
		assert.Equal(t, "rossum.exports", fake.subject)
		assert.True(t, fake.closed)
		require.Len(t, fake.exports, 1)
		assert.Equal(t, publish.Export{Queue: 5, Format: "csv", Annotations: []int{11}, Data: csv}, fake.exports[0])
	})

	t.Run("invalid format", func(t *testing.T) {
		useMemFs(t)

		api := newFakeAPI(t, map[string]any{})

		_, err := runCommand(t, "", "queue", "export", "5", "--annotation-id", "11", "-f", "pdf",
			"--url", api.URL, "--token", "abc")
		require.ErrorIs(t, err, constants.ErrInvalidExportFormat)
		assert.Empty(t, api.requested())
	})

	t.Run("nats without subject", func(t *testing.T) {
		useMemFs(t)

		_, err := runCommand(t, "", "queue", "export", "5", "--annotation-id", "11",
			"--nats-url", "nats://broker.test:4222", "--url", "https://api.test", "--token", "abc")
		require.ErrorIs(t, err, constants.ErrNoSubjectForNATS)
	})
}

func TestQueueUpload_Wait(t *testing.T) {
	fs := useMemFs(t)

	require.NoError(t, afero.WriteFile(fs, "/docs/invoice.pdf", []byte("%PDF-1.4"), constants.ConfigFilePerm))

	api := newFakeAPI(t, map[string]any{
		"GET /v1/annotations/314": map[string]any{"id": 314, "status": "to_review"},
	})
	api.routes["POST /v1/queues/5/upload"] = map[string]any{
		"results": []any{map[string]any{"annotation": api.url("annotations/314")}},
	}

	output, err := runCommand(t, "", "queue", "upload", "5", "/docs/invoice.pdf", "--wait", "--interval", "1ms",
		"--url", api.URL, "--token", "abc")
	require.NoError(t, err)
	assert.Equal(t, "Processing invoice.pdf. finished.\ninvoice.pdf: 314 to_review\n", output)
}

func TestQueueUpload_WaitTimeout(t *testing.T) {
	fs := useMemFs(t)

	require.NoError(t, afero.WriteFile(fs, "/docs/invoice.pdf", []byte("%PDF-1.4"), constants.ConfigFilePerm))

	api := newFakeAPI(t, map[string]any{
		"GET /v1/annotations/314": map[string]any{"id": 314, "status": "importing"},
	})
	api.routes["POST /v1/queues/5/upload"] = map[string]any{
		"results": []any{map[string]any{"annotation": api.url("annotations/314")}},
	}

	output, err := runCommand(t, "", "queue", "upload", "5", "/docs/invoice.pdf", "--wait", "--interval", "1ms",
		"--retries", "2", "--url", api.URL, "--token", "abc")
	require.ErrorIs(t, err, rossum.ErrPollTimeout)
	assert.Regexp(t, `^Processing invoice\.pdf\.+\n$`, output)
	assert.NotContains(t, output, "finished")
}

func TestQueueDelete_NotConfirmed(t *testing.T) {
	useMemFs(t)

	api := newFakeAPI(t, map[string]any{})

	_, err := runCommand(t, "n\n", "queue", "delete", "1", "--url", api.URL, "--token", "abc")
	require.ErrorIs(t, err, constants.ErrDeleteNotConfirmed)
	assert.Empty(t, api.requested())
}

func TestQueueGet_NotFound(t *testing.T) {
	useMemFs(t)

	api := newFakeAPI(t, map[string]any{})

	_, err := runCommand(t, "", "queue", "get", "99", "--url", api.URL, "--token", "abc")
	require.Error(t, err)
	assert.Equal(t, []string{"GET /v1/queues/99", "POST /v1/auth/logout"}, api.requested())
}

func TestQueueCreate(t *testing.T) {
	fs := useMemFs(t)

	require.NoError(t, afero.WriteFile(fs, "/schemas/invoice.yml", []byte(`- category: section
  id: invoice_details
  label: Invoice details
  children:
    - category: datapoint
      id: document_id
      label: Invoice number
      type: string
`), constants.ConfigFilePerm))

	api := newFakeAPI(t, map[string]any{})
	api.routes["GET /v1/workspaces/7"] = map[string]any{"id": 7, "url": api.url("workspaces/7")}
	api.routes["POST /v1/schemas"] = map[string]any{"id": 30, "url": api.url("schemas/30")}
	api.routes["POST /v1/queues"] = map[string]any{"id": 21, "url": api.url("queues/21")}
	api.routes["POST /v1/inboxes"] = map[string]any{"id": 40, "url": api.url("inboxes/40"), "email": "acme-x1@elis.rossum.ai"}

	output, err := runCommand(t, "", "queue", "create", "Invoices", "-w", "7", "-s", "/schemas/invoice.yml",
		"--email-prefix", "acme", "--hook-id", "5", "--url", api.URL, "--token", "abc")
	require.NoError(t, err)
	assert.Equal(t, "21, acme-x1@elis.rossum.ai\n", output)

	schema := api.body("POST /v1/schemas")
	assert.Equal(t, "Invoices schema", schema["name"])
	require.Len(t, schema["content"], 1)

	queue := api.body("POST /v1/queues")
	assert.Equal(t, api.url("workspaces/7"), queue["workspace"])
	assert.Equal(t, api.url("schemas/30"), queue["schema"])
	assert.Equal(t, []any{api.url("hooks/5")}, queue["hooks"])

	inbox := api.body("POST /v1/inboxes")
	assert.Equal(t, "Invoices inbox", inbox["name"])
	assert.Equal(t, []any{api.url("queues/21")}, inbox["queues"])
}
