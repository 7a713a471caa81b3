package client

import (
	"context"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// SchemasClient implements the schema part of rossum.QueueClient.
type SchemasClient struct {
	httpClient *http.Client
	pages      *Paginator
}

// NewSchemasClient creates a new schemas client.
func NewSchemasClient(httpClient *http.Client, pages *Paginator) *SchemasClient {
	return &SchemasClient{
		httpClient: httpClient,
		pages:      pages,
	}
}

// ListSchemas implements rossum.QueueClient.ListSchemas.
func (c *SchemasClient) ListSchemas(ctx context.Context, sideloads ...rossum.Sideload) ([]rossum.Record, error) {
	schemas, err := c.pages.list(ctx, rossum.Schemas, nil, nil)
	if err != nil {
		return nil, err
	}

	return c.pages.sideload(ctx, schemas, sideloads)
}

// CreateSchema implements rossum.QueueClient.CreateSchema.
func (c *SchemasClient) CreateSchema(ctx context.Context, name string, content []any) (rossum.Record, error) {
	if name == "" {
		return nil, rossum.NewValidationError("name: cannot be blank")
	}

	if content == nil {
		content = []any{}
	}

	return createRecord(ctx, c.httpClient, rossum.Schemas, map[string]any{
		"name":    name,
		"content": content,
	})
}
