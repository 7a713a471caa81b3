package client

import (
	"context"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// ConnectorsClient implements the connector part of rossum.QueueClient.
type ConnectorsClient struct {
	httpClient *http.Client
	pages      *Paginator
}

// NewConnectorsClient creates a new connectors client.
func NewConnectorsClient(httpClient *http.Client, pages *Paginator) *ConnectorsClient {
	return &ConnectorsClient{
		httpClient: httpClient,
		pages:      pages,
	}
}

// ListConnectors implements rossum.QueueClient.ListConnectors.
func (c *ConnectorsClient) ListConnectors(ctx context.Context, sideloads ...rossum.Sideload) ([]rossum.Record, error) {
	connectors, err := c.pages.list(ctx, rossum.Connectors, nil, nil)
	if err != nil {
		return nil, err
	}

	return c.pages.sideload(ctx, connectors, sideloads)
}

// CreateConnector implements rossum.QueueClient.CreateConnector.
func (c *ConnectorsClient) CreateConnector(ctx context.Context, req rossum.ConnectorCreate) (rossum.Record, error) {
	err := validate(req)
	if err != nil {
		return nil, err
	}

	return createRecord(ctx, c.httpClient, rossum.Connectors, map[string]any{
		"name":                req.Name,
		"queues":              req.Queues,
		"service_url":         req.ServiceURL,
		"authorization_token": nullable(req.AuthorizationToken),
		"params":              nullable(req.Params),
		"asynchronous":        req.Asynchronous,
	})
}
