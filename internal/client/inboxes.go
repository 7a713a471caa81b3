package client

import (
	"context"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// InboxesClient implements the inbox part of rossum.QueueClient.
type InboxesClient struct {
	httpClient *http.Client
}

// NewInboxesClient creates a new inboxes client.
func NewInboxesClient(httpClient *http.Client) *InboxesClient {
	return &InboxesClient{httpClient: httpClient}
}

// CreateInbox implements rossum.QueueClient.CreateInbox.
func (c *InboxesClient) CreateInbox(ctx context.Context, req rossum.InboxCreate) (rossum.Record, error) {
	err := validate(req)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":                             req.Name,
		"email_prefix":                     nullable(req.EmailPrefix),
		"bounce_email_to":                  nullable(req.BounceEmail),
		"bounce_unprocessable_attachments": req.BounceEmail != "",
		"queues":                           []string{req.Queue},
	}

	if req.Email != "" {
		body["email"] = req.Email
	}

	return createRecord(ctx, c.httpClient, rossum.Inboxes, body)
}

// nullable sends an empty string as JSON null.
func nullable(value string) any {
	if value == "" {
		return nil
	}

	return value
}
