package client

import (
	"context"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// QueuesClient implements the queue part of rossum.QueueClient.
type QueuesClient struct {
	httpClient *http.Client
	pages      *Paginator
}

// NewQueuesClient creates a new queues client.
func NewQueuesClient(httpClient *http.Client, pages *Paginator) *QueuesClient {
	return &QueuesClient{
		httpClient: httpClient,
		pages:      pages,
	}
}

// ListQueues implements rossum.QueueClient.ListQueues.
func (c *QueuesClient) ListQueues(ctx context.Context, filter rossum.QueueFilter, sideloads ...rossum.Sideload) ([]rossum.Record, error) {
	queues, err := c.pages.list(ctx, rossum.Queues, queueQuery(filter), nil)
	if err != nil {
		return nil, err
	}

	return c.pages.sideload(ctx, queues, sideloads)
}

func queueQuery(filter rossum.QueueFilter) rossum.Query {
	query := rossum.Query{}

	if len(filter.IDs) > 0 {
		query["id"] = joinIDs(filter.IDs)
	}

	if filter.Workspace != 0 {
		query[rossum.Workspaces.Singular] = filter.Workspace
	}

	if len(filter.Users) > 0 {
		query[rossum.Users.Plural] = filter.Users
	}

	if len(filter.Hooks) > 0 {
		query[rossum.Hooks.Plural] = filter.Hooks
	}

	return query
}

// GetQueue implements rossum.QueueClient.GetQueue.
func (c *QueuesClient) GetQueue(ctx context.Context, id int, sideloads ...rossum.Sideload) (rossum.Record, error) {
	var (
		queue rossum.Record
		err   error
	)

	if id == 0 {
		var queues []rossum.Record

		queues, err = c.ListQueues(ctx, rossum.QueueFilter{})
		if err != nil {
			return nil, err
		}

		queue, err = single(queues, "Queue")
	} else {
		queue, err = getRecord(ctx, c.httpClient, objectPath(rossum.Queues, id), nil)
	}

	if err != nil {
		return nil, err
	}

	_, err = c.pages.sideload(ctx, []rossum.Record{queue}, sideloads)
	if err != nil {
		return nil, err
	}

	return queue, nil
}

// CreateQueue implements rossum.QueueClient.CreateQueue.
func (c *QueuesClient) CreateQueue(ctx context.Context, req rossum.QueueCreate) (rossum.Record, error) {
	err := validate(req)
	if err != nil {
		return nil, err
	}

	rirURL := req.RIRURL
	if rirURL == "" {
		rirURL = rossum.DefaultRIRURL
	}

	body := map[string]any{
		"name":       req.Name,
		"workspace":  req.Workspace,
		"schema":     req.Schema,
		"rir_url":    rirURL,
		"rir_params": req.RIRParams,
	}

	if req.Connector != "" {
		body[rossum.Connectors.Singular] = req.Connector
	}

	if req.Hooks != nil {
		body[rossum.Hooks.Plural] = req.Hooks
	}

	if req.Locale != "" {
		body["locale"] = req.Locale
	}

	return createRecord(ctx, c.httpClient, rossum.Queues, body)
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}

	return strings.Join(parts, ",")
}
