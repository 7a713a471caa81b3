package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// HooksClient implements the hook part of rossum.QueueClient.
type HooksClient struct {
	httpClient *http.Client
	pages      *Paginator
}

// NewHooksClient creates a new hooks client.
func NewHooksClient(httpClient *http.Client, pages *Paginator) *HooksClient {
	return &HooksClient{
		httpClient: httpClient,
		pages:      pages,
	}
}

// ListHooks implements rossum.QueueClient.ListHooks.
func (c *HooksClient) ListHooks(ctx context.Context, query rossum.Query, sideloads ...rossum.Sideload) ([]rossum.Record, error) {
	hooks, err := c.pages.list(ctx, rossum.Hooks, query, nil)
	if err != nil {
		return nil, err
	}

	return c.pages.sideload(ctx, hooks, sideloads)
}

// CreateHook implements rossum.QueueClient.CreateHook.
func (c *HooksClient) CreateHook(ctx context.Context, req rossum.HookCreate) (rossum.Record, error) {
	err := validate(req)
	if err != nil {
		return nil, err
	}

	return createRecord(ctx, c.httpClient, rossum.Hooks, hookBody(req))
}

func hookBody(req rossum.HookCreate) map[string]any {
	body := map[string]any{
		"name":      req.Name,
		"type":      req.Type,
		"queues":    req.Queues,
		"active":    req.Active,
		"events":    req.Events,
		"sideload":  orEmpty(req.Sideload),
		"config":    req.Config,
		"metadata":  orEmptyMap(req.Metadata),
		"run_after": orEmpty(req.RunAfter),
		"test":      orEmptyMap(req.Test),
	}

	if req.TokenOwner != "" {
		body["token_owner"] = req.TokenOwner
	}

	for key, value := range req.Extra {
		body[key] = value
	}

	return body
}

// UpdateHook implements rossum.QueueClient.UpdateHook.
func (c *HooksClient) UpdateHook(ctx context.Context, id int, changes rossum.Record) (rossum.Record, error) {
	resp, err := c.httpClient.Patch(ctx, objectPath(rossum.Hooks, id), changes)
	if err != nil {
		return nil, fmt.Errorf("updating hook %d: %w", id, err)
	}

	return resp.Record()
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}

func orEmptyMap(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}

	return values
}
