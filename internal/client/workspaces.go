package client

import (
	"context"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// WorkspacesClient implements the workspace part of rossum.OrganizationClient.
type WorkspacesClient struct {
	httpClient *http.Client
	pages      *Paginator
}

// NewWorkspacesClient creates a new workspaces client.
func NewWorkspacesClient(httpClient *http.Client, pages *Paginator) *WorkspacesClient {
	return &WorkspacesClient{
		httpClient: httpClient,
		pages:      pages,
	}
}

// ListWorkspaces implements rossum.OrganizationClient.ListWorkspaces.
func (c *WorkspacesClient) ListWorkspaces(ctx context.Context, organization int, sideloads ...rossum.Sideload) ([]rossum.Record, error) {
	query := rossum.Query{}
	if organization != 0 {
		query[rossum.Organizations.Singular] = organization
	}

	workspaces, err := c.pages.list(ctx, rossum.Workspaces, query, nil)
	if err != nil {
		return nil, err
	}

	return c.pages.sideload(ctx, workspaces, sideloads)
}

// GetWorkspace implements rossum.OrganizationClient.GetWorkspace.
func (c *WorkspacesClient) GetWorkspace(ctx context.Context, id int, sideloads ...rossum.Sideload) (rossum.Record, error) {
	var (
		workspace rossum.Record
		err       error
	)

	if id == 0 {
		var workspaces []rossum.Record

		workspaces, err = c.ListWorkspaces(ctx, 0)
		if err != nil {
			return nil, err
		}

		workspace, err = single(workspaces, "Workspace")
	} else {
		workspace, err = getRecord(ctx, c.httpClient, objectPath(rossum.Workspaces, id), nil)
	}

	if err != nil {
		return nil, err
	}

	_, err = c.pages.sideload(ctx, []rossum.Record{workspace}, sideloads)
	if err != nil {
		return nil, err
	}

	return workspace, nil
}

// CreateWorkspace implements rossum.OrganizationClient.CreateWorkspace.
func (c *WorkspacesClient) CreateWorkspace(ctx context.Context, req rossum.WorkspaceCreate) (rossum.Record, error) {
	err := validate(req)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":         req.Name,
		"organization": req.Organization,
	}

	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	return createRecord(ctx, c.httpClient, rossum.Workspaces, body)
}
