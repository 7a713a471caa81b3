package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/rossum/internal/constants"
	rossumhttp "github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// UsersClient implements the user part of rossum.OrganizationClient.
type UsersClient struct {
	httpClient *rossumhttp.Client
	pages      *Paginator
	// password is the current password, needed to change it.
	password string
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *rossumhttp.Client, pages *Paginator) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
		pages:      pages,
	}
}

// ListUsers implements rossum.OrganizationClient.ListUsers.
func (c *UsersClient) ListUsers(ctx context.Context, filter rossum.UserFilter, sideloads ...rossum.Sideload) ([]rossum.Record, error) {
	query := rossum.Query{}

	if filter.Username != "" {
		query["username"] = filter.Username
	}

	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}

	users, err := c.pages.list(ctx, rossum.Users, query, nil)
	if err != nil {
		return nil, err
	}

	return c.pages.sideload(ctx, users, sideloads)
}

// GetUser implements rossum.OrganizationClient.GetUser. Without an id the
// logged in user is returned.
func (c *UsersClient) GetUser(ctx context.Context, id int) (rossum.Record, error) {
	if id == 0 {
		return getRecord(ctx, c.httpClient, constants.CurrentUserPath, nil)
	}

	return getRecord(ctx, c.httpClient, objectPath(rossum.Users, id), nil)
}

// CreateUser implements rossum.OrganizationClient.CreateUser.
func (c *UsersClient) CreateUser(ctx context.Context, req rossum.UserCreate) (rossum.Record, error) {
	if req.Group == "" {
		req.Group = rossum.DefaultUserGroup
	}

	if req.Locale == "" {
		req.Locale = rossum.DefaultUserLocale
	}

	err := validate(req)
	if err != nil {
		return nil, err
	}

	groups, err := c.ListGroups(ctx, req.Group)
	if err != nil {
		return nil, err
	}

	groupURLs := make([]string, 0, len(groups))
	for _, group := range groups {
		groupURLs = append(groupURLs, group.URL())
	}

	queues := req.Queues
	if queues == nil {
		queues = []string{}
	}

	return createRecord(ctx, c.httpClient, rossum.Users, map[string]any{
		"username":     req.Username,
		"email":        req.Username,
		"organization": req.Organization,
		"password":     req.Password,
		"groups":       groupURLs,
		"queues":       queues,
		"ui_settings":  map[string]any{"locale": req.Locale},
	})
}

// ListGroups implements rossum.OrganizationClient.ListGroups. An empty name
// matches nothing.
func (c *UsersClient) ListGroups(ctx context.Context, name string) ([]rossum.Record, error) {
	if name == "" {
		return []rossum.Record{}, nil
	}

	return c.pages.list(ctx, rossum.Groups, rossum.Query{"name": name}, nil)
}

// ChangePassword implements rossum.OrganizationClient.ChangePassword.
func (c *UsersClient) ChangePassword(ctx context.Context, newPassword string) (rossum.Record, error) {
	return c.postAuth(ctx, constants.PasswordChangePath, map[string]any{
		"new_password1": newPassword,
		"new_password2": newPassword,
		"old_password":  c.password,
	})
}

// ResetPassword implements rossum.OrganizationClient.ResetPassword.
func (c *UsersClient) ResetPassword(ctx context.Context, email string) (rossum.Record, error) {
	return c.postAuth(ctx, constants.PasswordResetPath, map[string]any{"email": email})
}

func (c *UsersClient) postAuth(ctx context.Context, path string, body map[string]any) (rossum.Record, error) {
	resp, err := c.httpClient.Do(ctx, &rossumhttp.Request{
		Method:         http.MethodPost,
		Path:           path,
		Body:           body,
		ExpectedStatus: http.StatusOK,
	})
	if err != nil {
		return nil, fmt.Errorf("posting %s: %w", path, err)
	}

	return resp.Record()
}
