package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// OrganizationsClient implements the organization part of rossum.OrganizationClient.
type OrganizationsClient struct {
	httpClient *http.Client
	users      *UsersClient
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *http.Client, users *UsersClient) *OrganizationsClient {
	return &OrganizationsClient{
		httpClient: httpClient,
		users:      users,
	}
}

// GetOrganization implements rossum.OrganizationClient.GetOrganization.
// Without an id the organization of the logged in user is returned.
func (c *OrganizationsClient) GetOrganization(ctx context.Context, id int) (rossum.Record, error) {
	if id != 0 {
		return getRecord(ctx, c.httpClient, objectPath(rossum.Organizations, id), nil)
	}

	user, err := c.users.GetUser(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	organizationURL := user.String(rossum.Organizations.Singular)
	if !user.Has(rossum.Organizations.Singular) {
		// auth/user may omit the organization; the full user object has it.
		full, err := getRecord(ctx, c.httpClient, user.URL(), nil)
		if err != nil {
			return nil, err
		}

		organizationURL = full.String(rossum.Organizations.Singular)
	}

	if organizationURL == "" {
		return nil, fmt.Errorf("%w: %s", rossum.ErrNoOrganization, user.URL())
	}

	return getRecord(ctx, c.httpClient, organizationURL, nil)
}
