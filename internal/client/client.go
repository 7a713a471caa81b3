// Package client implements rossum.Client on top of the HTTP transport.
package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fivetwenty-io/rossum/internal/auth"
	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/internal/retry"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

var _ rossum.Client = (*Client)(nil)

// Client implements the rossum.Client interface.
type Client struct {
	httpClient    *http.Client
	authenticator auth.Authenticator
	pages         *Paginator
	logger        rossum.Logger

	// Resource clients
	*OrganizationsClient
	*WorkspacesClient
	*UsersClient
	*QueuesClient
	*SchemasClient
	*InboxesClient
	*ConnectorsClient
	*HooksClient
	*AnnotationsClient
	*DocumentsClient
}

// New creates a client from resolved settings. No request is sent until
// the first operation.
func New(config *rossum.Config) (*Client, error) {
	if config == nil {
		return nil, rossum.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, rossum.ErrURLRequired
	}

	if config.Token == "" && config.Username == "" {
		return nil, rossum.ErrCredentialsRequired
	}

	baseURL := BaseURL(config.URL, config.SkipAPIVersion)
	httpOpts := createHTTPClientOptions(config)

	// Login and logout go through a transport without a token manager.
	authenticator := auth.New(http.NewClient(baseURL, nil, httpOpts...), auth.Credentials{
		Username:         config.Username,
		Password:         config.Password,
		Token:            config.Token,
		MaxTokenLifetime: config.MaxTokenLifetime,
	}, config.BasicAuth)

	client := NewWithAuthenticator(baseURL, authenticator, config.Logger, httpOpts...)
	client.UsersClient.password = config.Password

	return client, nil
}

// NewWithAuthenticator creates a client against an already versioned base URL.
func NewWithAuthenticator(baseURL string, authenticator auth.Authenticator, logger rossum.Logger, opts ...http.Option) *Client {
	httpClient := http.NewClient(baseURL, authenticator, opts...)

	client := &Client{
		httpClient:    httpClient,
		authenticator: authenticator,
		pages:         NewPaginator(httpClient),
		logger:        logger,
	}

	client.initializeResourceClients()

	return client
}

// BaseURL appends the API version to a service root unless skipVersion is set.
func BaseURL(rawURL string, skipVersion bool) string {
	base := strings.TrimRight(rawURL, "/")
	if !skipVersion {
		base += constants.APIVersionSuffix
	}

	return base
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *rossum.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	policy := retry.DefaultPolicy()

	if config.RetryAttempts > 0 {
		policy.MaxAttempts = config.RetryAttempts
	}

	if config.RetryWait > 0 {
		policy.Wait = config.RetryWait
	}

	if config.RetryDeadline > 0 {
		policy.Deadline = config.RetryDeadline
	}

	return append(httpOpts, http.WithRetryPolicy(policy))
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.UsersClient = NewUsersClient(c.httpClient, c.pages)
	c.OrganizationsClient = NewOrganizationsClient(c.httpClient, c.UsersClient)
	c.WorkspacesClient = NewWorkspacesClient(c.httpClient, c.pages)
	c.QueuesClient = NewQueuesClient(c.httpClient, c.pages)
	c.SchemasClient = NewSchemasClient(c.httpClient, c.pages)
	c.InboxesClient = NewInboxesClient(c.httpClient)
	c.ConnectorsClient = NewConnectorsClient(c.httpClient, c.pages)
	c.HooksClient = NewHooksClient(c.httpClient, c.pages)
	c.AnnotationsClient = NewAnnotationsClient(c.httpClient, c.pages)
	c.DocumentsClient = NewDocumentsClient(c.httpClient, nil)
}

// BaseURL implements rossum.SessionClient.BaseURL.
func (c *Client) BaseURL() string {
	return c.httpClient.BaseURL()
}

// Logout implements rossum.SessionClient.Logout.
func (c *Client) Logout(ctx context.Context) error {
	err := c.authenticator.Logout(ctx)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}

	return nil
}

// Close implements rossum.SessionClient.Close.
func (c *Client) Close(ctx context.Context) error {
	return c.Logout(ctx)
}

// Get implements rossum.RawClient.Get.
func (c *Client) Get(ctx context.Context, path string, query rossum.Query) (rossum.Record, error) {
	return getRecord(ctx, c.httpClient, path, query)
}

// Patch implements rossum.RawClient.Patch.
func (c *Client) Patch(ctx context.Context, path string, body any) (rossum.Record, error) {
	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", path, err)
	}

	return resp.Record()
}

// FetchAll implements rossum.RawClient.FetchAll.
func (c *Client) FetchAll(ctx context.Context, path string, query rossum.Query, opts rossum.ListOptions) ([]rossum.Record, int, error) {
	return c.pages.FetchAll(ctx, path, query, opts)
}

// SetMetadata implements rossum.RawClient.SetMetadata.
func (c *Client) SetMetadata(ctx context.Context, object rossum.APIObject, id int, metadata map[string]any) (rossum.Record, error) {
	return c.Patch(ctx, objectPath(object, id), map[string]any{"metadata": metadata})
}

// getRecord fetches a single object.
func getRecord(ctx context.Context, httpClient *http.Client, path string, query rossum.Query) (rossum.Record, error) {
	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", path, err)
	}

	return resp.Record()
}

// createRecord posts body and returns the created object.
func createRecord(ctx context.Context, httpClient *http.Client, object rossum.APIObject, body any) (rossum.Record, error) {
	resp, err := httpClient.Post(ctx, object.Plural, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", object.Singular, err)
	}

	return resp.Record()
}

func objectPath(object rossum.APIObject, id int) string {
	return fmt.Sprintf("%s/%d", object.Plural, id)
}

// single resolves an omitted ID to the only existing object.
func single(records []rossum.Record, label string) (rossum.Record, error) {
	if len(records) != 1 {
		return nil, rossum.NewValidationError("%s ID must be specified.", label)
	}

	return records[0], nil
}

// validate runs the input's rules and reports a failure as a ValidationError.
func validate(input validation.Validatable) error {
	err := input.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	keys := make([]string, 0, len(fieldErrs))
	for key := range fieldErrs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, key+": "+fieldErrs[key].Error())
	}

	return &rossum.ValidationError{Message: strings.Join(messages, "; ")}
}

// loggerAdapter adapts rossum.Logger to http.Logger.
type loggerAdapter struct {
	logger rossum.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
