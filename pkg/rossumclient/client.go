package rossumclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/fivetwenty-io/rossum/internal/client"
	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// New creates a new Rossum API client. An empty URL targets the public API
// and a URL without scheme is assumed to be https.
func New(config *rossum.Config) (rossum.Client, error) {
	if config == nil {
		return nil, rossum.ErrConfigRequired
	}

	config.URL = normalizeURL(config.URL)

	c, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

func normalizeURL(rawURL string) string {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return constants.DefaultAPIURL
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	return url
}

// NewWithToken creates a new client from an already issued session token.
func NewWithToken(url, token string) (rossum.Client, error) {
	return New(&rossum.Config{
		URL:   url,
		Token: token,
	})
}

// NewWithPassword creates a new client that logs in with username and
// password on its first request.
func NewWithPassword(url, username, password string) (rossum.Client, error) {
	return New(&rossum.Config{
		URL:      url,
		Username: username,
		Password: password,
	})
}

// NewWithBasicAuth creates a new client sending HTTP basic credentials with
// every request.
func NewWithBasicAuth(url, username, password string) (rossum.Client, error) {
	return New(&rossum.Config{
		URL:       url,
		Username:  username,
		Password:  password,
		BasicAuth: true,
	})
}

// Run creates a client, passes it to fn and closes it when fn returns, even
// on failure. A failed close is reported together with fn's error.
func Run(ctx context.Context, config *rossum.Config, fn func(rossum.Client) error) error {
	c, err := New(config)
	if err != nil {
		return err
	}

	var result *multierror.Error

	defer func() {
		if r := recover(); r != nil {
			_ = c.Close(ctx)

			panic(r)
		}
	}()

	err = fn(c)
	if err != nil {
		result = multierror.Append(result, err)
	}

	err = c.Close(ctx)
	if err != nil {
		result = multierror.Append(result, err)
	}

	return unwrapSingle(result)
}

// unwrapSingle returns the only error of result as is.
func unwrapSingle(result *multierror.Error) error {
	if result == nil {
		return nil
	}

	if len(result.Errors) == 1 {
		return result.Errors[0]
	}

	return result
}
