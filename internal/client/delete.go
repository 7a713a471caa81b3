package client

import (
	"context"
	"fmt"
	"io"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// Delete implements rossum.RawClient.Delete.
//
// Targets are deleted one by one. A target the API refuses is reported and
// skipped. Any other failure is reported and ends the batch with an error
// wrapping rossum.ErrUnexpectedDeleteError.
func (c *Client) Delete(ctx context.Context, targets []rossum.DeleteTarget, opts rossum.DeleteOptions) error {
	item := opts.Item
	if item == "" {
		item = rossum.DefaultDeleteItemLabel
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, target := range targets {
		_, err := c.httpClient.Delete(ctx, target.URL)

		switch {
		case err == nil:
			if opts.Verbose > 1 {
				_, _ = fmt.Fprintf(out, "Deleted %s %s.\n", item, target.ID)
			}
		case rossum.IsAPIError(err):
			_, _ = fmt.Fprintf(out, "Deleting %s %s caused \"%s\".\n", item, target.ID, err)
			c.warn("delete refused", item, target, err)
		default:
			_, _ = fmt.Fprintf(out, "Deleting %s %s caused an unexpected exception: \"%s\".\n", item, target.ID, err)
			c.warn("delete aborted", item, target, err)

			return fmt.Errorf("%w: deleting %s %s: %w", rossum.ErrUnexpectedDeleteError, item, target.ID, err)
		}
	}

	return nil
}

func (c *Client) warn(msg, item string, target rossum.DeleteTarget, err error) {
	if c.logger == nil {
		return
	}

	c.logger.Warn(msg, map[string]interface{}{
		"item":  item,
		"id":    target.ID,
		"url":   target.URL,
		"error": err.Error(),
	})
}
