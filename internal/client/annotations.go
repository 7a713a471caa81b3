package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// errPollPending marks a snapshot that did not satisfy the check yet.
var errPollPending = errors.New("annotation not ready")

// AnnotationsClient implements rossum.AnnotationClient.
type AnnotationsClient struct {
	httpClient *http.Client
	pages      *Paginator
}

// NewAnnotationsClient creates a new annotations client.
func NewAnnotationsClient(httpClient *http.Client, pages *Paginator) *AnnotationsClient {
	return &AnnotationsClient{
		httpClient: httpClient,
		pages:      pages,
	}
}

// GetAnnotation implements rossum.AnnotationClient.GetAnnotation.
func (c *AnnotationsClient) GetAnnotation(ctx context.Context, id int) (rossum.Record, error) {
	if id == 0 {
		return nil, rossum.NewValidationError("Annotation ID wasn't specified.")
	}

	return getRecord(ctx, c.httpClient, objectPath(rossum.Annotations, id), nil)
}

// ListAnnotations implements rossum.AnnotationClient.ListAnnotations.
func (c *AnnotationsClient) ListAnnotations(ctx context.Context, filter rossum.AnnotationFilter) ([]rossum.Record, error) {
	query := rossum.Query{}

	if filter.Queue != 0 {
		query[rossum.Queues.Singular] = strconv.Itoa(filter.Queue)
	}

	if len(filter.Status) > 0 {
		query["status"] = strings.Join(filter.Status, ",")
	}

	return c.pages.list(ctx, rossum.Annotations, query, filter.Sideloads)
}

// PollAnnotation implements rossum.AnnotationClient.PollAnnotation.
//
// The annotation is fetched right away and then every cfg.Interval, at most
// cfg.MaxRetries more times and within cfg.Budget(). On timeout the last
// snapshot is returned along with rossum.ErrPollTimeout.
func (c *AnnotationsClient) PollAnnotation(
	ctx context.Context,
	id int,
	check func(rossum.Record) bool,
	cfg rossum.PollConfig,
) (rossum.Record, error) {
	cfg = cfg.WithDefaults()
	deadline := time.Now().Add(cfg.Budget())

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.Interval), uint64(cfg.MaxRetries)),
		ctx,
	)

	var last rossum.Record

	err := backoff.Retry(func() error {
		annotation, err := c.GetAnnotation(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}

		last = annotation

		if cfg.Observer != nil {
			cfg.Observer(annotation)
		}

		if check(annotation) {
			return nil
		}

		if !time.Now().Before(deadline) {
			return backoff.Permanent(errPollPending)
		}

		return errPollPending
	}, policy)

	switch {
	case err == nil:
		return last, nil
	case errors.Is(err, errPollPending):
		return last, fmt.Errorf("polling annotation %d: %w", id, rossum.ErrPollTimeout)
	default:
		return last, err
	}
}
