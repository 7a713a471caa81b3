package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/internal/http"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// Paginator assembles list responses that span several pages.
type Paginator struct {
	httpClient *http.Client
}

// NewPaginator creates a paginator.
func NewPaginator(httpClient *http.Client) *Paginator {
	return &Paginator{httpClient: httpClient}
}

// FetchAll follows pagination.next until it is null and returns the records
// under opts.ResultKey with the total of the last page. Every list field of a
// page except pagination is appended to the assembled response, so sideloaded
// collections are gathered from all pages before they are resolved.
func (p *Paginator) FetchAll(
	ctx context.Context,
	path string,
	query rossum.Query,
	opts rossum.ListOptions,
) ([]rossum.Record, int, error) {
	resultKey := opts.ResultKey
	if resultKey == "" {
		resultKey = constants.DefaultResultKey
	}

	if len(opts.Sideloads) > 0 {
		if query.Has(rossum.SideloadParam) {
			return nil, 0, rossum.ErrSideloadSpecifiedTwice
		}

		query = query.Clone()
		for _, sideload := range opts.Sideloads {
			sideload.SetupQuery(query)
		}
	}

	response, err := p.fetchPage(ctx, path, query)
	if err != nil {
		return nil, 0, err
	}

	pagination := rossum.PaginationFrom(response)

	for pagination.Next != nil {
		page, err := p.fetchPage(ctx, *pagination.Next, nil)
		if err != nil {
			return nil, 0, err
		}

		for key, value := range page {
			if key == constants.PaginationKey {
				continue
			}

			response[key] = extend(response[key], value)
		}

		pagination = rossum.PaginationFrom(page)
	}

	if len(opts.Sideloads) > 0 {
		resolveSideloads(response, opts.Sideloads)
	}

	return response.Records(resultKey), pagination.Total, nil
}

func (p *Paginator) fetchPage(ctx context.Context, path string, query rossum.Query) (rossum.Record, error) {
	resp, err := p.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	page, err := resp.Record()
	if err != nil {
		return nil, err
	}

	return page, nil
}

// list fetches every object of a collection.
func (p *Paginator) list(ctx context.Context, object rossum.APIObject, query rossum.Query, sideloads []rossum.Sideload) ([]rossum.Record, error) {
	records, _, err := p.FetchAll(ctx, object.Plural, query, rossum.ListOptions{Sideloads: sideloads})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// extend appends the items of a page's list field to the accumulated one.
// Fields that are not lists keep their first page value.
func extend(current, next any) any {
	items, ok := next.([]any)
	if !ok {
		if current == nil {
			return next
		}

		return current
	}

	existing, _ := current.([]any)

	return append(existing, items...)
}
