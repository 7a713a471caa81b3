package client

import (
	"context"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// resolveSideloads replaces references in response's results with the
// sideloaded objects listed next to them.
//
// A parent holding the singular field gets the referenced object, or an empty
// record when it was not sideloaded. A parent holding the plural field gets
// the list of referenced objects, unmatched references dropped. Values that
// are no longer references are kept, so resolving twice changes nothing.
func resolveSideloads(response rossum.Record, sideloads []rossum.Sideload) {
	results := response.Records(constants.DefaultResultKey)

	for _, sideload := range sideloads {
		mapping := sideload.Mapping(response.Records(sideload.Plural()))

		for _, obj := range results {
			inject(obj, sideload, mapping)
		}
	}
}

func inject(obj rossum.Record, sideload rossum.Sideload, mapping rossum.SideloadMapping) {
	if value, ok := obj[sideload.Singular()]; ok {
		ref, isRef := value.(string)
		if !isRef {
			return
		}

		if related, found := mapping[ref]; found {
			obj[sideload.Singular()] = related
		} else {
			obj[sideload.Singular()] = rossum.Record{}
		}

		return
	}

	var refs []any

	switch values := obj[sideload.Plural()].(type) {
	case []any:
		refs = values
	case []string:
		for _, value := range values {
			refs = append(refs, value)
		}
	default:
		return
	}

	resolved := make([]any, 0, len(refs))

	for _, value := range refs {
		ref, isRef := value.(string)
		if !isRef {
			resolved = append(resolved, value)

			continue
		}

		if related, found := mapping[ref]; found {
			resolved = append(resolved, related)
		}
	}

	obj[sideload.Plural()] = resolved
}

// sideload fetches each related collection in full and resolves it into
// records. It is used where the list endpoint cannot sideload by itself.
func (p *Paginator) sideload(ctx context.Context, records []rossum.Record, sideloads []rossum.Sideload) ([]rossum.Record, error) {
	if len(sideloads) == 0 {
		return records, nil
	}

	results := make([]any, 0, len(records))
	for _, record := range records {
		results = append(results, map[string]any(record))
	}

	response := rossum.Record{constants.DefaultResultKey: results}

	for _, sideload := range sideloads {
		related, _, err := p.FetchAll(ctx, sideload.Plural(), nil, rossum.ListOptions{})
		if err != nil {
			return nil, err
		}

		items := make([]any, 0, len(related))
		for _, obj := range related {
			items = append(items, map[string]any(obj))
		}

		response[sideload.Plural()] = items
	}

	resolveSideloads(response, sideloads)

	return records, nil
}
