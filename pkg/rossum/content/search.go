// Package content searches annotation content trees, as returned by the
// content sideload or sent in hook payloads.
//
// A content tree is a list of sections. Sections hold datapoints and
// multivalues in "children"; a line item table is a multivalue whose
// children are tuples of datapoints.
package content

import (
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// FindSingleDatapoint returns the first section child with schemaID, or nil.
func FindSingleDatapoint(tree []any, schemaID string) (rossum.Record, error) {
	return searchRecord(fmt.Sprintf("[*].children[?schema_id==%s][] | [0]", literal(schemaID)), tree)
}

// FindMultivalueParent returns the multivalue with schemaID, or nil.
func FindMultivalueParent(tree []any, schemaID string) (rossum.Record, error) {
	return FindSingleDatapoint(tree, schemaID)
}

// FindChildrenOfSimpleMultivalue returns the datapoints with childSchemaID
// held directly by section level multivalues.
func FindChildrenOfSimpleMultivalue(tree []any, childSchemaID string) ([]rossum.Record, error) {
	return searchRecords(fmt.Sprintf("[*].children[].children[?schema_id==%s][]", literal(childSchemaID)), tree)
}

// FindAllLineItemsDatapoints returns every datapoint of every table row.
func FindAllLineItemsDatapoints(tree []any) ([]rossum.Record, error) {
	return searchRecords("[].children[].children[].children[]", tree)
}

// FindLineItemsColumn returns the cells of column schemaID across all rows.
func FindLineItemsColumn(tree []any, schemaID string) ([]rossum.Record, error) {
	return searchRecords(fmt.Sprintf("[].children[].children[].children[?schema_id==%s][]", literal(schemaID)), tree)
}

// FindLineItemsRows returns the rows of the table with schemaID.
func FindLineItemsRows(tree []any, schemaID string) ([]rossum.Record, error) {
	return searchRecords(fmt.Sprintf("[].children[?schema_id==%s][] | [0] | children[]", literal(schemaID)), tree)
}

// Tree converts sideloaded content records into a searchable tree.
func Tree(records []rossum.Record) []any {
	tree := make([]any, 0, len(records))
	for _, record := range records {
		tree = append(tree, plain(record))
	}

	return tree
}

// literal quotes value as a JMESPath raw string literal.
func literal(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `\'`) + "'"
}

func search(expression string, tree []any) (any, error) {
	result, err := jmespath.Search(expression, plain(tree))
	if err != nil {
		return nil, fmt.Errorf("searching content with %q: %w", expression, err)
	}

	return result, nil
}

func searchRecord(expression string, tree []any) (rossum.Record, error) {
	result, err := search(expression, tree)
	if err != nil {
		return nil, err
	}

	record, _ := rossum.AsRecord(result)

	return record, nil
}

func searchRecords(expression string, tree []any) ([]rossum.Record, error) {
	result, err := search(expression, tree)
	if err != nil {
		return nil, err
	}

	return rossum.AsRecords(result), nil
}

// plain rewrites Records into the map and slice types the JMESPath
// interpreter walks.
func plain(value any) any {
	switch typed := value.(type) {
	case rossum.Record:
		return plain(map[string]any(typed))
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = plain(item)
		}

		return out
	case []rossum.Record:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, plain(item))
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, plain(item))
		}

		return out
	default:
		return value
	}
}
