package rossum

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Record is a single object as returned by the API. Fields the client relies on
// are read through the accessors below; everything else is passed through
// untouched to the caller.
type Record map[string]any

// Has reports whether the field is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]

	return ok
}

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(key string) string {
	value, _ := r[key].(string)

	return value
}

// Int returns the field as an int. JSON numbers decode as float64.
func (r Record) Int(key string) int {
	switch value := r[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	case int64:
		return int(value)
	case string:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}

		return parsed
	default:
		return 0
	}
}

// ID returns the numeric object identifier.
func (r Record) ID() int {
	return r.Int("id")
}

// URL returns the object's own Resource Reference.
func (r Record) URL() string {
	return r.String("url")
}

// Status returns the "status" field.
func (r Record) Status() string {
	return r.String("status")
}

// Strings returns the string members of a list field.
func (r Record) Strings(key string) []string {
	var out []string

	switch values := r[key].(type) {
	case []string:
		out = append(out, values...)
	case []any:
		for _, value := range values {
			if s, ok := value.(string); ok {
				out = append(out, s)
			}
		}
	}

	return out
}

// Record returns a nested object field.
func (r Record) Record(key string) (Record, bool) {
	return AsRecord(r[key])
}

// Records returns the object members of a list field.
func (r Record) Records(key string) []Record {
	return AsRecords(r[key])
}

// AsRecord converts a decoded JSON object into a Record.
func AsRecord(value any) (Record, bool) {
	switch typed := value.(type) {
	case Record:
		return typed, true
	case map[string]any:
		return Record(typed), true
	default:
		return nil, false
	}
}

// AsRecords converts a decoded JSON list into Records, skipping non-objects.
func AsRecords(value any) []Record {
	var out []Record

	switch values := value.(type) {
	case []Record:
		out = append(out, values...)
	case []any:
		for _, value := range values {
			if rec, ok := AsRecord(value); ok {
				out = append(out, rec)
			}
		}
	}

	return out
}

// Decode copies a Record into a typed view such as Queue or Hook.
func Decode(record Record, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(map[string]any(record))
	if err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	return nil
}

// Query holds request query parameters. Values may be strings, booleans,
// integers or slices of those; the transport encodes them for the wire.
type Query map[string]any

// Clone returns a shallow copy so callers' maps are never mutated.
func (q Query) Clone() Query {
	out := make(Query, len(q))
	for key, value := range q {
		out[key] = value
	}

	return out
}

// Has reports whether the parameter is set.
func (q Query) Has(key string) bool {
	_, ok := q[key]

	return ok
}

// Pagination is the pagination block of a list response.
type Pagination struct {
	Next     *string `json:"next"     yaml:"next"`
	Previous *string `json:"previous" yaml:"previous"`
	Total    int     `json:"total"    yaml:"total"`
}

// PaginationFrom extracts the pagination block of a decoded page.
func PaginationFrom(page Record) Pagination {
	var pagination Pagination

	block, ok := page.Record("pagination")
	if !ok {
		return pagination
	}

	if next := block.String("next"); next != "" {
		pagination.Next = &next
	}

	if previous := block.String("previous"); previous != "" {
		pagination.Previous = &previous
	}

	pagination.Total = block.Int("total")

	return pagination
}
