package rossum

import (
	"fmt"
	"strings"
)

// Query parameters used by sideloading.
const (
	SideloadParam        = "sideload"
	ContentSchemaIDParam = "content.schema_id"
)

// SideloadMapping maps a Resource Reference to the related object(s) it
// resolves to. Plain sideloads store a Record, content sideloads a []Record.
type SideloadMapping map[string]any

// Sideload describes a related object type that is fetched in bulk and
// spliced into parent records by URL.
type Sideload interface {
	// Plural is the key of the related collection in a response.
	Plural() string
	// Singular is the field name used by parents holding a single reference.
	Singular() string
	// SetupQuery adds the parameters requesting this sideload to query.
	SetupQuery(query Query)
	// Mapping indexes fetched related objects by the reference parents use.
	Mapping(objects []Record) SideloadMapping
}

// PlainSideload is a sideload resolved by each object's own url.
type PlainSideload struct {
	plural   string
	singular string
}

// NewSideload creates a sideload whose singular name is the plural name with
// trailing "s" characters stripped.
func NewSideload(plural string) PlainSideload {
	return PlainSideload{plural: plural, singular: strings.TrimRight(plural, "s")}
}

// NewSideloadAs creates a sideload with an explicit singular name.
func NewSideloadAs(plural, singular string) PlainSideload {
	return PlainSideload{plural: plural, singular: singular}
}

// Plural implements Sideload.
func (s PlainSideload) Plural() string { return s.plural }

// Singular implements Sideload.
func (s PlainSideload) Singular() string { return s.singular }

// String returns the plural name, as used on the wire.
func (s PlainSideload) String() string { return s.plural }

// SetupQuery implements Sideload.
func (s PlainSideload) SetupQuery(query Query) {
	query[SideloadParam] = appendListParam(query[SideloadParam], s.plural)
}

// Mapping implements Sideload. A duplicated url keeps the last object seen.
func (s PlainSideload) Mapping(objects []Record) SideloadMapping {
	mapping := make(SideloadMapping, len(objects))
	for _, obj := range objects {
		mapping[obj.URL()] = obj
	}

	return mapping
}

// ContentSideload loads annotation content restricted to selected schema IDs.
// Datapoints are grouped under their parent content url.
type ContentSideload struct {
	PlainSideload

	schemaIDs []string
}

// Content is the content sideload without any schema ID selected.
var Content = ContentSideload{PlainSideload: NewSideload("content")}

// WithSchemaIDs returns a copy of the sideload selecting the given schema IDs.
func (s ContentSideload) WithSchemaIDs(schemaIDs ...string) ContentSideload {
	return ContentSideload{
		PlainSideload: s.PlainSideload,
		schemaIDs:     append([]string(nil), schemaIDs...),
	}
}

// SchemaIDs returns the selected schema IDs.
func (s ContentSideload) SchemaIDs() []string {
	return append([]string(nil), s.schemaIDs...)
}

// SetupQuery implements Sideload. Without schema IDs it leaves query unchanged.
func (s ContentSideload) SetupQuery(query Query) {
	if len(s.schemaIDs) == 0 {
		return
	}

	s.PlainSideload.SetupQuery(query)
	query[ContentSchemaIDParam] = appendListParam(query[ContentSchemaIDParam], s.schemaIDs...)
}

// Mapping implements Sideload.
func (s ContentSideload) Mapping(objects []Record) SideloadMapping {
	grouped := make(map[string][]Record)

	var order []string

	for _, obj := range objects {
		parent := parentReference(obj.URL())
		if _, seen := grouped[parent]; !seen {
			order = append(order, parent)
		}

		grouped[parent] = append(grouped[parent], obj)
	}

	mapping := make(SideloadMapping, len(grouped))
	for _, parent := range order {
		mapping[parent] = grouped[parent]
	}

	return mapping
}

// parentReference drops the last path segment of a reference.
func parentReference(ref string) string {
	idx := strings.LastIndex(ref, "/")
	if idx < 0 {
		return ref
	}

	return ref[:idx]
}

// parseListParam splits a comma separated parameter, dropping blank items.
func parseListParam(value any) []string {
	var raw []string

	switch typed := value.(type) {
	case string:
		raw = strings.Split(typed, ",")
	case []string:
		for _, item := range typed {
			raw = append(raw, strings.Split(item, ",")...)
		}
	}

	items := make([]string, 0, len(raw))

	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

func appendListParam(current any, values ...string) string {
	items := parseListParam(current)

	for _, value := range values {
		if !contains(items, value) {
			items = append(items, value)
		}
	}

	return strings.Join(items, ",")
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}

	return false
}

// ToSideloads converts API objects, sideloads and plural names to sideloads.
func ToSideloads(items ...any) ([]Sideload, error) {
	sideloads := make([]Sideload, 0, len(items))

	for _, item := range items {
		switch typed := item.(type) {
		case Sideload:
			sideloads = append(sideloads, typed)
		case APIObject:
			sideloads = append(sideloads, typed.Sideload())
		case string:
			sideloads = append(sideloads, NewSideload(typed))
		default:
			return nil, fmt.Errorf("%w: %T", ErrInvalidSideload, item)
		}
	}

	return sideloads, nil
}
