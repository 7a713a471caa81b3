package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
	"github.com/fivetwenty-io/rossum/pkg/rossumclient"
)

// Common string constants used throughout the commands package.
const (
	OutputFormatJSON  = constants.FormatJSON
	OutputFormatYAML  = constants.FormatYAML
	OutputFormatTable = constants.FormatTable

	Yes = "yes"
)

// Common static errors used throughout the commands package.
var (
	ErrInvalidKeyValue   = errors.New("invalid key/value pair")
	ErrInvalidID         = errors.New("invalid ID")
	ErrNoAnnotationFound = errors.New("no annotation in upload response")
)

// column renders one table column of a record.
type column struct {
	Header string
	Value  func(rossum.Record) string
}

// field is a column showing a top level field as is.
func field(name string) column {
	return column{Header: name, Value: func(record rossum.Record) string { return display(record[name]) }}
}

// withClient runs fn with a client built from the resolved profile and closes
// the client on every exit path.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client rossum.Client) error) error {
	config, err := clientConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return rossumclient.Run(ctx, config, func(client rossum.Client) error {
		return fn(ctx, client)
	})
}

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	output := viper.GetString("output")

	switch output {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatTable:
		return output, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, output)
	}
}

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](out io.Writer, data T) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](out io.Writer, data T) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderRecords writes records in the selected output format. Tables show
// the given columns, one row per record.
func renderRecords(cmd *cobra.Command, records []rossum.Record, columns []column, empty string) error {
	output, err := outputFormat()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(out, records)
	case OutputFormatYAML:
		return StandardYAMLRenderer(out, records)
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(out, empty)

		return nil
	}

	headers := make([]any, 0, len(columns))
	for _, col := range columns {
		headers = append(headers, col.Header)
	}

	table := tablewriter.NewWriter(out)
	table.Header(headers...)

	for _, record := range records {
		row := make([]any, 0, len(columns))
		for _, col := range columns {
			row = append(row, col.Value(record))
		}

		_ = table.Append(row...)
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRecord writes a single record. Tables list its fields as properties.
func renderRecord(cmd *cobra.Command, record rossum.Record) error {
	output, err := outputFormat()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(out, record)
	case OutputFormatYAML:
		return StandardYAMLRenderer(out, record)
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, key := range keys {
		_ = table.Append(key, display(record[key]))
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// display formats a decoded JSON value for a table cell.
func display(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, display(item))
		}

		return strings.Join(items, ", ")
	case []rossum.Record:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, display(item))
		}

		return strings.Join(items, ", ")
	case rossum.Record:
		return display(map[string]any(typed))
	case map[string]any:
		if id, ok := typed["id"]; ok {
			return display(id)
		}

		encoded, err := json.Marshal(typed)
		if err != nil {
			return constants.NotAvailable
		}

		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}

// idsOf renders the ids of resolved objects, or the ids at the end of
// unresolved references.
func idsOf(value any) string {
	var ids []string

	switch typed := value.(type) {
	case []any:
		for _, item := range typed {
			if record, ok := rossum.AsRecord(item); ok {
				ids = append(ids, strconv.Itoa(record.ID()))
			} else if ref, ok := item.(string); ok {
				ids = append(ids, idFromURL(ref))
			}
		}
	case []rossum.Record:
		for _, record := range typed {
			ids = append(ids, strconv.Itoa(record.ID()))
		}
	}

	return strings.Join(ids, ", ")
}

// idFromURL returns the last path segment of a Resource Reference.
func idFromURL(ref string) string {
	ref = strings.TrimRight(ref, "/")

	idx := strings.LastIndex(ref, "/")
	if idx < 0 {
		return ref
	}

	return ref[idx+1:]
}

// parseKeyValues turns KEY=VALUE arguments into a map.
func parseKeyValues(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil //nolint:nilnil // no values given
	}

	values := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q, expected KEY=VALUE", ErrInvalidKeyValue, pair)
		}

		values[key] = value
	}

	return values, nil
}

// confirm asks the user before a destructive action unless assumeYes is set.
func confirm(cmd *cobra.Command, prompt string, assumeYes bool) error {
	if assumeYes {
		return nil
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return constants.ErrDeleteNotConfirmed
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != Yes {
		return constants.ErrDeleteNotConfirmed
	}

	return nil
}

// verbosity returns the number of -v flags given.
func verbosity() int {
	return viper.GetInt("verbose")
}

// stdinFile returns the command's input when it is a file, e.g. a terminal.
func stdinFile(cmd *cobra.Command) (*os.File, bool) {
	file, ok := cmd.InOrStdin().(*os.File)

	return file, ok
}
