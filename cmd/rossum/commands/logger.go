package commands

import (
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// hclogAdapter adapts an hclog.Logger to rossum.Logger.
type hclogAdapter struct {
	logger hclog.Logger
}

var _ rossum.Logger = (*hclogAdapter)(nil)

// newLogger creates the CLI logger. Warnings are always shown, -v adds info
// and --debug adds debug messages with HTTP traffic.
func newLogger(out io.Writer, verbose int, debug bool) *hclogAdapter {
	level := hclog.Warn

	switch {
	case debug:
		level = hclog.Debug
	case verbose > 0:
		level = hclog.Info
	}

	return &hclogAdapter{logger: hclog.New(&hclog.LoggerOptions{
		Name:   "rossum",
		Level:  level,
		Output: out,
	})}
}

func (a *hclogAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug(msg, pairs(fields)...)
}

func (a *hclogAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info(msg, pairs(fields)...)
}

func (a *hclogAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn(msg, pairs(fields)...)
}

func (a *hclogAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error(msg, pairs(fields)...)
}

// pairs flattens fields into hclog's alternating key/value form, sorted by key.
func pairs(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, 2*len(keys))
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}
