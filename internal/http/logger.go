package http

import "fmt"

// retryLogAdapter feeds retryablehttp's leveled log calls into Logger. Failed
// attempts are reported as warnings; per attempt chatter is dropped.
type retryLogAdapter struct {
	logger Logger
}

func (a *retryLogAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, fields(keysAndValues))
}

func (a *retryLogAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, fields(keysAndValues))
}

func (a *retryLogAdapter) Info(string, ...interface{}) {}

func (a *retryLogAdapter) Debug(string, ...interface{}) {}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return out
}
