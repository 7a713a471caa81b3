// Package retry retries requests that failed to reach the service.
//
// Only connectivity failures are retried: refused or reset connections, DNS
// and dial timeouts, proxy connect errors. A response with any HTTP status is
// final. When the attempts or the deadline are spent, the error of the last
// attempt is returned as is.
package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/rossum/internal/constants"
)

// Policy bounds retries of a single logical request.
type Policy struct {
	// MaxAttempts counts the first attempt too.
	MaxAttempts int
	// Wait is the fixed pause between attempts.
	Wait time.Duration
	// Deadline: no new attempt starts once this much time has passed since the first.
	Deadline time.Duration
}

// DefaultPolicy returns 3 attempts, 5s apart, within 55s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: constants.DefaultRetryAttempts,
		Wait:        constants.DefaultRetryWait,
		Deadline:    constants.DefaultRetryDeadline,
	}
}

// WithDefaults fills unset fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	def := DefaultPolicy()

	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}

	if p.Wait < 0 {
		p.Wait = 0
	}

	if p.Deadline <= 0 {
		p.Deadline = def.Deadline
	}

	return p
}

// IsTransient reports whether err is a connectivity failure worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Op == "dial" || opErr.Op == "proxyconnect") {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

type startKey struct{}

// Begin marks the start of a logical request. The deadline of an HTTP client
// built by NewHTTPClient counts from here.
func Begin(ctx context.Context) context.Context {
	return context.WithValue(ctx, startKey{}, time.Now())
}

// NewHTTPClient builds a retrying HTTP client following the policy. logger
// may be nil, a retryablehttp.Logger or a retryablehttp.LeveledLogger.
func (p Policy) NewHTTPClient(logger interface{}, timeout time.Duration) *retryablehttp.Client {
	p = p.WithDefaults()

	client := retryablehttp.NewClient()
	client.Logger = logger
	client.RetryMax = p.MaxAttempts - 1
	client.RetryWaitMin = p.Wait
	client.RetryWaitMax = p.Wait
	client.Backoff = func(_, _ time.Duration, _ int, _ *http.Response) time.Duration {
		return p.Wait
	}
	client.CheckRetry = p.checkRetry
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if timeout > 0 {
		client.HTTPClient.Timeout = timeout
	}

	return client
}

func (p Policy) checkRetry(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil || !IsTransient(err) {
		return false, nil
	}

	if start, ok := ctx.Value(startKey{}).(time.Time); ok && time.Since(start) >= p.Deadline {
		return false, nil
	}

	return true, nil
}
