// Package publish sends exported queue data to a NATS subject.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/rossum/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrSubjectRequired = errors.New("NATS subject is required")
	ErrURLRequired     = errors.New("NATS URL is required")
)

// Message headers set on every export.
const (
	HeaderQueue       = "Rossum-Queue"
	HeaderFormat      = "Rossum-Export-Format"
	HeaderAnnotations = "Rossum-Annotations"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Export describes one exported payload.
type Export struct {
	Queue       int
	Format      string
	Annotations []int
	Data        []byte
}

// Publisher publishes exports to a fixed subject.
type Publisher struct {
	conn    Conn
	subject string
}

// Connect dials the NATS server at url.
func Connect(url, subject string, opts ...nats.Option) (*Publisher, error) {
	if url == "" {
		return nil, ErrURLRequired
	}

	if subject == "" {
		return nil, ErrSubjectRequired
	}

	opts = append([]nats.Option{
		nats.Name("rossum-export"),
		nats.Timeout(constants.PublishTimeout),
	}, opts...)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return New(conn, subject), nil
}

// New creates a publisher on an open connection.
func New(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Subject returns the subject exports are published to.
func (p *Publisher) Subject() string {
	return p.subject
}

// Publish sends export and waits until the server has received it, or until
// ctx is done.
func (p *Publisher) Publish(ctx context.Context, export Export) error {
	if p.subject == "" {
		return ErrSubjectRequired
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = export.Data
	msg.Header.Set(HeaderQueue, strconv.Itoa(export.Queue))
	msg.Header.Set(HeaderFormat, export.Format)

	for _, id := range export.Annotations {
		msg.Header.Add(HeaderAnnotations, strconv.Itoa(id))
	}

	err := p.conn.PublishMsg(msg)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", p.subject, err)
	}

	timeout := constants.PublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	err = p.conn.FlushTimeout(timeout)
	if err != nil {
		return fmt.Errorf("flushing %s: %w", p.subject, err)
	}

	return nil
}

// Close closes the connection.
func (p *Publisher) Close() {
	p.conn.Close()
}
