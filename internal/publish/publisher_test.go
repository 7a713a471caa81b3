package publish_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/rossum/internal/publish"
)

var errBroken = errors.New("broken pipe")

type fakeConn struct {
	published  []*nats.Msg
	publishErr error
	flushes    []time.Duration
	closed     bool
}

func (f *fakeConn) PublishMsg(msg *nats.Msg) error {
	if f.publishErr != nil {
		return f.publishErr
	}

	f.published = append(f.published, msg)

	return nil
}

func (f *fakeConn) FlushTimeout(timeout time.Duration) error {
	f.flushes = append(f.flushes, timeout)

	return nil
}

func (f *fakeConn) Close() {
	f.closed = true
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	t.Run("sends data with headers", func(t *testing.T) {
		t.Parallel()

		conn := &fakeConn{}
		publisher := publish.New(conn, "rossum.exports")

		err := publisher.Publish(context.Background(), publish.Export{
			Queue:       3,
			Format:      "csv",
			Annotations: []int{11, 12},
			Data:        []byte("id,total\n"),
		})
		require.NoError(t, err)
		require.Len(t, conn.published, 1)

		msg := conn.published[0]
		assert.Equal(t, "rossum.exports", msg.Subject)
		assert.Equal(t, "id,total\n", string(msg.Data))
		assert.Equal(t, "3", msg.Header.Get(publish.HeaderQueue))
		assert.Equal(t, "csv", msg.Header.Get(publish.HeaderFormat))
		assert.Equal(t, []string{"11", "12"}, msg.Header.Values(publish.HeaderAnnotations))
		assert.Len(t, conn.flushes, 1)
	})

	t.Run("flush honours the context deadline", func(t *testing.T) {
		t.Parallel()

		conn := &fakeConn{}
		publisher := publish.New(conn, "rossum.exports")

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		require.NoError(t, publisher.Publish(ctx, publish.Export{Queue: 1}))
		require.Len(t, conn.flushes, 1)
		assert.LessOrEqual(t, conn.flushes[0], time.Second)
	})

	t.Run("publish failure", func(t *testing.T) {
		t.Parallel()

		conn := &fakeConn{publishErr: errBroken}
		publisher := publish.New(conn, "rossum.exports")

		err := publisher.Publish(context.Background(), publish.Export{Queue: 1})
		require.ErrorIs(t, err, errBroken)
		assert.Empty(t, conn.flushes)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()

		err := publish.New(&fakeConn{}, "").Publish(context.Background(), publish.Export{})
		require.ErrorIs(t, err, publish.ErrSubjectRequired)
	})
}

func TestPublisher_Close(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	publish.New(conn, "s").Close()
	assert.True(t, conn.closed)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	_, err := publish.Connect("", "s")
	require.ErrorIs(t, err, publish.ErrURLRequired)

	_, err = publish.Connect("nats://127.0.0.1:4222", "")
	require.ErrorIs(t, err, publish.ErrSubjectRequired)
}
