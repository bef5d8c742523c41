package respkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPubSubDispatch is the dispatch property from spec §8: message frames
// are routed to the callback registered for their channel, and a
// non-pubsub-shaped reply received while subscribed is forwarded to the
// whitelisted-command FIFO instead of being treated as a protocol error.
func TestPubSubDispatch(t *testing.T) {
	transport, server := newPipePair(t)
	cp := NewCommandPipeline(transport)
	defer cp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan string, 4)

	go readCommand(t, server) // SUBSCRIBE
	ps, err := cp.EnterPubSub()
	require.NoError(t, err)

	_, err = ps.Subscribe(ctx, func(channel string, payload []byte) {
		received <- channel + ":" + string(payload)
	}, "news")
	require.NoError(t, err)

	writeReply(t, server, ArrayOf(BulkStr("subscribe"), BulkStr("news"), Int64(1)))
	writeReply(t, server, ArrayOf(BulkStr("message"), BulkStr("news"), BulkStr("hello")))

	select {
	case msg := <-received:
		assert.Equal(t, "news:hello", msg)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message dispatch")
	}

	// PING while subscribed is not Pub/Sub-shaped, so it must be forwarded
	// to the whitelisted-command queue rather than rejected.
	go readCommand(t, server) // PING
	pongCh := make(chan RESPValue, 1)
	go func() {
		v, pingErr := ps.Ping(ctx)
		require.NoError(t, pingErr)
		pongCh <- v
	}()
	writeReply(t, server, Str("PONG"))

	select {
	case v := <-pongCh:
		assert.Equal(t, "PONG", v.Str)
	case <-ctx.Done():
		t.Fatal("timed out waiting for PING reply")
	}
}

// TestPubSubPatternDispatch exercises PSUBSCRIBE/pmessage routing through
// the xxhash-sharded pattern table.
func TestPubSubPatternDispatch(t *testing.T) {
	transport, server := newPipePair(t)
	cp := NewCommandPipeline(transport)
	defer cp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan string, 1)

	go readCommand(t, server) // PSUBSCRIBE
	ps, err := cp.EnterPubSub()
	require.NoError(t, err)

	_, err = ps.PSubscribe(ctx, func(channel string, payload []byte) {
		received <- channel + ":" + string(payload)
	}, "news.*")
	require.NoError(t, err)

	writeReply(t, server, ArrayOf(BulkStr("psubscribe"), BulkStr("news.*"), Int64(1)))
	writeReply(t, server, ArrayOf(BulkStr("pmessage"), BulkStr("news.*"), BulkStr("news.sports"), BulkStr("goal")))

	select {
	case msg := <-received:
		assert.Equal(t, "news.sports:goal", msg)
	case <-ctx.Done():
		t.Fatal("timed out waiting for pmessage dispatch")
	}
	assert.Contains(t, ps.Patterns(), "news.*")
}

func TestPubSubUnsubscribeRemovesLastCallback(t *testing.T) {
	transport, server := newPipePair(t)
	cp := NewCommandPipeline(transport)
	defer cp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go readCommand(t, server) // SUBSCRIBE
	ps, err := cp.EnterPubSub()
	require.NoError(t, err)
	token, err := ps.Subscribe(ctx, func(string, []byte) {}, "news")
	require.NoError(t, err)
	writeReply(t, server, ArrayOf(BulkStr("subscribe"), BulkStr("news"), Int64(1)))

	go readCommand(t, server) // UNSUBSCRIBE, issued because this was the last callback
	require.NoError(t, ps.Unsubscribe(ctx, token))
	writeReply(t, server, ArrayOf(BulkStr("unsubscribe"), BulkStr("news"), Int64(0)))

	// Give the read-loop goroutine a moment to process the zero-count frame
	// (which transitions the connection back to command mode internally).
	time.Sleep(50 * time.Millisecond)
}
