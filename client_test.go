package respkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, func(*testing.T) []string, func(RESPValue)) {
	transport, server := newPipePair(t)
	client := NewClient(transport)
	t.Cleanup(func() { client.Close() })
	read := func(t *testing.T) []string { return readCommand(t, server) }
	reply := func(v RESPValue) { writeReply(t, server, v) }
	return client, read, reply
}

func TestClientPing(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		argv := read(t)
		require.Equal(t, []string{"PING"}, argv)
		reply(Str("PONG"))
	}()

	got, err := client.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PONG", got)
}

func TestClientGetMiss(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		argv := read(t)
		require.Equal(t, []string{"GET", "missing"}, argv)
		reply(NullBulk())
	}()

	got, err := client.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClientSetOK(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		argv := read(t)
		require.Equal(t, []string{"SET", "key", "value"}, argv)
		reply(Str("OK"))
	}()

	ok, err := client.Set(ctx, "key", []byte("value"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClientServerErrorOnIncr(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		argv := read(t)
		require.Equal(t, []string{"INCR", "notanumber"}, argv)
		reply(Err("ERR value is not an integer or out of range"))
	}()

	_, err := client.Incr(ctx, "notanumber")
	require.Error(t, err)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
}

func TestClientXAddAndXLen(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		argv := read(t)
		require.Equal(t, []string{"XADD", "mystream", "*", "field", "value"}, argv)
		reply(BulkStr("1-0"))
	}()
	id, err := client.XAdd(ctx, "mystream", "*", map[string]string{"field": "value"})
	require.NoError(t, err)
	assert.Equal(t, "1-0", id)

	go func() {
		argv := read(t)
		require.Equal(t, []string{"XLEN", "mystream"}, argv)
		reply(Int64(1))
	}()
	n, err := client.XLen(ctx, "mystream")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClientXReadEmptyVsFilled(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		argv := read(t)
		require.Equal(t, []string{"XREAD", "STREAMS", "mystream", "$"}, argv)
		reply(NullBulk())
	}()
	reply1, err := client.XRead(ctx, 0, StreamPosition{Key: "mystream", After: "$"})
	require.NoError(t, err)
	assert.Nil(t, reply1)

	go func() {
		argv := read(t)
		require.Equal(t, []string{"XREAD", "COUNT", "10", "STREAMS", "mystream", "0"}, argv)
		reply(ArrayOf(ArrayOf(
			BulkStr("mystream"),
			ArrayOf(ArrayOf(BulkStr("1-0"), ArrayOf(BulkStr("field"), BulkStr("value")))),
		)))
	}()
	reply2, err := client.XRead(ctx, 10, StreamPosition{Key: "mystream", After: "0"})
	require.NoError(t, err)
	require.Len(t, reply2, 1)
	assert.Equal(t, "mystream", reply2[0].Key)
	require.Len(t, reply2[0].Entries, 1)
	assert.Equal(t, "1-0", reply2[0].Entries[0].ID)
}

// TestClientXClaimEmitsRetryCountOnce guards against the RETRYCOUNT
// double-emission bug noted in spec §9: the option must appear exactly once
// in the argv, not twice.
func TestClientXClaimEmitsRetryCountOnce(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		argv := read(t)
		require.Equal(t, []string{
			"XCLAIM", "mystream", "mygroup", "consumer-a", "0", "1-0", "RETRYCOUNT", "5",
		}, argv)
		count := 0
		for _, a := range argv {
			if a == "RETRYCOUNT" {
				count++
			}
		}
		require.Equal(t, 1, count)
		reply(ArrayOf())
	}()

	entries, err := client.XClaim(ctx, "mystream", "mygroup", "consumer-a", 0, 5, "1-0")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClientMultiTransaction(t *testing.T) {
	client, read, reply := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		require.Equal(t, []string{"MULTI"}, read(t))
		reply(Str("OK"))
		require.Equal(t, []string{"SET", "a", "1"}, read(t))
		reply(Str("QUEUED"))
		require.Equal(t, []string{"INCR", "a"}, read(t))
		reply(Str("QUEUED"))
		require.Equal(t, []string{"EXEC"}, read(t))
		reply(ArrayOf(Str("OK"), Int64(2)))
	}()

	results, err := client.Multi(ctx, func(tx *Tx) error {
		if err := tx.Queue(ctx, "SET", Arg("a"), Arg("1")); err != nil {
			return err
		}
		return tx.Queue(ctx, "INCR", Arg("a"))
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[1].Int)
}
