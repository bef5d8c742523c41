package respkit

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newPipePair returns a respkit.Transport backed by one end of a net.Pipe
// and the raw net.Conn for the other end, which tests drive directly —
// reading the bytes the pipeline wrote and writing scripted replies. A
// net.Conn already satisfies Transport structurally, so no adapter type is
// needed.
func newPipePair(t *testing.T) (Transport, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

// readCommand decodes exactly one multi-bulk command off conn, failing the
// test if it doesn't arrive within the deadline.
func readCommand(t *testing.T, conn net.Conn) []string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	d := NewDecoder()
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		values, err := d.Feed(buf[:n])
		require.NoError(t, err)
		if len(values) > 0 {
			require.Equal(t, Array, values[0].Type)
			out := make([]string, len(values[0].Items))
			for i, item := range values[0].Items {
				out[i] = string(item.Bulk)
			}
			return out
		}
	}
}

// writeReply writes v's wire encoding to conn.
func writeReply(t *testing.T, conn net.Conn, v RESPValue) {
	t.Helper()
	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	_, err := conn.Write(EncodeValue(v))
	require.NoError(t, err)
}
