package respkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderScalars(t *testing.T) {
	d := NewDecoder()
	values, err := d.Feed([]byte("+OK\r\n-ERR oops\r\n:42\r\n"))
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, Str("OK"), values[0])
	assert.Equal(t, Err("ERR oops"), values[1])
	assert.Equal(t, Int64(42), values[2])
}

func TestDecoderNulls(t *testing.T) {
	d := NewDecoder()
	values, err := d.Feed([]byte("$-1\r\n*-1\r\n"))
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.True(t, values[0].IsNull())
	assert.True(t, values[1].IsNull())
}

func TestDecoderNestedArray(t *testing.T) {
	d := NewDecoder()
	values, err := d.Feed([]byte("*2\r\n*1\r\n:1\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	require.Len(t, values, 1)
	got := values[0]
	require.Equal(t, Array, got.Type)
	require.Len(t, got.Items, 2)
	assert.Equal(t, ArrayOf(Int64(1)), got.Items[0])
	assert.Equal(t, BulkStr("foo"), got.Items[1])
}

// TestDecoderByteByByteFeed is the codec round-trip/chunking property from
// spec §8: splitting a valid encoded stream at every possible byte boundary
// must still produce the same sequence of values as feeding it whole,
// regardless of where the split lands — including mid-header and
// mid-payload.
func TestDecoderByteByByteFeed(t *testing.T) {
	whole := NewDecoder()
	wire := []byte("*3\r\n$3\r\nSET\r\n$5\r\nhello\r\n$5\r\nworld\r\n+OK\r\n:7\r\n")
	wantAll, err := whole.Feed(wire)
	require.NoError(t, err)

	chunked := NewDecoder()
	var gotAll []RESPValue
	for i := 0; i < len(wire); i++ {
		vs, err := chunked.Feed(wire[i : i+1])
		require.NoError(t, err)
		gotAll = append(gotAll, vs...)
	}
	assert.Equal(t, wantAll, gotAll)
}

func TestDecoderRejectsOversizedBulk(t *testing.T) {
	d := NewDecoder()
	_, err := d.Feed([]byte("$536870913\r\n"))
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestDecoderPoisonsOnProtocolError(t *testing.T) {
	d := NewDecoder()
	_, err := d.Feed([]byte("*-2\r\n"))
	require.Error(t, err)

	// Once dead, every subsequent Feed returns the same sticky error without
	// attempting to parse anything new.
	_, err2 := d.Feed([]byte("+OK\r\n"))
	require.Error(t, err2)
	assert.Equal(t, err, err2)
}

func TestDecoderIncompleteBulkWaitsForMoreBytes(t *testing.T) {
	d := NewDecoder()
	values, err := d.Feed([]byte("$5\r\nhel"))
	require.NoError(t, err)
	assert.Empty(t, values)

	values, err = d.Feed([]byte("lo\r\n"))
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, BulkStr("hello"), values[0])
}

func TestDecoderEmptyArray(t *testing.T) {
	d := NewDecoder()
	values, err := d.Feed([]byte("*0\r\n"))
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, ArrayOf(), values[0])
}
