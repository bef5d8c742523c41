package respkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommand(t *testing.T) {
	argv := []RESPValue{BulkStr("SET"), BulkStr("key"), BulkStr("value")}
	got := EncodeCommand(argv)
	want := "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n"
	assert.Equal(t, want, string(got))
}

func TestCommandEncodeUppercasesName(t *testing.T) {
	cmd := NewCommand("get", Arg("key"))
	assert.Equal(t, "*2\r\n$3\r\nGET\r\n$3\r\nkey\r\n", string(cmd.Encode()))
}

// TestEncodeValueRoundTrip is the codec round-trip property from spec §8:
// decode(EncodeValue(v)) must reproduce v for every representable value,
// including the server-reply shapes a client only ever receives.
func TestEncodeValueRoundTrip(t *testing.T) {
	cases := []RESPValue{
		Str("OK"),
		Err("WRONGTYPE bad"),
		Int64(-17),
		BulkStr("hello"),
		NullBulk(),
		ArrayOf(Int64(1), BulkStr("two"), ArrayOf(Str("nested"))),
		NullArray(),
		ArrayOf(),
	}
	for _, v := range cases {
		wire := EncodeValue(v)
		d := NewDecoder()
		got, err := d.Feed(wire)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, v, got[0])
	}
}
