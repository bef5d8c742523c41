package respkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeXReadEmpty(t *testing.T) {
	reply, err := DecodeXRead(NullBulk())
	require.NoError(t, err)
	assert.Nil(t, reply)
}

func TestDecodeXReadFilled(t *testing.T) {
	wire := ArrayOf(
		ArrayOf(
			BulkStr("mystream"),
			ArrayOf(
				ArrayOf(BulkStr("1-1"), ArrayOf(BulkStr("field"), BulkStr("value"))),
			),
		),
	)
	reply, err := DecodeXRead(wire)
	require.NoError(t, err)
	require.Len(t, reply, 1)
	assert.Equal(t, "mystream", reply[0].Key)
	require.Len(t, reply[0].Entries, 1)
	assert.Equal(t, "1-1", reply[0].Entries[0].ID)
	assert.Equal(t, map[string]string{"field": "value"}, reply[0].Entries[0].Fields)

	m := reply.Map()
	assert.Contains(t, m, "mystream")
}

func TestDecodeStreamInfo(t *testing.T) {
	wire := ArrayOf(
		BulkStr("length"), Int64(3),
		BulkStr("radix-tree-keys"), Int64(1),
		BulkStr("radix-tree-nodes"), Int64(2),
		BulkStr("groups"), Int64(1),
		BulkStr("last-generated-id"), BulkStr("3-0"),
		BulkStr("first-entry"), ArrayOf(BulkStr("1-0"), ArrayOf(BulkStr("a"), BulkStr("1"))),
		BulkStr("last-entry"), NullBulk(),
	)
	info, err := DecodeStreamInfo(wire)
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Length)
	assert.Equal(t, "3-0", info.LastGeneratedID)
	require.NotNil(t, info.FirstEntry)
	assert.Equal(t, "1-0", info.FirstEntry.ID)
	assert.Nil(t, info.LastEntry)
}

func TestDecodePendingSummaryZeroCount(t *testing.T) {
	wire := ArrayOf(Int64(0), NullBulk(), NullBulk(), NullArray())
	summary, err := DecodePendingSummary(wire)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestDecodePendingSummaryPopulated(t *testing.T) {
	wire := ArrayOf(
		Int64(2), BulkStr("1-0"), BulkStr("2-0"),
		ArrayOf(ArrayOf(BulkStr("consumer-a"), BulkStr("2"))),
	)
	summary, err := DecodePendingSummary(wire)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(2), summary.Count)
	require.Len(t, summary.PerConsumer, 1)
	assert.Equal(t, "consumer-a", summary.PerConsumer[0].Consumer)
	assert.Equal(t, int64(2), summary.PerConsumer[0].Count)
}

func TestDecodePendingEntries(t *testing.T) {
	wire := ArrayOf(
		ArrayOf(BulkStr("1-0"), BulkStr("consumer-a"), Int64(100), Int64(1)),
	)
	entries, err := DecodePendingEntries(wire)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "consumer-a", entries[0].Consumer)
	assert.Equal(t, int64(1), entries[0].DeliveryCount)
}
