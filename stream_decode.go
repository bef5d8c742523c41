/*
Stream-domain aggregate decoders (spec §4.3, "Stream-domain aggregate
decoders"). These sit on top of decode.go's primitives at bit-exact
positions dictated by the Redis Stream command replies: XADD/XLEN use the
plain scalar decoders directly, while XREAD, XINFO STREAM, XINFO GROUPS,
XINFO CONSUMERS, and XPENDING each have their own fixed aggregate shape.
*/
package respkit

// StreamEntry is one Stream entry: an ID paired with its field/value hash
// (spec §4.3 "Stream entry": a two-element array [id, hash]).
type StreamEntry struct {
	ID     string
	Fields map[string]string
}

// DecodeStreamEntry decodes a two-element [id, hash] array.
var DecodeStreamEntry Decode[StreamEntry] = func(v RESPValue) (StreamEntry, error) {
	if v.Type != Array || v.ArrayNull {
		return StreamEntry{}, errTypeMismatch("StreamEntry", v.Type)
	}
	if len(v.Items) != 2 {
		return StreamEntry{}, errIndexOutOfRange(2, len(v.Items))
	}
	id, err := DecodeString(v.Items[0])
	if err != nil {
		return StreamEntry{}, errComposite("StreamEntry", v.Type, err)
	}
	fields, err := DecodeMap(v.Items[1], DecodeString)
	if err != nil {
		return StreamEntry{}, errComposite("StreamEntry", v.Type, err)
	}
	return StreamEntry{ID: id, Fields: fields}, nil
}

var decodeOptionalStreamEntry Decode[*StreamEntry] = func(v RESPValue) (*StreamEntry, error) {
	return DecodeOptional(v, DecodeStreamEntry)
}

// StreamKeyEntries is one element of an XREAD/XREADGROUP reply: a stream
// key paired with the entries read from it.
type StreamKeyEntries struct {
	Key     string
	Entries []StreamEntry
}

// XReadReply is the full XREAD/XREADGROUP reply: an ordered list of
// per-stream entry batches (spec §4.3 "XREAD response").
type XReadReply []StreamKeyEntries

// Map collapses an XReadReply into the {streamKey: entries} shape the
// testable-properties example in spec §8 describes. Order is lost; prefer
// ranging over the XReadReply itself when order matters.
func (r XReadReply) Map() map[string][]StreamEntry {
	out := make(map[string][]StreamEntry, len(r))
	for _, se := range r {
		out[se.Key] = se.Entries
	}
	return out
}

// DecodeXRead decodes an XREAD/XREADGROUP reply. A Null reply ("no data",
// e.g. a BLOCK timeout) decodes to a nil XReadReply and no error, matching
// spec §4.3's "or Null meaning 'no data'".
func DecodeXRead(v RESPValue) (XReadReply, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Type != Array {
		return nil, errTypeMismatch("XReadReply", v.Type)
	}
	out := make(XReadReply, 0, len(v.Items))
	for _, pair := range v.Items {
		if pair.Type != Array || len(pair.Items) != 2 {
			return nil, errIndexOutOfRange(2, len(pair.Items))
		}
		key, err := DecodeString(pair.Items[0])
		if err != nil {
			return nil, errComposite("XReadReply", v.Type, err)
		}
		entries, err := DecodeSlice(pair.Items[1], DecodeStreamEntry)
		if err != nil {
			return nil, errComposite("XReadReply", v.Type, err)
		}
		out = append(out, StreamKeyEntries{Key: key, Entries: entries})
	}
	return out, nil
}

// StreamInfo is the XINFO STREAM reply (spec §4.3 "Stream info"): labelled
// pairs at offsets 0,2,4,6,8,10,12.
type StreamInfo struct {
	Length          int64
	RadixTreeKeys   int64
	RadixTreeNodes  int64
	Groups          int64
	LastGeneratedID string
	FirstEntry      *StreamEntry
	LastEntry       *StreamEntry
}

// DecodeStreamInfo decodes an XINFO STREAM reply.
func DecodeStreamInfo(v RESPValue) (StreamInfo, error) {
	var info StreamInfo
	if v.Type != Array || v.ArrayNull {
		return info, errTypeMismatch("StreamInfo", v.Type)
	}
	items := v.Items
	var err error
	if info.Length, err = decodeLabelledField(items, 0, "length", DecodeInt64); err != nil {
		return StreamInfo{}, err
	}
	if info.RadixTreeKeys, err = decodeLabelledField(items, 2, "radix-tree-keys", DecodeInt64); err != nil {
		return StreamInfo{}, err
	}
	if info.RadixTreeNodes, err = decodeLabelledField(items, 4, "radix-tree-nodes", DecodeInt64); err != nil {
		return StreamInfo{}, err
	}
	if info.Groups, err = decodeLabelledField(items, 6, "groups", DecodeInt64); err != nil {
		return StreamInfo{}, err
	}
	if info.LastGeneratedID, err = decodeLabelledField(items, 8, "last-generated-id", DecodeString); err != nil {
		return StreamInfo{}, err
	}
	if info.FirstEntry, err = decodeLabelledField(items, 10, "first-entry", decodeOptionalStreamEntry); err != nil {
		return StreamInfo{}, err
	}
	if info.LastEntry, err = decodeLabelledField(items, 12, "last-entry", decodeOptionalStreamEntry); err != nil {
		return StreamInfo{}, err
	}
	return info, nil
}

// GroupInfo is one element of an XINFO GROUPS reply (spec §4.3 "Group
// info"): keys name, consumers, pending, last-delivered-id at offsets
// 0,2,4,6.
type GroupInfo struct {
	Name            string
	Consumers       int64
	Pending         int64
	LastDeliveredID string
}

// DecodeGroupInfo decodes a single XINFO GROUPS element.
func DecodeGroupInfo(v RESPValue) (GroupInfo, error) {
	var g GroupInfo
	if v.Type != Array || v.ArrayNull {
		return g, errTypeMismatch("GroupInfo", v.Type)
	}
	items := v.Items
	var err error
	if g.Name, err = decodeLabelledField(items, 0, "name", DecodeString); err != nil {
		return GroupInfo{}, err
	}
	if g.Consumers, err = decodeLabelledField(items, 2, "consumers", DecodeInt64); err != nil {
		return GroupInfo{}, err
	}
	if g.Pending, err = decodeLabelledField(items, 4, "pending", DecodeInt64); err != nil {
		return GroupInfo{}, err
	}
	if g.LastDeliveredID, err = decodeLabelledField(items, 6, "last-delivered-id", DecodeString); err != nil {
		return GroupInfo{}, err
	}
	return g, nil
}

// ConsumerInfo is one element of an XINFO CONSUMERS reply (spec §4.3
// "Consumer info"): keys name, pending, idle at offsets 0,2,4.
type ConsumerInfo struct {
	Name    string
	Pending int64
	Idle    int64
}

// DecodeConsumerInfo decodes a single XINFO CONSUMERS element.
func DecodeConsumerInfo(v RESPValue) (ConsumerInfo, error) {
	var c ConsumerInfo
	if v.Type != Array || v.ArrayNull {
		return c, errTypeMismatch("ConsumerInfo", v.Type)
	}
	items := v.Items
	var err error
	if c.Name, err = decodeLabelledField(items, 0, "name", DecodeString); err != nil {
		return ConsumerInfo{}, err
	}
	if c.Pending, err = decodeLabelledField(items, 2, "pending", DecodeInt64); err != nil {
		return ConsumerInfo{}, err
	}
	if c.Idle, err = decodeLabelledField(items, 4, "idle", DecodeInt64); err != nil {
		return ConsumerInfo{}, err
	}
	return c, nil
}

// ConsumerPendingCount is one [consumer, count] pair within a
// PendingSummary.
type ConsumerPendingCount struct {
	Consumer string
	Count    int64
}

// PendingSummary is the XPENDING summary-form reply (spec §4.3 "XPENDING
// summary"): [count, smallestId, greatestId, [[consumer,count], ...]].
type PendingSummary struct {
	Count      int64
	Smallest   string
	Greatest   string
	PerConsumer []ConsumerPendingCount
}

// DecodePendingSummary decodes an XPENDING summary reply. An element count
// below 4 is a protocol-shape error; a zero Count is reported as (nil, nil)
// — spec §4.3: "a zero `count` is reported as `Ok(None)` at the optional
// layer" — so callers get a single signal for "nothing pending" instead of
// a populated-but-empty struct.
func DecodePendingSummary(v RESPValue) (*PendingSummary, error) {
	if v.Type != Array || v.ArrayNull {
		return nil, errTypeMismatch("PendingSummary", v.Type)
	}
	if len(v.Items) < 4 {
		return nil, errIndexOutOfRange(4, len(v.Items))
	}
	count, err := DecodeInt64(v.Items[0])
	if err != nil {
		return nil, errComposite("PendingSummary", v.Type, err)
	}
	if count == 0 {
		return nil, nil
	}

	smallest, err := DecodeString(v.Items[1])
	if err != nil {
		return nil, errComposite("PendingSummary", v.Type, err)
	}
	greatest, err := DecodeString(v.Items[2])
	if err != nil {
		return nil, errComposite("PendingSummary", v.Type, err)
	}

	var perConsumer []ConsumerPendingCount
	if !v.Items[3].IsNull() {
		if v.Items[3].Type != Array {
			return nil, errTypeMismatch("[]ConsumerPendingCount", v.Items[3].Type)
		}
		perConsumer = make([]ConsumerPendingCount, 0, len(v.Items[3].Items))
		for _, pc := range v.Items[3].Items {
			if pc.Type != Array || len(pc.Items) != 2 {
				return nil, errIndexOutOfRange(2, len(pc.Items))
			}
			consumer, err := DecodeString(pc.Items[0])
			if err != nil {
				return nil, errComposite("ConsumerPendingCount", pc.Type, err)
			}
			cnt, err := DecodeInt64(pc.Items[1])
			if err != nil {
				return nil, errComposite("ConsumerPendingCount", pc.Type, err)
			}
			perConsumer = append(perConsumer, ConsumerPendingCount{Consumer: consumer, Count: cnt})
		}
	}

	return &PendingSummary{
		Count:       count,
		Smallest:    smallest,
		Greatest:    greatest,
		PerConsumer: perConsumer,
	}, nil
}

// PendingEntry is one element of the XPENDING extended-form reply (spec
// §4.3 "XPENDING extended"): [id, consumer, msSinceLast, deliveryCount].
type PendingEntry struct {
	ID                  string
	Consumer            string
	MsSinceLastDelivery int64
	DeliveryCount       int64
}

var decodePendingEntry Decode[PendingEntry] = func(v RESPValue) (PendingEntry, error) {
	if v.Type != Array || len(v.Items) != 4 {
		return PendingEntry{}, errIndexOutOfRange(4, len(v.Items))
	}
	id, err := DecodeString(v.Items[0])
	if err != nil {
		return PendingEntry{}, errComposite("PendingEntry", v.Type, err)
	}
	consumer, err := DecodeString(v.Items[1])
	if err != nil {
		return PendingEntry{}, errComposite("PendingEntry", v.Type, err)
	}
	ms, err := DecodeInt64(v.Items[2])
	if err != nil {
		return PendingEntry{}, errComposite("PendingEntry", v.Type, err)
	}
	deliveries, err := DecodeInt64(v.Items[3])
	if err != nil {
		return PendingEntry{}, errComposite("PendingEntry", v.Type, err)
	}
	return PendingEntry{ID: id, Consumer: consumer, MsSinceLastDelivery: ms, DeliveryCount: deliveries}, nil
}

// DecodePendingEntries decodes the XPENDING extended-form reply.
func DecodePendingEntries(v RESPValue) ([]PendingEntry, error) {
	return DecodeSlice(v, decodePendingEntry)
}
