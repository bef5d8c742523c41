// Stream-domain verbs (spec §4.3/§4.6): the ones whose replies exercise
// stream_decode.go's aggregate decoders.
package respkit

import "context"

// XAdd issues XADD key id field value [field value ...], returning the
// entry id the server assigned (or echoed back, if id was explicit).
// Pass "*" for id to let the server generate one.
func (c *Client) XAdd(ctx context.Context, key, id string, fields map[string]string) (string, error) {
	args := make([]ToRESP, 0, 2+2*len(fields))
	args = append(args, Arg(key), Arg(id))
	for k, v := range fields {
		args = append(args, Arg(k), Arg(v))
	}
	reply, err := c.send(ctx, "XADD", args...)
	if err != nil {
		return "", err
	}
	return DecodeString(reply)
}

// XLen issues XLEN key.
func (c *Client) XLen(ctx context.Context, key string) (int64, error) {
	reply, err := c.send(ctx, "XLEN", Arg(key))
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}

// StreamPosition pairs a stream key with the id XREAD should read after
// (spec §9's resolution of the "multiple streams, one count" open
// question: pass one StreamPosition per stream rather than a parallel
// key/id slice pair, so a mismatched length cannot happen).
type StreamPosition struct {
	Key string
	// After is the id to read after; use "$" to mean "only new entries".
	After string
}

// XRead issues XREAD COUNT count STREAMS key [key ...] id [id ...]. A
// count <= 0 omits the COUNT clause. A BLOCK timeout is not exposed here —
// blocking reads need a Transport whose Read has its own deadline
// semantics, which is a caller concern, not this façade's.
func (c *Client) XRead(ctx context.Context, count int64, positions ...StreamPosition) (XReadReply, error) {
	args := make([]ToRESP, 0, 2+2*len(positions))
	if count > 0 {
		args = append(args, Arg("COUNT"), Arg(count))
	}
	args = append(args, Arg("STREAMS"))
	for _, p := range positions {
		args = append(args, Arg(p.Key))
	}
	for _, p := range positions {
		args = append(args, Arg(p.After))
	}
	reply, err := c.send(ctx, "XREAD", args...)
	if err != nil {
		return nil, err
	}
	return DecodeXRead(reply)
}

// XInfoStream issues XINFO STREAM key.
func (c *Client) XInfoStream(ctx context.Context, key string) (StreamInfo, error) {
	reply, err := c.send(ctx, "XINFO", Arg("STREAM"), Arg(key))
	if err != nil {
		return StreamInfo{}, err
	}
	return DecodeStreamInfo(reply)
}

// XInfoGroups issues XINFO GROUPS key.
func (c *Client) XInfoGroups(ctx context.Context, key string) ([]GroupInfo, error) {
	reply, err := c.send(ctx, "XINFO", Arg("GROUPS"), Arg(key))
	if err != nil {
		return nil, err
	}
	return DecodeSlice(reply, DecodeGroupInfo)
}

// XInfoConsumers issues XINFO CONSUMERS key group.
func (c *Client) XInfoConsumers(ctx context.Context, key, group string) ([]ConsumerInfo, error) {
	reply, err := c.send(ctx, "XINFO", Arg("CONSUMERS"), Arg(key), Arg(group))
	if err != nil {
		return nil, err
	}
	return DecodeSlice(reply, DecodeConsumerInfo)
}

// XPendingSummary issues the summary form of XPENDING key group.
func (c *Client) XPendingSummary(ctx context.Context, key, group string) (*PendingSummary, error) {
	reply, err := c.send(ctx, "XPENDING", Arg(key), Arg(group))
	if err != nil {
		return nil, err
	}
	return DecodePendingSummary(reply)
}

// XPendingExtended issues the extended form of XPENDING key group start
// end count.
func (c *Client) XPendingExtended(ctx context.Context, key, group, start, end string, count int64) ([]PendingEntry, error) {
	reply, err := c.send(ctx, "XPENDING", Arg(key), Arg(group), Arg(start), Arg(end), Arg(count))
	if err != nil {
		return nil, err
	}
	return DecodePendingEntries(reply)
}

// XClaim issues XCLAIM key group consumer min-idle-time id [id ...]
// RETRYCOUNT retryCount, reassigning pending entries to consumer. Unlike a
// RETRYCOUNT-doubling bug some client implementations carry, RETRYCOUNT is
// appended to argv exactly once here.
func (c *Client) XClaim(ctx context.Context, key, group, consumer string, minIdleTime int64, retryCount int64, ids ...string) ([]StreamEntry, error) {
	args := make([]ToRESP, 0, 4+len(ids)+2)
	args = append(args, Arg(key), Arg(group), Arg(consumer), Arg(minIdleTime))
	for _, id := range ids {
		args = append(args, Arg(id))
	}
	args = append(args, Arg("RETRYCOUNT"), Arg(retryCount))
	reply, err := c.send(ctx, "XCLAIM", args...)
	if err != nil {
		return nil, err
	}
	return DecodeSlice(reply, DecodeStreamEntry)
}
