// String-domain verbs (spec §4.6): the small, representative subset spec §2
// scopes this facade to, not an exhaustive command catalogue.
package respkit

import "context"

// Get issues GET key. A missing key decodes to (nil, nil) — DecodeOptional
// over DecodeBytes, matching RESP2's null bulk for "no such key".
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	reply, err := c.send(ctx, "GET", Arg(key))
	if err != nil {
		return nil, err
	}
	v, err := DecodeOptional(reply, DecodeBytes)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// Set issues SET key value, returning true on the server's "+OK" reply.
func (c *Client) Set(ctx context.Context, key string, value []byte) (bool, error) {
	reply, err := c.send(ctx, "SET", Arg(key), Arg(value))
	if err != nil {
		return false, err
	}
	return DecodeBool(reply)
}

// Incr issues INCR key, returning the post-increment value.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	reply, err := c.send(ctx, "INCR", Arg(key))
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}

// Append issues APPEND key value, returning the resulting string length.
func (c *Client) Append(ctx context.Context, key string, value []byte) (int64, error) {
	reply, err := c.send(ctx, "APPEND", Arg(key), Arg(value))
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}

// StrLen issues STRLEN key.
func (c *Client) StrLen(ctx context.Context, key string) (int64, error) {
	reply, err := c.send(ctx, "STRLEN", Arg(key))
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}
