// List-domain verbs (spec §4.6).
package respkit

import "context"

// LPush issues LPUSH key value [value ...], returning the resulting list
// length.
func (c *Client) LPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	args := make([]ToRESP, 0, len(values)+1)
	args = append(args, Arg(key))
	for _, v := range values {
		args = append(args, Arg(v))
	}
	reply, err := c.send(ctx, "LPUSH", args...)
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}

// RPush issues RPUSH key value [value ...].
func (c *Client) RPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	args := make([]ToRESP, 0, len(values)+1)
	args = append(args, Arg(key))
	for _, v := range values {
		args = append(args, Arg(v))
	}
	reply, err := c.send(ctx, "RPUSH", args...)
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}

// LRange issues LRANGE key start stop.
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	reply, err := c.send(ctx, "LRANGE", Arg(key), Arg(start), Arg(stop))
	if err != nil {
		return nil, err
	}
	return DecodeSlice(reply, DecodeString)
}

// LLen issues LLEN key.
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	reply, err := c.send(ctx, "LLEN", Arg(key))
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}
