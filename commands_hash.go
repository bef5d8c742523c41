// Hash-domain verbs (spec §4.6).
package respkit

import "context"

// HSet issues HSET key field value, returning whether field was newly
// created (1) as opposed to overwritten (0).
func (c *Client) HSet(ctx context.Context, key, field string, value []byte) (bool, error) {
	reply, err := c.send(ctx, "HSET", Arg(key), Arg(field), Arg(value))
	if err != nil {
		return false, err
	}
	n, err := DecodeInt64(reply)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// HGet issues HGET key field. A missing field decodes to (nil, nil).
func (c *Client) HGet(ctx context.Context, key, field string) ([]byte, error) {
	reply, err := c.send(ctx, "HGET", Arg(key), Arg(field))
	if err != nil {
		return nil, err
	}
	v, err := DecodeOptional(reply, DecodeBytes)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// HGetAll issues HGETALL key, decoding the field/value pairs into a map.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	reply, err := c.send(ctx, "HGETALL", Arg(key))
	if err != nil {
		return nil, err
	}
	return DecodeMap(reply, DecodeString)
}

// HDel issues HDEL key field [field ...], returning the number removed.
func (c *Client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	args := make([]ToRESP, 0, len(fields)+1)
	args = append(args, Arg(key))
	for _, f := range fields {
		args = append(args, Arg(f))
	}
	reply, err := c.send(ctx, "HDEL", args...)
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}
