// Key-space generic verbs (spec §4.6).
package respkit

import "context"

// Ping issues PING, returning the server's echoed text ("PONG" with no
// argument given).
func (c *Client) Ping(ctx context.Context) (string, error) {
	reply, err := c.send(ctx, "PING")
	if err != nil {
		return "", err
	}
	return DecodeString(reply)
}

// Del issues DEL key [key ...], returning the number of keys removed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	args := make([]ToRESP, len(keys))
	for i, k := range keys {
		args[i] = Arg(k)
	}
	reply, err := c.send(ctx, "DEL", args...)
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}

// Exists issues EXISTS key [key ...], returning how many of the given
// keys are present (a key repeated in the argument list counts twice).
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	args := make([]ToRESP, len(keys))
	for i, k := range keys {
		args[i] = Arg(k)
	}
	reply, err := c.send(ctx, "EXISTS", args...)
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}

// Expire issues EXPIRE key seconds, returning whether the timeout was set.
func (c *Client) Expire(ctx context.Context, key string, seconds int64) (bool, error) {
	reply, err := c.send(ctx, "EXPIRE", Arg(key), Arg(seconds))
	if err != nil {
		return false, err
	}
	n, err := DecodeInt64(reply)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Ttl issues TTL key. A TTL of -1 means no expiry, -2 means the key does
// not exist; both are returned as ordinary values, not errors.
func (c *Client) Ttl(ctx context.Context, key string) (int64, error) {
	reply, err := c.send(ctx, "TTL", Arg(key))
	if err != nil {
		return 0, err
	}
	return DecodeInt64(reply)
}
