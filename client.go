/*
Client is component C7, the thin verb surface spec §4.6 asks for: a
façade over CommandPipeline that gives call sites a typed method instead
of hand-building a Command and decoding its reply inline. The actual verb
bodies live in the commands_*.go files; this file only wires up
construction, the Pipeline accessor, and the MULTI/EXEC transaction helper
(spec §6 "Supplemented features").
*/
package respkit

import (
	"context"

	"github.com/pkg/errors"
)

// Client wraps a CommandPipeline with the verb surface in commands_*.go.
// It is deliberately thin — spec §4.6 scopes it to "a representative verb
// subset, not an exhaustive command catalogue" — and exposes Pipeline()
// for anything not covered by a named method.
type Client struct {
	pipeline *CommandPipeline
}

// NewClient builds a Client over transport.
func NewClient(transport Transport, opts ...Option) *Client {
	return &Client{pipeline: NewCommandPipeline(transport, opts...)}
}

// Pipeline exposes the underlying CommandPipeline for verbs this façade
// does not name, or for EnterPubSub.
func (c *Client) Pipeline() *CommandPipeline { return c.pipeline }

// Close closes the underlying connection.
func (c *Client) Close() error { return c.pipeline.Close() }

// send is the shared plumbing every commands_*.go verb method calls:
// build argv, submit, wait, and let the caller apply its own typed
// decoder to the raw reply.
func (c *Client) send(ctx context.Context, name string, args ...ToRESP) (RESPValue, error) {
	return c.pipeline.Send(ctx, NewCommand(name, args...))
}

// Multi runs fn inside a MULTI/EXEC transaction (spec §6 "Supplemented
// features: a MULTI/EXEC/DISCARD transaction helper"). fn issues commands
// through the supplied *Tx, which queues them the normal pipelined way;
// Multi waits for MULTI's OK, runs fn, then EXECs and returns the
// reply array EXEC produced — one reply per queued command, in order.
// If fn returns an error, Multi issues DISCARD instead of EXEC and
// propagates fn's error.
func (c *Client) Multi(ctx context.Context, fn func(tx *Tx) error) ([]RESPValue, error) {
	if _, err := c.send(ctx, "MULTI"); err != nil {
		return nil, err
	}
	tx := &Tx{client: c}
	if err := fn(tx); err != nil {
		if _, discardErr := c.send(ctx, "DISCARD"); discardErr != nil {
			return nil, errors.Wrap(err, discardErr.Error())
		}
		return nil, err
	}
	reply, err := c.send(ctx, "EXEC")
	if err != nil {
		return nil, err
	}
	if reply.IsNull() {
		return nil, errors.New("respkit: transaction aborted (EXEC returned null)")
	}
	if reply.Type != Array {
		return nil, errTypeMismatch("[]RESPValue", reply.Type)
	}
	return reply.Items, nil
}

// Tx is the command surface available inside a Client.Multi callback.
// Every command it queues goes through the same pipeline as ordinary
// commands — MULTI/EXEC relies only on command ordering, which the FIFO
// pipeline already guarantees.
type Tx struct {
	client *Client
}

// Queue submits name/args as part of the open transaction, discarding the
// per-command QUEUED reply (spec: transaction commands reply "QUEUED"
// until EXEC, which is not useful to a caller building up a Tx).
func (t *Tx) Queue(ctx context.Context, name string, args ...ToRESP) error {
	_, err := t.client.send(ctx, name, args...)
	return err
}
