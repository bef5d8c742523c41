/*
Conn is the shared connection state CommandPipeline (C5) and PubSubPipeline
(C6) both sit on top of. Spec §9's design note — "cyclic references via a
command-handler core class... two polymorphic pipeline states share a
single FIFO that can be transferred, not duplicated, between them" — is
implemented here as a handler swap: Conn owns the transport, the Decoder,
and the single read-loop goroutine; CommandPipeline and PubSubPipeline are
two connHandler implementations that take turns being Conn.handler.
Replacing the handler is the "transplant" the design note describes, and it
is guarded by the same mutex that serializes command submission — so a
handler swap can never race with an in-flight Submit or an in-progress
dispatch.

This is also where spec §5's "single logical executor" shows up concretely:
every mutation of the in-flight queue happens either from the read-loop
goroutine or from a Submit/Subscribe/Close caller that first takes Conn.mu.
The Pub/Sub subscription table additionally has its own locks inside
PubSubPipeline, because token-based Unsubscribe edits it without taking
Conn.mu — there is never a window where two goroutines touch that state
unsynchronized.
*/
package respkit

import (
	"sync"
)

// connHandler is the common trait the design note asks for: something that
// can consume a decoded value and report how many requests it still has
// outstanding.
type connHandler interface {
	// handleValue processes one decoded RESPValue. Returning a non-nil
	// error is fatal to the connection (spec §4.4 "fatal invariant
	// violation" / §7 "Protocol/transport errors").
	handleValue(conn *Conn, v RESPValue) error
	// drainWithError fails every outstanding completion this handler is
	// holding, in FIFO order, with err.
	drainWithError(err error)
	// queueLen reports the current in-flight queue depth, used to guard
	// handler replacement (spec §4.4 "Handler replacement").
	queueLen() int
}

// Conn owns one connection's transport, codec, and read loop. It is not
// constructed directly by callers — NewCommandPipeline builds one and
// starts its read loop.
type Conn struct {
	transport Transport
	decoder   *Decoder
	logger    Logger
	metrics   Metrics

	mu      sync.Mutex
	handler connHandler
	closed  bool
	closeErr error

	readBufSize int
	stopped     chan struct{}
}

func newConn(transport Transport, logger Logger, metrics Metrics, readBufSize int) *Conn {
	if logger == nil {
		logger = NopLogger{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if readBufSize <= 0 {
		readBufSize = 4096
	}
	return &Conn{
		transport:   transport,
		decoder:     NewDecoder(),
		logger:      logger,
		metrics:     metrics,
		readBufSize: readBufSize,
		stopped:     make(chan struct{}),
	}
}

// start launches the connection's single read-loop goroutine. Must be
// called exactly once, after conn.handler is set.
func (c *Conn) start() {
	go c.readLoop()
}

func (c *Conn) readLoop() {
	defer close(c.stopped)
	buf := make([]byte, c.readBufSize)
	for {
		n, err := c.transport.Read(buf)
		if n > 0 {
			values, decodeErr := c.decoder.Feed(buf[:n])
			if fatal := c.dispatchAll(values); fatal != nil {
				c.fail(fatal)
				return
			}
			if decodeErr != nil {
				c.fail(decodeErr)
				return
			}
		}
		if err != nil {
			c.fail(err)
			return
		}
	}
}

// dispatchAll feeds each decoded value to the current handler, under the
// connection lock, re-reading c.handler on every iteration so a handler
// swap triggered mid-batch (e.g. Pub/Sub exiting on activeCount == 0)
// immediately affects the rest of the batch.
func (c *Conn) dispatchAll(values []RESPValue) error {
	if len(values) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range values {
		if err := c.handler.handleValue(c, v); err != nil {
			return err
		}
	}
	return nil
}

// fail marks the connection closed, drains the active handler's
// outstanding completions with err, and closes the transport. Safe to call
// more than once; only the first call has any effect (spec §4.4
// "Transport errors").
func (c *Conn) fail(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closeErr = wrapProtocolError(err)
	c.handler.drainWithError(c.closeErr)
	c.mu.Unlock()

	_ = c.transport.Close()
}

// Close fails the connection with ErrClosed, draining any outstanding
// completions and closing the transport. It is the caller-initiated
// counterpart to fail (which is triggered by transport/protocol errors).
func (c *Conn) Close() error {
	c.fail(ErrClosed)
	return nil
}

// submitLocked appends completion to the handler's queue and writes data,
// as one atomic step under c.mu — the ordering spec §4.4 calls the single
// invariant the whole design rests on: "Any implementation that could
// reorder the enqueue and the write is incorrect."
func (c *Conn) submitLocked(enqueue func(), data []byte) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	enqueue()
	_, err := c.transport.Write(data)
	c.mu.Unlock()
	if err != nil {
		c.fail(err)
		return err
	}
	return nil
}

// replaceHandler swaps the active handler, used by CommandPipeline.EnterPubSub
// and PubSubPipeline.ExitPubSub. build is called with c.mu held so it can
// safely inspect the outgoing handler's state (e.g. carry over its FIFO
// queue) without racing a concurrent Submit/dispatch; requireEmpty enforces
// spec §4.4's "Replacement is only legal when the source queue is empty"
// for these caller-initiated transitions. The automatic Pub/Sub exit-on-zero
// transition (pubsub.go) bypasses this method entirely because it is not a
// caller-initiated replacement, it is this connection's own Pub/Sub state
// machine continuing forward with whatever FIFO entries it already held,
// and it already runs with c.mu held by dispatchAll.
func (c *Conn) replaceHandler(requireEmpty bool, build func() connHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.closeErr
	}
	if requireEmpty && c.handler.queueLen() != 0 {
		return ErrQueueNotEmpty
	}
	c.handler = build()
	return nil
}
