/*
CommandPipeline is component C5, the FIFO command multiplexer. It is the
only connHandler active on a connection until (if ever) a caller enters
Pub/Sub mode via EnterPubSub (see pubsub.go).

Grounded on the teacher's connection.go request/response loop, generalized
from "one request in flight at a time" to an unbounded FIFO queue of
Completions, and on spec §4.4's ordering invariant: enqueue and write
happen as a single atomic step (Conn.submitLocked), and the reply stream is
matched to the queue strictly head-first (handleValue).
*/
package respkit

import "context"

// CommandPipeline pipelines an arbitrary number of commands onto a single
// Transport without waiting for each reply before sending the next,
// matching replies back to callers strictly in send order (spec §4.4
// "FIFO command pipeline multiplexer").
type CommandPipeline struct {
	conn  *Conn
	queue []*Completion
}

// NewCommandPipeline builds a CommandPipeline over transport and starts its
// read loop. The returned pipeline is immediately usable; Submit may be
// called concurrently from multiple goroutines.
func NewCommandPipeline(transport Transport, opts ...Option) *CommandPipeline {
	cfg := defaultOptions()
	for _, o := range opts {
		o(&cfg)
	}
	conn := newConn(transport, cfg.logger, cfg.metrics, cfg.readBufSize)
	cp := &CommandPipeline{conn: conn}
	conn.handler = cp
	conn.start()
	return cp
}

// Submit encodes cmd and hands it to the connection. It does not wait for
// the reply — callers retrieve it via cmd's Completion through Send, or via
// their own stored reference (ClientFacade verb wrappers use Send). ctx is
// honored only up to the point of the write; once the write succeeds the
// command is unconditionally in flight (spec §5: "cancellation ... never
// desynchronizes the FIFO").
func (cp *CommandPipeline) Submit(ctx context.Context, cmd *Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return cp.conn.submitLocked(func() {
		cp.queue = append(cp.queue, cmd.completion)
	}, cmd.Encode())
}

// Send submits cmd and waits for its reply or ctx's cancellation, whichever
// comes first — the common-case convenience wrapper around Submit +
// Completion.Wait.
func (cp *CommandPipeline) Send(ctx context.Context, cmd *Command) (RESPValue, error) {
	if err := cp.Submit(ctx, cmd); err != nil {
		return RESPValue{}, err
	}
	return cmd.completion.Wait(ctx)
}

// Close closes the underlying connection, failing any outstanding
// completions with ErrClosed.
func (cp *CommandPipeline) Close() error { return cp.conn.Close() }

// EnterPubSub transitions the connection to Pub/Sub mode (spec §4.4
// "Handler replacement"), returning the new PubSubPipeline. It fails with
// ErrQueueNotEmpty if cp still has commands in flight — replacement is
// only legal on an empty queue, because an in-flight command's reply has
// nowhere sane to go once the handler changes shape.
func (cp *CommandPipeline) EnterPubSub() (*PubSubPipeline, error) {
	var ps *PubSubPipeline
	err := cp.conn.replaceHandler(true, func() connHandler {
		ps = newPubSubPipeline(cp.conn)
		return ps
	})
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// handleValue implements connHandler. Called with conn.mu held.
func (cp *CommandPipeline) handleValue(conn *Conn, v RESPValue) error {
	if len(cp.queue) == 0 {
		conn.logger.Log(LevelCritical, "received reply with no command awaiting one",
			F("type", v.Type.String()))
		return newProtocolError("unexpected reply: in-flight queue is empty")
	}
	completion := cp.queue[0]
	cp.queue = cp.queue[1:]
	if v.Type == Error {
		completion.fail(&ServerError{Text: v.Str})
		conn.metrics.IncrFailure()
	} else {
		completion.fulfill(v)
		conn.metrics.IncrSuccess()
	}
	return nil
}

// drainWithError implements connHandler.
func (cp *CommandPipeline) drainWithError(err error) {
	pending := cp.queue
	cp.queue = nil
	for _, c := range pending {
		c.fail(err)
	}
}

// queueLen implements connHandler.
func (cp *CommandPipeline) queueLen() int { return len(cp.queue) }

// Option configures a CommandPipeline or PubSubPipeline at construction
// time (spec §6's external collaborators, wired in through a small
// functional-options surface the way the teacher's own server
// constructors are configured).
type Option func(*pipelineConfig)

type pipelineConfig struct {
	logger      Logger
	metrics     Metrics
	readBufSize int
}

func defaultOptions() pipelineConfig {
	return pipelineConfig{logger: NopLogger{}, metrics: NopMetrics{}, readBufSize: 4096}
}

// WithLogger sets the structured logger used for invariant-violation and
// debug diagnostics.
func WithLogger(l Logger) Option {
	return func(c *pipelineConfig) { c.logger = l }
}

// WithMetrics sets the success/failure counter sink.
func WithMetrics(m Metrics) Option {
	return func(c *pipelineConfig) { c.metrics = m }
}

// WithBufferSize sets the read-loop's transport read buffer size.
func WithBufferSize(n int) Option {
	return func(c *pipelineConfig) { c.readBufSize = n }
}
