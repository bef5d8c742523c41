package respkit

import (
	"context"
	"strings"
)

// Completion is the single-shot producer/consumer handle a Command is
// fulfilled through (spec §3 "Completion"). It is created when a command is
// submitted, held by the pipeline until a reply or a fatal error arrives,
// and then fulfilled exactly once — never both a value and an error, never
// more than once.
type Completion struct {
	done chan struct{}
	val  RESPValue
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// fulfill delivers a successful reply. Safe to call exactly once.
func (c *Completion) fulfill(v RESPValue) {
	c.val = v
	close(c.done)
}

// fail delivers a failure — either a *ServerError (command-level, spec §7)
// or a fatal *ProtocolError/transport error. Safe to call exactly once.
func (c *Completion) fail(err error) {
	c.err = err
	close(c.done)
}

// Wait blocks the caller (not the connection's executor — this runs on the
// caller's own goroutine) until the completion fires or ctx is cancelled.
// Per spec §5, cancelling ctx never removes the command from the in-flight
// queue: it only stops this particular Wait from waiting.
func (c *Completion) Wait(ctx context.Context) (RESPValue, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		return RESPValue{}, ctx.Err()
	}
}

// Command pairs an outbound argument vector with the Completion that will
// be fulfilled once the server's reply (or a fatal error) arrives (spec
// §3). argv is always non-empty and every element is a BulkString; argv[0]
// is the command name, uppercased.
type Command struct {
	argv       []RESPValue
	completion *Completion
}

// NewCommand builds a Command from a verb name and arguments rendered
// through ToRESP. The name is uppercased per spec §3 ("the first element
// being the command name in uppercase ASCII").
func NewCommand(name string, args ...ToRESP) *Command {
	argv := make([]RESPValue, 0, 1+len(args))
	argv = append(argv, BulkStr(strings.ToUpper(name)))
	for _, a := range args {
		argv = append(argv, a.ToRESP())
	}
	return &Command{argv: argv, completion: newCompletion()}
}

// Name returns the uppercased command verb (argv[0]'s text).
func (c *Command) Name() string { return string(c.argv[0].Bulk) }

// Encode renders the command's argv in multi-bulk wire form.
func (c *Command) Encode() []byte { return EncodeCommand(c.argv) }
