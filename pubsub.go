/*
PubSubPipeline is component C6, layered over the same Conn a
CommandPipeline uses (spec §4.5 "Pub/Sub mode handler"). A connection
enters Pub/Sub mode via CommandPipeline.EnterPubSub and leaves it
automatically once its last subscription is cancelled — mirroring the
teacher's own register/deregister pattern in commands.go, generalized from
a fixed command table to a caller-supplied callback table.

Dispatch rule (spec §7): a 3-element array whose first element is one of
"subscribe", "psubscribe", "unsubscribe", "punsubscribe", or "message", or
a 4-element array whose first element is "pmessage", is a Pub/Sub push
frame and is routed to the subscription table. Anything else is treated as
the reply to a whitelisted request/response command (PING, QUIT, ...) and
forwarded to this pipeline's own FIFO queue, with a debug-level log line —
not a protocol error, since nothing about RESP2 framing was violated.

Pattern callbacks are bucketed across patternShards by
github.com/cespare/xxhash/v2, so PMESSAGE dispatch locks only the one shard
its pattern hashes to, and the exported Patterns() introspection call takes
each shard's lock in turn (it still visits every registered pattern)
rather than taking one lock across the whole table; Patterns() in
particular is meant to be called from a health-check or metrics goroutine
concurrently with the connection's own executor, which is why each shard
carries its own mutex instead of relying solely on Conn.mu.
*/
package respkit

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// SubscriptionToken is an opaque handle returned by Subscribe/PSubscribe,
// usable to cancel exactly that one callback registration later (spec §6
// "Supplemented features: SubscriptionToken").
type SubscriptionToken struct {
	id uint64
}

type subscriber struct {
	token SubscriptionToken
	cb    func(channel string, payload []byte)
}

const patternShardCount = 32

type patternShard struct {
	mu   sync.Mutex
	subs map[string][]*subscriber
}

// PubSubPipeline handles a connection once it has entered Pub/Sub mode. It
// is constructed only through CommandPipeline.EnterPubSub.
type PubSubPipeline struct {
	conn *Conn

	// queue holds completions for whitelisted request/response commands
	// issued while in Pub/Sub mode (e.g. PING); it is the same kind of FIFO
	// CommandPipeline keeps, just smaller in practice.
	queue []*Completion

	mu            sync.Mutex
	channelSubs   map[string][]*subscriber
	patternShards [patternShardCount]patternShard
	activeCount   int64
	nextToken     atomic.Uint64
}

func newPubSubPipeline(conn *Conn) *PubSubPipeline {
	ps := &PubSubPipeline{
		conn:        conn,
		channelSubs: make(map[string][]*subscriber),
	}
	for i := range ps.patternShards {
		ps.patternShards[i].subs = make(map[string][]*subscriber)
	}
	return ps
}

func (p *PubSubPipeline) shardFor(pattern string) *patternShard {
	h := xxhash.Sum64String(pattern)
	return &p.patternShards[h%patternShardCount]
}

func (p *PubSubPipeline) allocToken() SubscriptionToken {
	return SubscriptionToken{id: p.nextToken.Add(1)}
}

// Subscribe registers cb against each of channels and issues SUBSCRIBE.
// cb is invoked with (channel, payload) for every "message" frame matching
// one of channels, on the connection's own read-loop goroutine — callers
// that need to do slow work in cb should hand it off to another goroutine
// (spec §4.5: "invoked on the connection's executor; must not block").
//
// Subscribe returns once the command has been written, not once the
// server's subscribe-acknowledgement frame has arrived — that frame
// updates internal bookkeeping asynchronously when it shows up (spec §4.5
// "write discipline": "no completion is queued against server replies
// because the subscription-change frame is consumed by dispatch").
func (p *PubSubPipeline) Subscribe(ctx context.Context, cb func(channel string, payload []byte), channels ...string) (SubscriptionToken, error) {
	if err := ctx.Err(); err != nil {
		return SubscriptionToken{}, err
	}
	if len(channels) == 0 {
		return SubscriptionToken{}, newProtocolError("subscribe requires at least one channel")
	}
	token := p.allocToken()
	sub := &subscriber{token: token, cb: cb}

	args := make([]ToRESP, len(channels))
	for i, ch := range channels {
		args[i] = Arg(ch)
	}
	cmd := NewCommand("SUBSCRIBE", args...)

	err := p.conn.submitLocked(func() {
		p.mu.Lock()
		for _, ch := range channels {
			p.channelSubs[ch] = append(p.channelSubs[ch], sub)
		}
		p.mu.Unlock()
	}, cmd.Encode())
	if err != nil {
		return SubscriptionToken{}, err
	}
	return token, nil
}

// PSubscribe registers cb against each of patterns and issues PSUBSCRIBE.
// cb receives (channel, payload) for every "pmessage" frame whose pattern
// matches — the server tells the client which pattern matched, so no
// client-side glob matching is needed.
func (p *PubSubPipeline) PSubscribe(ctx context.Context, cb func(channel string, payload []byte), patterns ...string) (SubscriptionToken, error) {
	if err := ctx.Err(); err != nil {
		return SubscriptionToken{}, err
	}
	if len(patterns) == 0 {
		return SubscriptionToken{}, newProtocolError("psubscribe requires at least one pattern")
	}
	token := p.allocToken()
	sub := &subscriber{token: token, cb: cb}

	args := make([]ToRESP, len(patterns))
	for i, pat := range patterns {
		args[i] = Arg(pat)
	}
	cmd := NewCommand("PSUBSCRIBE", args...)

	err := p.conn.submitLocked(func() {
		for _, pat := range patterns {
			shard := p.shardFor(pat)
			shard.mu.Lock()
			shard.subs[pat] = append(shard.subs[pat], sub)
			shard.mu.Unlock()
		}
	}, cmd.Encode())
	if err != nil {
		return SubscriptionToken{}, err
	}
	return token, nil
}

// UnsubscribeChannels removes every callback registered against channels
// (regardless of token) and issues UNSUBSCRIBE. With no channels, it
// unsubscribes from all of them (bare UNSUBSCRIBE).
func (p *PubSubPipeline) UnsubscribeChannels(ctx context.Context, channels ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	args := make([]ToRESP, len(channels))
	for i, ch := range channels {
		args[i] = Arg(ch)
	}
	cmd := NewCommand("UNSUBSCRIBE", args...)
	return p.conn.submitLocked(func() {
		p.mu.Lock()
		if len(channels) == 0 {
			p.channelSubs = make(map[string][]*subscriber)
		} else {
			for _, ch := range channels {
				delete(p.channelSubs, ch)
			}
		}
		p.mu.Unlock()
	}, cmd.Encode())
}

// UnsubscribePatterns removes every callback registered against patterns
// and issues PUNSUBSCRIBE. With no patterns, it unsubscribes from all.
func (p *PubSubPipeline) UnsubscribePatterns(ctx context.Context, patterns ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	args := make([]ToRESP, len(patterns))
	for i, pat := range patterns {
		args[i] = Arg(pat)
	}
	cmd := NewCommand("PUNSUBSCRIBE", args...)
	return p.conn.submitLocked(func() {
		if len(patterns) == 0 {
			for i := range p.patternShards {
				shard := &p.patternShards[i]
				shard.mu.Lock()
				shard.subs = make(map[string][]*subscriber)
				shard.mu.Unlock()
			}
			return
		}
		for _, pat := range patterns {
			shard := p.shardFor(pat)
			shard.mu.Lock()
			delete(shard.subs, pat)
			shard.mu.Unlock()
		}
	}, cmd.Encode())
}

// Unsubscribe cancels exactly the callback token identifies. If it was the
// last callback registered for a channel or pattern, that channel/pattern
// is also unsubscribed at the server (issuing UNSUBSCRIBE/PUNSUBSCRIBE for
// whatever became empty); otherwise no wire command is sent at all.
func (p *PubSubPipeline) Unsubscribe(ctx context.Context, token SubscriptionToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var emptyChannels, emptyPatterns []string
	p.mu.Lock()
	for ch, subs := range p.channelSubs {
		filtered := removeToken(subs, token)
		if len(filtered) == 0 {
			delete(p.channelSubs, ch)
			emptyChannels = append(emptyChannels, ch)
		} else {
			p.channelSubs[ch] = filtered
		}
	}
	p.mu.Unlock()

	for i := range p.patternShards {
		shard := &p.patternShards[i]
		shard.mu.Lock()
		for pat, subs := range shard.subs {
			filtered := removeToken(subs, token)
			if len(filtered) == 0 {
				delete(shard.subs, pat)
				emptyPatterns = append(emptyPatterns, pat)
			} else {
				shard.subs[pat] = filtered
			}
		}
		shard.mu.Unlock()
	}

	if len(emptyChannels) > 0 {
		if err := p.UnsubscribeChannels(ctx, emptyChannels...); err != nil {
			return err
		}
	}
	if len(emptyPatterns) > 0 {
		if err := p.UnsubscribePatterns(ctx, emptyPatterns...); err != nil {
			return err
		}
	}
	return nil
}

func removeToken(subs []*subscriber, token SubscriptionToken) []*subscriber {
	out := subs[:0:0]
	for _, s := range subs {
		if s.token != token {
			out = append(out, s)
		}
	}
	return out
}

// Patterns returns every pattern currently registered via PSubscribe,
// safe to call concurrently with the connection's own executor.
func (p *PubSubPipeline) Patterns() []string {
	var out []string
	for i := range p.patternShards {
		shard := &p.patternShards[i]
		shard.mu.Lock()
		for pat := range shard.subs {
			out = append(out, pat)
		}
		shard.mu.Unlock()
	}
	return out
}

// Ping submits a whitelisted PING while in Pub/Sub mode and waits for its
// reply through this pipeline's own FIFO queue.
func (p *PubSubPipeline) Ping(ctx context.Context) (RESPValue, error) {
	cmd := NewCommand("PING")
	if err := p.conn.submitLocked(func() {
		p.queue = append(p.queue, cmd.completion)
	}, cmd.Encode()); err != nil {
		return RESPValue{}, err
	}
	return cmd.completion.Wait(ctx)
}

// ExitPubSub transitions the connection back to plain command mode. It
// fails with ErrQueueNotEmpty if p still has whitelisted commands in
// flight. Callers do not normally need this: activeCount reaching zero
// already triggers the same transition automatically (handleValue below).
func (p *PubSubPipeline) ExitPubSub() (*CommandPipeline, error) {
	var cp *CommandPipeline
	err := p.conn.replaceHandler(true, func() connHandler {
		cp = &CommandPipeline{conn: p.conn, queue: p.queue}
		return cp
	})
	if err != nil {
		return nil, err
	}
	return cp, nil
}

// handleValue implements connHandler. Called with conn.mu held.
func (p *PubSubPipeline) handleValue(conn *Conn, v RESPValue) error {
	kind, ok := pubSubFrameKind(v)
	if !ok {
		// Not Pub/Sub-shaped: this is a reply to a whitelisted command.
		if len(p.queue) == 0 {
			conn.logger.Log(LevelCritical, "pubsub: received non-pubsub frame with empty queue",
				F("type", v.Type.String()))
			return newProtocolError("pubsub: unexpected reply with empty in-flight queue")
		}
		completion := p.queue[0]
		p.queue = p.queue[1:]
		if v.Type == Error {
			completion.fail(&ServerError{Text: v.Str})
			conn.metrics.IncrFailure()
		} else {
			completion.fulfill(v)
			conn.metrics.IncrSuccess()
		}
		conn.logger.Log(LevelDebug, "pubsub: forwarded non-pubsub frame to whitelisted-command queue")
		return nil
	}

	switch kind {
	case "message":
		channel, err := DecodeString(v.Items[1])
		if err != nil {
			return wrapProtocolError(err)
		}
		payload, err := DecodeBytes(v.Items[2])
		if err != nil {
			return wrapProtocolError(err)
		}
		p.mu.Lock()
		subs := append([]*subscriber(nil), p.channelSubs[channel]...)
		p.mu.Unlock()
		for _, s := range subs {
			s.cb(channel, payload)
		}
		return nil

	case "pmessage":
		pattern, err := DecodeString(v.Items[1])
		if err != nil {
			return wrapProtocolError(err)
		}
		channel, err := DecodeString(v.Items[2])
		if err != nil {
			return wrapProtocolError(err)
		}
		payload, err := DecodeBytes(v.Items[3])
		if err != nil {
			return wrapProtocolError(err)
		}
		shard := p.shardFor(pattern)
		shard.mu.Lock()
		subs := append([]*subscriber(nil), shard.subs[pattern]...)
		shard.mu.Unlock()
		for _, s := range subs {
			s.cb(channel, payload)
		}
		return nil

	default: // subscribe, psubscribe, unsubscribe, punsubscribe
		count, err := DecodeInt64(v.Items[2])
		if err != nil {
			return wrapProtocolError(err)
		}
		atomic.StoreInt64(&p.activeCount, count)
		if count == 0 {
			// Last subscription cancelled: fall back to command mode. This
			// is not the caller-initiated ExitPubSub path, so it carries
			// over whatever whitelisted-command completions are still
			// queued rather than requiring the queue to be empty first.
			conn.handler = &CommandPipeline{conn: conn, queue: p.queue}
		}
		return nil
	}
}

// drainWithError implements connHandler.
func (p *PubSubPipeline) drainWithError(err error) {
	pending := p.queue
	p.queue = nil
	for _, c := range pending {
		c.fail(err)
	}
}

// queueLen implements connHandler.
func (p *PubSubPipeline) queueLen() int { return len(p.queue) }

// pubSubFrameKind reports whether v is a Pub/Sub push frame and, if so,
// which kind (spec §7 "Dispatch rule").
func pubSubFrameKind(v RESPValue) (string, bool) {
	if v.Type != Array || v.ArrayNull {
		return "", false
	}
	switch len(v.Items) {
	case 3:
		first, err := DecodeString(v.Items[0])
		if err != nil {
			return "", false
		}
		switch first {
		case "subscribe", "psubscribe", "unsubscribe", "punsubscribe", "message":
			return first, true
		}
	case 4:
		first, err := DecodeString(v.Items[0])
		if err == nil && first == "pmessage" {
			return first, true
		}
	}
	return "", false
}
