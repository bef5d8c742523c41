// Pub/Sub convenience surface on Client (spec §4.5): EnterPubSub is a
// one-line forward to the underlying CommandPipeline so callers using the
// façade don't need to reach into Pipeline() for the common case.
package respkit

// EnterPubSub transitions the client's connection into Pub/Sub mode. See
// CommandPipeline.EnterPubSub for the emptiness precondition.
func (c *Client) EnterPubSub() (*PubSubPipeline, error) {
	return c.pipeline.EnterPubSub()
}
