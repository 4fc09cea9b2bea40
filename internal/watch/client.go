package watch

// Client is one consumer attached to a watch key. The engine never blocks
// on a client: the broadcaster consults Ready before sending and skips
// clients that are not ready. A failed Send is logged and otherwise
// ignored; clients are removed only through Unsubscribe.
type Client interface {
	Ready() bool
	Send(payload string) error
}
