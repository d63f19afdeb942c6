package core

// Frame is a marshaled wire event, opaque to the room layer.
type Frame []byte

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
