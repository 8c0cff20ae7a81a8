package bus

import "context"

// Envelope is the wire form of a relay event crossing the backplane.
type Envelope struct {
	Room string         `json:"room"`
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Bus is the cross-instance fan-out backplane. A single-node deployment
// simply runs without one.
type Bus interface {
	Publish(ctx context.Context, envelope Envelope) error
	StartForwarder(ctx context.Context, onEnvelope func(Envelope)) error
	Close() error
}
