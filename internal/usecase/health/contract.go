package health

import "context"

// Pinger is one probe. A nil error means the component is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
