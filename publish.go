package leadmagnet

import "context"

// Publisher mirrors a generated PDF to external storage and returns the
// URL it is reachable at.
type Publisher interface {
	Publish(ctx context.Context, name string, pdf []byte) (string, error)
}
