package ports

import "context"

// PrefetchPort computes the content checksum of a registry crate. It backs
// the optional checksum pass that runs after resolution; the resolution
// core never calls it.
type PrefetchPort interface {
	Sha256(ctx context.Context, name string, version string) (string, error)
}
