package ports

import (
	"context"

	"cargonix/internal/types"
)

// MetadataIndexPort exposes identity-indexed lookups over one resolved
// cargo metadata document. Implementations must be safe for concurrent
// reads: per-package resolutions may run in parallel against the same
// index, and the index must not be mutated while they are in flight.
type MetadataIndexPort interface {
	NodeByID(id types.PackageID) (types.Node, bool)
	PackageByID(id types.PackageID) (types.Package, bool)

	// Packages returns every package in the document, ascending by
	// identity.
	Packages() []types.Package

	// Root returns the workspace root package identity, when the document
	// records one.
	Root() (types.PackageID, bool)

	WorkspaceMembers() []types.PackageID
}

// CargoMetadataPort produces the raw resolved-graph document for a
// workspace.
type CargoMetadataPort interface {
	Metadata(ctx context.Context, manifestPath string) ([]byte, error)
}
