package types

// PackageID uniquely identifies one resolved package instance. The same
// crate name and version coming from two different sources are two distinct
// identities. IDs order totally by byte comparison, which fixes every
// deterministic sort in the generator.
type PackageID string

// MetadataDocument mirrors the JSON document produced by
// `cargo metadata --format-version 1`.
type MetadataDocument struct {
	Packages         []Package     `json:"packages"`
	WorkspaceMembers []PackageID   `json:"workspace_members"`
	Resolve          *ResolveGraph `json:"resolve"`
	WorkspaceRoot    string        `json:"workspace_root"`
}

// ResolveGraph is the fully solved dependency graph. Version constraint
// solving has already happened upstream; nodes reference concrete package
// identities only.
type ResolveGraph struct {
	Nodes []Node     `json:"nodes"`
	Root  *PackageID `json:"root"`
}

type Package struct {
	ID      PackageID `json:"id"`
	Name    string    `json:"name"`
	Version Version   `json:"version"`
	Edition string    `json:"edition"`
	Authors []string  `json:"authors"`

	// Source is the raw provenance string recorded by cargo, or nil for
	// local workspace packages.
	Source *string `json:"source"`

	ManifestPath string              `json:"manifest_path"`
	Dependencies []Dependency        `json:"dependencies"`
	Targets      []Target            `json:"targets"`
	Features     map[string][]string `json:"features"`
}

// Dependency is one declared requirement as written in a package manifest.
// The same crate may be declared several times, e.g. once per
// target-conditional clause.
type Dependency struct {
	Name                string         `json:"name"`
	Kind                DependencyKind `json:"kind"`
	Rename              *string        `json:"rename"`
	Optional            bool           `json:"optional"`
	UsesDefaultFeatures bool           `json:"uses_default_features"`
	Features            []string       `json:"features"`

	// Target is the cfg expression or target triple gating this
	// declaration, if any.
	Target   *string `json:"target"`
	Registry *string `json:"registry"`
}

type Target struct {
	Name       string       `json:"name"`
	Kind       []TargetKind `json:"kind"`
	CrateTypes []string     `json:"crate_types"`
	SrcPath    string       `json:"src_path"`
	Edition    string       `json:"edition"`
}

// Node is the resolver's record of which package identities one package
// resolved to.
type Node struct {
	ID   PackageID `json:"id"`
	Deps []NodeDep `json:"deps"`

	// Features is the resolved feature set for a default build.
	Features []string `json:"features"`
}

type NodeDep struct {
	Name string    `json:"name"`
	Pkg  PackageID `json:"pkg"`
}
