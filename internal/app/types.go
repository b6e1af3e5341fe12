package app

import "cargonix/internal/types"

type GenerateRequest struct {
	// ManifestPath locates the workspace Cargo.toml when metadata is
	// obtained by running cargo. Ignored when MetadataPath is set.
	ManifestPath string

	// MetadataPath points at a pre-captured cargo metadata JSON document.
	MetadataPath string

	Output   string
	Format   types.OutputFormat
	Prefetch bool
}

type GenerateResult struct {
	OutputPath           string
	CrateCount           int
	WorkspaceMemberCount int
}

type InspectRequest struct {
	Path string
}

type InspectResult struct {
	CrateCount       int
	SourceCounts     map[types.SourceType]int
	WorkspaceMembers []string
	BuildScriptCount int
	ProcMacroCount   int
}
