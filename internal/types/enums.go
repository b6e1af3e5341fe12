package types

// DependencyKind classifies a declared requirement. Cargo emits JSON null
// for normal dependencies, which decodes to the empty string.
type DependencyKind string

const (
	DependencyKindNormal DependencyKind = ""
	DependencyKindDev    DependencyKind = "dev"
	DependencyKindBuild  DependencyKind = "build"
)

type TargetKind string

const (
	TargetKindLib         TargetKind = "lib"
	TargetKindProcMacro   TargetKind = "proc-macro"
	TargetKindCustomBuild TargetKind = "custom-build"
	TargetKindBin         TargetKind = "bin"
)

type SourceType string

const (
	SourceTypeCratesIo       SourceType = "crates-io"
	SourceTypeGit            SourceType = "git"
	SourceTypeLocalDirectory SourceType = "local-directory"
)

type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)
