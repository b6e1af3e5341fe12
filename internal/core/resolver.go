package core

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargonix/internal/ports"
	"cargonix/internal/types"
)

// Config carries the generation settings the core needs.
type Config struct {
	// Output is the path of the generated build file. Its parent directory
	// anchors every relative local-directory path in the output, so it must
	// exist at resolution time.
	Output string
}

// Resolver turns one package of a resolved metadata document into a
// CrateDerivation. Resolutions are independent per package and read-only
// against the index, so callers may run them in parallel.
type Resolver struct {
	Config   Config
	Metadata ports.MetadataIndexPort
}

func NewResolver(cfg Config, metadata ports.MetadataIndexPort) Resolver {
	return Resolver{
		Config:   cfg,
		Metadata: metadata,
	}
}

func (r Resolver) Resolve(ctx context.Context, pkg types.Package) (types.CrateDerivation, error) {
	if r.Metadata == nil {
		return types.CrateDerivation{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a metadata index port")
	}

	resolved, err := newResolvedDependencies(r.Metadata, pkg)
	if err != nil {
		return types.CrateDerivation{}, err
	}

	buildDependencies := resolved.filtered(func(d types.Dependency) bool {
		return d.Kind == types.DependencyKindBuild
	})
	dependencies := resolved.filtered(func(d types.Dependency) bool {
		return d.Kind != types.DependencyKindBuild && d.Kind != types.DependencyKindDev
	})

	manifestDir := filepath.Dir(pkg.ManifestPath)
	packageDir, err := canonicalize(manifestDir)
	if err != nil {
		return types.CrateDerivation{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("cannot canonicalize package directory %q", manifestDir)).
			WithCause(err)
	}

	var lib *types.BuildTarget
	if target, ok := findTarget(pkg.Targets, types.TargetKindLib, types.TargetKindProcMacro); ok {
		if built, targetErr := newBuildTarget(target, packageDir); targetErr == nil {
			lib = &built
		}
	}
	var build *types.BuildTarget
	if target, ok := findTarget(pkg.Targets, types.TargetKindCustomBuild); ok {
		if built, targetErr := newBuildTarget(target, packageDir); targetErr == nil {
			build = &built
		}
	}

	source, err := resolveSource(ctx, r.Config, pkg, packageDir)
	if err != nil {
		return types.CrateDerivation{}, err
	}

	resolvedDefaultFeatures := []string{}
	if node, ok := r.Metadata.NodeByID(pkg.ID); ok {
		resolvedDefaultFeatures = append(resolvedDefaultFeatures, node.Features...)
	}

	features := map[string][]string{}
	for name, enables := range pkg.Features {
		features[name] = append([]string(nil), enables...)
	}

	derivation := types.CrateDerivation{
		PackageID:               pkg.ID,
		Name:                    pkg.Name,
		Edition:                 pkg.Edition,
		Authors:                 append([]string(nil), pkg.Authors...),
		Version:                 pkg.Version,
		Source:                  source,
		Dependencies:            dependencies,
		BuildDependencies:       buildDependencies,
		Features:                features,
		ResolvedDefaultFeatures: resolvedDefaultFeatures,
		Build:                   build,
		Lib:                     lib,
		HasBin:                  hasTargetKind(pkg.Targets, types.TargetKindBin),
		IsProcMacro:             hasTargetKind(pkg.Targets, types.TargetKindProcMacro),
		IsRootOrWorkspaceMember: r.isRootOrWorkspaceMember(pkg.ID),
	}
	log.Ctx(ctx).Debug().Str("crate", pkg.Name).Str("version", pkg.Version.String()).Msg("crate resolved")
	return derivation, nil
}

func (r Resolver) isRootOrWorkspaceMember(id types.PackageID) bool {
	if root, ok := r.Metadata.Root(); ok && root == id {
		return true
	}
	for _, member := range r.Metadata.WorkspaceMembers() {
		if member == id {
			return true
		}
	}
	return false
}

// findTarget returns the first declared target matching any of the given
// kinds.
func findTarget(targets []types.Target, kinds ...types.TargetKind) (types.Target, bool) {
	for _, target := range targets {
		for _, kind := range target.Kind {
			for _, wanted := range kinds {
				if kind == wanted {
					return target, true
				}
			}
		}
	}
	return types.Target{}, false
}

func hasTargetKind(targets []types.Target, wanted types.TargetKind) bool {
	for _, target := range targets {
		for _, kind := range target.Kind {
			if kind == wanted {
				return true
			}
		}
	}
	return false
}

// canonicalize resolves a path to an absolute, symlink-free form. It fails
// when the path does not exist.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// dumpJSON renders a value for embedding in diagnostic errors.
func dumpJSON(value interface{}) string {
	rendered, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "ERROR"
	}
	return string(rendered)
}
