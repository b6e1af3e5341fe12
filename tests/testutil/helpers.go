// Package testutil provides shared test helpers used across integration
// and unit test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cargonix/internal/types"
)

// FixtureCrate describes one package of a generated cargo workspace. The
// zero value is a plain local library-less crate.
type FixtureCrate struct {
	Name    string
	Version string
	Edition string

	// Source is the raw provenance string, empty for local packages.
	Source string

	Deps []FixtureDep

	Lib         bool
	Bin         bool
	BuildScript bool
	ProcMacro   bool

	Features         map[string][]string
	ResolvedFeatures []string
	Member           bool
}

// FixtureDep names another fixture crate this crate depends on.
type FixtureDep struct {
	Name string
	Kind types.DependencyKind
}

// CrateID returns the package identity used throughout a fixture document.
func CrateID(name string, version string) types.PackageID {
	return types.PackageID(name + " " + version)
}

// WriteMetadataFixture materializes a workspace under root: one directory
// per crate, plus a cargo metadata JSON document wired to those
// directories. It returns the path of the metadata file. Crate directories
// have to exist on disk because resolution canonicalizes them.
func WriteMetadataFixture(t *testing.T, root string, crates []FixtureCrate) string {
	t.Helper()

	versions := make(map[string]string, len(crates))
	for _, crate := range crates {
		versions[crate.Name] = crate.Version
	}

	doc := types.MetadataDocument{
		Resolve:       &types.ResolveGraph{},
		WorkspaceRoot: root,
	}
	for _, crate := range crates {
		dir := filepath.Join(root, crate.Name)
		require.NoError(t, os.MkdirAll(dir, 0o755))

		version, err := types.ParseVersion(crate.Version)
		require.NoError(t, err)

		edition := crate.Edition
		if edition == "" {
			edition = "2021"
		}

		pkg := types.Package{
			ID:           CrateID(crate.Name, crate.Version),
			Name:         crate.Name,
			Version:      version,
			Edition:      edition,
			ManifestPath: filepath.Join(dir, "Cargo.toml"),
			Features:     crate.Features,
		}
		if crate.Source != "" {
			source := crate.Source
			pkg.Source = &source
		}
		if crate.Lib {
			pkg.Targets = append(pkg.Targets, types.Target{
				Name:    crate.Name,
				Kind:    []types.TargetKind{types.TargetKindLib},
				SrcPath: filepath.Join(dir, "src", "lib.rs"),
				Edition: edition,
			})
		}
		if crate.ProcMacro {
			pkg.Targets = append(pkg.Targets, types.Target{
				Name:    crate.Name,
				Kind:    []types.TargetKind{types.TargetKindProcMacro},
				SrcPath: filepath.Join(dir, "src", "lib.rs"),
				Edition: edition,
			})
		}
		if crate.Bin {
			pkg.Targets = append(pkg.Targets, types.Target{
				Name:    crate.Name,
				Kind:    []types.TargetKind{types.TargetKindBin},
				SrcPath: filepath.Join(dir, "src", "main.rs"),
				Edition: edition,
			})
		}
		if crate.BuildScript {
			pkg.Targets = append(pkg.Targets, types.Target{
				Name:    "build-script-build",
				Kind:    []types.TargetKind{types.TargetKindCustomBuild},
				SrcPath: filepath.Join(dir, "build.rs"),
				Edition: edition,
			})
		}

		node := types.Node{
			ID:       pkg.ID,
			Features: crate.ResolvedFeatures,
		}
		for _, dep := range crate.Deps {
			depVersion, ok := versions[dep.Name]
			require.True(t, ok, "fixture dependency %q is not part of the workspace", dep.Name)
			pkg.Dependencies = append(pkg.Dependencies, types.Dependency{
				Name: dep.Name,
				Kind: dep.Kind,
			})
			node.Deps = append(node.Deps, types.NodeDep{
				Name: dep.Name,
				Pkg:  CrateID(dep.Name, depVersion),
			})
		}

		doc.Packages = append(doc.Packages, pkg)
		doc.Resolve.Nodes = append(doc.Resolve.Nodes, node)
		if crate.Member {
			doc.WorkspaceMembers = append(doc.WorkspaceMembers, pkg.ID)
			if doc.Resolve.Root == nil {
				id := pkg.ID
				doc.Resolve.Root = &id
			}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)

	path := filepath.Join(root, "metadata.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
