package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cargonix/internal/types"
)

func fixturePackage(t *testing.T, name string, version string) (types.Package, string) {
	t.Helper()
	dir := t.TempDir()
	parsed, err := types.ParseVersion(version)
	require.NoError(t, err)
	return types.Package{
		ID:           types.PackageID(name + " " + version),
		Name:         name,
		Version:      parsed,
		Edition:      "2021",
		Authors:      []string{"Fixture Author <fixture@example.com>"},
		ManifestPath: filepath.Join(dir, "Cargo.toml"),
	}, canonicalDir(t, dir)
}

func TestResolveAssemblesDerivation(t *testing.T) {
	pkg, packageDir := fixturePackage(t, "app", "0.1.0")
	require.NoError(t, os.MkdirAll(filepath.Join(packageDir, "src"), 0o755))

	pkg.Targets = []types.Target{
		{Name: "app", Kind: []types.TargetKind{types.TargetKindLib}, SrcPath: filepath.Join(packageDir, "src", "lib.rs")},
		{Name: "app", Kind: []types.TargetKind{types.TargetKindBin}, SrcPath: filepath.Join(packageDir, "src", "main.rs")},
		{Name: "build-script-build", Kind: []types.TargetKind{types.TargetKindCustomBuild}, SrcPath: filepath.Join(packageDir, "build.rs")},
	}
	pkg.Features = map[string][]string{"default": {"std"}, "std": {}}
	pkg.Dependencies = []types.Dependency{{Name: "serde", UsesDefaultFeatures: true}}

	index := testMetadataIndex{
		packages: map[types.PackageID]types.Package{
			"serde 1.0.0": {ID: "serde 1.0.0", Name: "serde"},
		},
		nodes: map[types.PackageID]types.Node{
			pkg.ID:        {ID: pkg.ID, Deps: []types.NodeDep{{Name: "serde", Pkg: "serde 1.0.0"}}, Features: []string{"default", "std"}},
			"serde 1.0.0": {ID: "serde 1.0.0"},
		},
		members: []types.PackageID{pkg.ID},
	}

	cfg := Config{Output: filepath.Join(filepath.Dir(packageDir), "Cargo.nix.json")}
	resolver := NewResolver(cfg, index)

	derivation, err := resolver.Resolve(context.Background(), pkg)
	require.NoError(t, err)

	require.Equal(t, pkg.ID, derivation.PackageID)
	require.Equal(t, "app", derivation.Name)
	require.Equal(t, "2021", derivation.Edition)
	require.Equal(t, "0.1.0", derivation.Version.String())
	require.NotNil(t, derivation.Lib)
	require.Equal(t, "src/lib.rs", derivation.Lib.SrcPath)
	require.NotNil(t, derivation.Build)
	require.Equal(t, "build.rs", derivation.Build.SrcPath)
	require.True(t, derivation.HasBin)
	require.False(t, derivation.IsProcMacro)
	require.True(t, derivation.IsRootOrWorkspaceMember)
	require.Equal(t, []string{"default", "std"}, derivation.ResolvedDefaultFeatures)
	require.Len(t, derivation.Dependencies, 1)
	require.Empty(t, derivation.BuildDependencies)

	// No recorded provenance: the package reads from a local directory
	// relative to the output location.
	local, ok := derivation.Source.(types.LocalDirectorySource)
	require.True(t, ok)
	require.Equal(t, "./"+filepath.Base(packageDir), local.Path)
}

func TestResolveProcMacroTargetSelectsLib(t *testing.T) {
	pkg, packageDir := fixturePackage(t, "macros", "0.2.0")
	require.NoError(t, os.MkdirAll(filepath.Join(packageDir, "src"), 0o755))

	pkg.Targets = []types.Target{
		{Name: "macros", Kind: []types.TargetKind{types.TargetKindProcMacro}, SrcPath: filepath.Join(packageDir, "src", "lib.rs")},
	}

	index := testMetadataIndex{
		packages: map[types.PackageID]types.Package{},
		nodes:    map[types.PackageID]types.Node{pkg.ID: {ID: pkg.ID}},
	}
	cfg := Config{Output: filepath.Join(packageDir, "Cargo.nix.json")}

	derivation, err := NewResolver(cfg, index).Resolve(context.Background(), pkg)
	require.NoError(t, err)
	require.True(t, derivation.IsProcMacro)
	require.NotNil(t, derivation.Lib)
	require.Equal(t, "macros", derivation.Lib.Name)
}

func TestResolveWorkspaceRootFlag(t *testing.T) {
	pkg, packageDir := fixturePackage(t, "root", "1.0.0")
	rootID := pkg.ID

	index := testMetadataIndex{
		packages: map[types.PackageID]types.Package{},
		nodes:    map[types.PackageID]types.Node{pkg.ID: {ID: pkg.ID}},
		root:     &rootID,
	}
	cfg := Config{Output: filepath.Join(packageDir, "Cargo.nix.json")}

	derivation, err := NewResolver(cfg, index).Resolve(context.Background(), pkg)
	require.NoError(t, err)
	require.True(t, derivation.IsRootOrWorkspaceMember)
}

func TestResolveNonMemberFlagFalse(t *testing.T) {
	pkg, packageDir := fixturePackage(t, "dep", "1.0.0")

	index := testMetadataIndex{
		packages: map[types.PackageID]types.Package{},
		nodes:    map[types.PackageID]types.Node{pkg.ID: {ID: pkg.ID}},
		members:  []types.PackageID{"other 1.0.0"},
	}
	cfg := Config{Output: filepath.Join(packageDir, "Cargo.nix.json")}

	derivation, err := NewResolver(cfg, index).Resolve(context.Background(), pkg)
	require.NoError(t, err)
	require.False(t, derivation.IsRootOrWorkspaceMember)
}

func TestResolveTargetOutsidePackageDirIsAbsent(t *testing.T) {
	pkg, packageDir := fixturePackage(t, "odd", "0.1.0")
	elsewhere := t.TempDir()
	pkg.Targets = []types.Target{
		{Name: "odd", Kind: []types.TargetKind{types.TargetKindLib}, SrcPath: filepath.Join(elsewhere, "lib.rs")},
	}

	index := testMetadataIndex{
		packages: map[types.PackageID]types.Package{},
		nodes:    map[types.PackageID]types.Node{pkg.ID: {ID: pkg.ID}},
	}
	cfg := Config{Output: filepath.Join(packageDir, "Cargo.nix.json")}

	derivation, err := NewResolver(cfg, index).Resolve(context.Background(), pkg)
	require.NoError(t, err)
	require.Nil(t, derivation.Lib)
}

func TestResolveMissingNodeFails(t *testing.T) {
	pkg, packageDir := fixturePackage(t, "orphan", "0.1.0")

	index := testMetadataIndex{
		packages: map[types.PackageID]types.Package{},
		nodes:    map[types.PackageID]types.Node{},
	}
	cfg := Config{Output: filepath.Join(packageDir, "Cargo.nix.json")}

	_, err := NewResolver(cfg, index).Resolve(context.Background(), pkg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "orphan 0.1.0")
}
