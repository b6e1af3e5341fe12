package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"cargonix/internal/types"
)

func fixtureSet(t *testing.T) types.DerivationSet {
	t.Helper()
	version, err := types.ParseVersion("1.0.0")
	require.NoError(t, err)
	sum := "0123abcd"
	root := types.PackageID("app 0.1.0")
	return types.DerivationSet{
		GeneratedAt: "2026-08-29T00:00:00Z",
		Root:        &root,
		Crates: []types.CrateDerivation{
			{
				PackageID:               "serde 1.0.0",
				Name:                    "serde",
				Edition:                 "2018",
				Version:                 version,
				Source:                  types.CratesIoSource{Sha256: &sum},
				Features:                map[string][]string{"default": {"std"}},
				ResolvedDefaultFeatures: []string{"default", "std"},
			},
			{
				PackageID:               "app 0.1.0",
				Name:                    "app",
				Edition:                 "2021",
				Version:                 version,
				Source:                  types.LocalDirectorySource{Path: "./."},
				HasBin:                  true,
				IsRootOrWorkspaceMember: true,
			},
		},
	}
}

func TestWriteDerivationsJSONRoundTrip(t *testing.T) {
	set := fixtureSet(t)
	path := filepath.Join(t.TempDir(), "out", "Cargo.nix.json")

	require.NoError(t, NewOutputFileAdapter(path).WriteDerivations(set, types.OutputFormatJSON))

	restored, err := NewOutputReaderAdapter().ReadDerivations(path)
	require.NoError(t, err)
	if diff := cmp.Diff(set.Crates[0].Source, restored.Crates[0].Source); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, set.GeneratedAt, restored.GeneratedAt)
	require.NotNil(t, restored.Root)
	require.Equal(t, *set.Root, *restored.Root)
	require.Len(t, restored.Crates, 2)
	require.Equal(t, "1.0.0", restored.Crates[1].Version.String())
	require.True(t, restored.Crates[1].IsRootOrWorkspaceMember)
}

func TestWriteDerivationsYAMLRoundTrip(t *testing.T) {
	set := fixtureSet(t)
	path := filepath.Join(t.TempDir(), "Cargo.nix.yaml")

	require.NoError(t, NewOutputFileAdapter(path).WriteDerivations(set, types.OutputFormatYAML))

	restored, err := NewOutputReaderAdapter().ReadDerivations(path)
	require.NoError(t, err)
	require.Len(t, restored.Crates, 2)
	require.Equal(t, types.LocalDirectorySource{Path: "./."}, restored.Crates[1].Source)
}

func TestWriteDerivationsJSONEndsWithNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.nix.json")
	require.NoError(t, NewOutputFileAdapter(path).WriteDerivations(fixtureSet(t), types.OutputFormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestWriteDerivationsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.nix.json")
	err := NewOutputFileAdapter(path).WriteDerivations(fixtureSet(t), types.OutputFormat("toml"))
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestReadDerivationsMissingFile(t *testing.T) {
	_, err := NewOutputReaderAdapter().ReadDerivations(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestReadDerivationsMalformedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := NewOutputReaderAdapter().ReadDerivations(path)
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
