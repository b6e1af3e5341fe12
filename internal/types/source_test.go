package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sha(value string) *string {
	return &value
}

func TestResolvedSourceJSONRoundTrip(t *testing.T) {
	branch := "main"
	cases := []ResolvedSource{
		CratesIoSource{},
		CratesIoSource{Sha256: sha("0123abcd")},
		GitSource{URL: "https://example.com/repo", Rev: "deadbeef"},
		GitSource{URL: "https://example.com/repo", Rev: "deadbeef", Ref: &branch},
		LocalDirectorySource{Path: "./."},
		LocalDirectorySource{Path: "../crates/app"},
	}
	for _, source := range cases {
		data, err := json.Marshal(source)
		require.NoError(t, err)

		restored, err := UnmarshalResolvedSourceJSON(data)
		require.NoError(t, err)
		if diff := cmp.Diff(source, restored); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestResolvedSourceJSONCarriesTypeTag(t *testing.T) {
	data, err := json.Marshal(GitSource{URL: "https://example.com/repo", Rev: "abc"})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Equal(t, "git", fields["type"])
	require.Equal(t, "https://example.com/repo", fields["url"])
	require.Equal(t, "abc", fields["rev"])
	require.NotContains(t, fields, "path")
	require.NotContains(t, fields, "sha256")
}

func TestResolvedSourceYAMLRoundTrip(t *testing.T) {
	cases := []ResolvedSource{
		CratesIoSource{Sha256: sha("0123abcd")},
		GitSource{URL: "https://example.com/repo", Rev: "deadbeef"},
		LocalDirectorySource{Path: "./."},
	}
	for _, source := range cases {
		data, err := yaml.Marshal(source)
		require.NoError(t, err)

		var node yaml.Node
		require.NoError(t, yaml.Unmarshal(data, &node))
		restored, err := UnmarshalResolvedSourceYAML(node.Content[0])
		require.NoError(t, err)
		if diff := cmp.Diff(source, restored); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestUnmarshalResolvedSourceUnknownTag(t *testing.T) {
	_, err := UnmarshalResolvedSourceJSON([]byte(`{"type":"ftp","path":"x"}`))
	require.Error(t, err)
}

func TestCrateDerivationJSONRestoresSourceVariant(t *testing.T) {
	version, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	derivation := CrateDerivation{
		PackageID: "repo 1.2.3",
		Name:      "repo",
		Edition:   "2021",
		Version:   version,
		Source:    GitSource{URL: "https://example.com/repo", Rev: "abc123"},
	}

	data, err := json.Marshal(derivation)
	require.NoError(t, err)

	var restored CrateDerivation
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, derivation.PackageID, restored.PackageID)
	require.Equal(t, "1.2.3", restored.Version.String())
	require.Equal(t, GitSource{URL: "https://example.com/repo", Rev: "abc123"}, restored.Source)
}

func TestCrateDerivationYAMLRestoresSourceVariant(t *testing.T) {
	version, err := ParseVersion("0.4.0")
	require.NoError(t, err)
	derivation := CrateDerivation{
		PackageID: "local 0.4.0",
		Name:      "local",
		Version:   version,
		Source:    LocalDirectorySource{Path: "./crates/local"},
	}

	data, err := yaml.Marshal(derivation)
	require.NoError(t, err)

	var restored CrateDerivation
	require.NoError(t, yaml.Unmarshal(data, &restored))
	require.Equal(t, "0.4.0", restored.Version.String())
	require.Equal(t, LocalDirectorySource{Path: "./crates/local"}, restored.Source)
}
