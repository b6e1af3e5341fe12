package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ResolvedSource describes how to retrieve the source of one crate. It is a
// closed set of exactly three variants: CratesIoSource, GitSource, and
// LocalDirectorySource. Values serialize with a self-describing "type" tag
// carrying only that variant's fields.
type ResolvedSource interface {
	Type() SourceType
	isResolvedSource()
}

// CratesIoSource fetches from the default public registry. Sha256 starts
// absent and is filled by a separate, later, network-capable pass.
type CratesIoSource struct {
	Sha256 *string `json:"sha256" yaml:"sha256"`
}

// GitSource fetches from a git remote at a pinned revision. URL never
// carries a query string or fragment, and Rev is non-empty.
type GitSource struct {
	URL string `json:"url" yaml:"url"`
	Rev string `json:"rev" yaml:"rev"`

	// Ref is the branch name, when one was recorded.
	Ref *string `json:"ref" yaml:"ref"`
}

// LocalDirectorySource reads from the local filesystem. Path is relative to
// the generated output file, or the literal current-directory marker "./.".
type LocalDirectorySource struct {
	Path string `json:"path" yaml:"path"`
}

func (CratesIoSource) Type() SourceType       { return SourceTypeCratesIo }
func (GitSource) Type() SourceType            { return SourceTypeGit }
func (LocalDirectorySource) Type() SourceType { return SourceTypeLocalDirectory }

func (CratesIoSource) isResolvedSource()       {}
func (GitSource) isResolvedSource()            {}
func (LocalDirectorySource) isResolvedSource() {}

func (s CratesIoSource) MarshalJSON() ([]byte, error) {
	type alias CratesIoSource
	return json.Marshal(struct {
		Type SourceType `json:"type"`
		alias
	}{Type: SourceTypeCratesIo, alias: alias(s)})
}

func (s GitSource) MarshalJSON() ([]byte, error) {
	type alias GitSource
	return json.Marshal(struct {
		Type SourceType `json:"type"`
		alias
	}{Type: SourceTypeGit, alias: alias(s)})
}

func (s LocalDirectorySource) MarshalJSON() ([]byte, error) {
	type alias LocalDirectorySource
	return json.Marshal(struct {
		Type SourceType `json:"type"`
		alias
	}{Type: SourceTypeLocalDirectory, alias: alias(s)})
}

func (s CratesIoSource) MarshalYAML() (interface{}, error) {
	type alias CratesIoSource
	return struct {
		Type  SourceType `yaml:"type"`
		alias `yaml:",inline"`
	}{Type: SourceTypeCratesIo, alias: alias(s)}, nil
}

func (s GitSource) MarshalYAML() (interface{}, error) {
	type alias GitSource
	return struct {
		Type  SourceType `yaml:"type"`
		alias `yaml:",inline"`
	}{Type: SourceTypeGit, alias: alias(s)}, nil
}

func (s LocalDirectorySource) MarshalYAML() (interface{}, error) {
	type alias LocalDirectorySource
	return struct {
		Type  SourceType `yaml:"type"`
		alias `yaml:",inline"`
	}{Type: SourceTypeLocalDirectory, alias: alias(s)}, nil
}

// UnmarshalResolvedSourceJSON restores the proper variant from its tagged
// JSON form.
func UnmarshalResolvedSourceJSON(data []byte) (ResolvedSource, error) {
	var envelope struct {
		Type SourceType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case SourceTypeCratesIo:
		var source CratesIoSource
		if err := json.Unmarshal(data, &source); err != nil {
			return nil, err
		}
		return source, nil
	case SourceTypeGit:
		var source GitSource
		if err := json.Unmarshal(data, &source); err != nil {
			return nil, err
		}
		return source, nil
	case SourceTypeLocalDirectory:
		var source LocalDirectorySource
		if err := json.Unmarshal(data, &source); err != nil {
			return nil, err
		}
		return source, nil
	default:
		return nil, fmt.Errorf("unknown source type %q", envelope.Type)
	}
}

// UnmarshalResolvedSourceYAML restores the proper variant from its tagged
// YAML form.
func UnmarshalResolvedSourceYAML(node *yaml.Node) (ResolvedSource, error) {
	var envelope struct {
		Type SourceType `yaml:"type"`
	}
	if err := node.Decode(&envelope); err != nil {
		return nil, err
	}
	switch envelope.Type {
	case SourceTypeCratesIo:
		var source CratesIoSource
		if err := node.Decode(&source); err != nil {
			return nil, err
		}
		return source, nil
	case SourceTypeGit:
		var source GitSource
		if err := node.Decode(&source); err != nil {
			return nil, err
		}
		return source, nil
	case SourceTypeLocalDirectory:
		var source LocalDirectorySource
		if err := node.Decode(&source); err != nil {
			return nil, err
		}
		return source, nil
	default:
		return nil, fmt.Errorf("unknown source type %q", envelope.Type)
	}
}
