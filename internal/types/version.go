package types

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Version wraps a parsed semantic version so it serializes as the original
// version string in both JSON and YAML documents.
type Version struct {
	*semver.Version
}

// ParseVersion parses a crate version string.
func ParseVersion(value string) (Version, error) {
	parsed, err := semver.StrictNewVersion(value)
	if err != nil {
		return Version{}, err
	}
	return Version{Version: parsed}, nil
}

func (v Version) String() string {
	if v.Version == nil {
		return ""
	}
	return v.Version.String()
}

func (v Version) MarshalJSON() ([]byte, error) {
	if v.Version == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v.Version.String())
}

func (v *Version) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := semver.StrictNewVersion(raw)
	if err != nil {
		return err
	}
	v.Version = parsed
	return nil
}

func (v Version) MarshalYAML() (interface{}, error) {
	if v.Version == nil {
		return nil, nil
	}
	return v.Version.String(), nil
}

func (v *Version) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := semver.StrictNewVersion(raw)
	if err != nil {
		return err
	}
	v.Version = parsed
	return nil
}
