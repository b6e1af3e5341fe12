package types

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// DerivationSet is the serialized output of one generate run: one
// CrateDerivation per resolved package, ascending by package identity.
type DerivationSet struct {
	GeneratedAt string            `json:"generated_at" yaml:"generated_at"`
	Root        *PackageID        `json:"root" yaml:"root"`
	Crates      []CrateDerivation `json:"crates" yaml:"crates"`
}

// CrateDerivation carries all data necessary for creating a derivation for
// one crate. Created once per resolution call and immutable thereafter.
type CrateDerivation struct {
	PackageID PackageID `json:"package_id" yaml:"package_id"`
	Name      string    `json:"name" yaml:"name"`
	Edition   string    `json:"edition" yaml:"edition"`
	Authors   []string  `json:"authors" yaml:"authors"`
	Version   Version   `json:"version" yaml:"version"`

	Source ResolvedSource `json:"source" yaml:"source"`

	Dependencies      []ResolvedDependency `json:"dependencies" yaml:"dependencies"`
	BuildDependencies []ResolvedDependency `json:"build_dependencies" yaml:"build_dependencies"`

	// Features holds the feature rules: which feature (key) enables which
	// other features (values).
	Features map[string][]string `json:"features" yaml:"features"`

	// ResolvedDefaultFeatures is the feature set the graph resolved for a
	// default build of this crate.
	ResolvedDefaultFeatures []string `json:"resolved_default_features" yaml:"resolved_default_features"`

	// Build is the target of the custom build script, if any.
	Build *BuildTarget `json:"build" yaml:"build"`

	// Lib is the library target, if any.
	Lib *BuildTarget `json:"lib" yaml:"lib"`

	HasBin                  bool `json:"has_bin" yaml:"has_bin"`
	IsProcMacro             bool `json:"is_proc_macro" yaml:"is_proc_macro"`
	IsRootOrWorkspaceMember bool `json:"is_root_or_workspace_member" yaml:"is_root_or_workspace_member"`
}

// BuildTarget is one build target of a crate. SrcPath is relative to the
// owning package's directory and never escapes it.
type BuildTarget struct {
	Name    string `json:"name" yaml:"name"`
	SrcPath string `json:"src_path" yaml:"src_path"`
}

// ResolvedDependency joins one declared requirement with the package
// identity the graph resolved it to.
type ResolvedDependency struct {
	Name string `json:"name" yaml:"name"`

	// Rename is the new name for the dependency if it is renamed.
	Rename *string `json:"rename" yaml:"rename"`

	PackageID PackageID `json:"package_id" yaml:"package_id"`

	// Targets holds the cfg expressions (or target triples) conditionally
	// enabling the dependency, one per gated declaration. Repeated
	// identical expressions pass through undeduplicated.
	Targets []string `json:"targets" yaml:"targets"`

	// Optional marks a dependency that needs enabling via a feature.
	Optional            bool     `json:"optional" yaml:"optional"`
	UsesDefaultFeatures bool     `json:"uses_default_features" yaml:"uses_default_features"`
	Features            []string `json:"features" yaml:"features"`
}

func (c *CrateDerivation) UnmarshalJSON(data []byte) error {
	type alias CrateDerivation
	aux := struct {
		*alias
		Source json.RawMessage `json:"source"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Source) == 0 || string(aux.Source) == "null" {
		return nil
	}
	source, err := UnmarshalResolvedSourceJSON(aux.Source)
	if err != nil {
		return err
	}
	c.Source = source
	return nil
}

// crateDerivationDoc mirrors CrateDerivation with the source left as a raw
// node, so the tagged union can be decoded by hand.
type crateDerivationDoc struct {
	PackageID               PackageID            `yaml:"package_id"`
	Name                    string               `yaml:"name"`
	Edition                 string               `yaml:"edition"`
	Authors                 []string             `yaml:"authors"`
	Version                 Version              `yaml:"version"`
	Source                  yaml.Node            `yaml:"source"`
	Dependencies            []ResolvedDependency `yaml:"dependencies"`
	BuildDependencies       []ResolvedDependency `yaml:"build_dependencies"`
	Features                map[string][]string  `yaml:"features"`
	ResolvedDefaultFeatures []string             `yaml:"resolved_default_features"`
	Build                   *BuildTarget         `yaml:"build"`
	Lib                     *BuildTarget         `yaml:"lib"`
	HasBin                  bool                 `yaml:"has_bin"`
	IsProcMacro             bool                 `yaml:"is_proc_macro"`
	IsRootOrWorkspaceMember bool                 `yaml:"is_root_or_workspace_member"`
}

func (c *CrateDerivation) UnmarshalYAML(value *yaml.Node) error {
	var doc crateDerivationDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*c = CrateDerivation{
		PackageID:               doc.PackageID,
		Name:                    doc.Name,
		Edition:                 doc.Edition,
		Authors:                 doc.Authors,
		Version:                 doc.Version,
		Dependencies:            doc.Dependencies,
		BuildDependencies:       doc.BuildDependencies,
		Features:                doc.Features,
		ResolvedDefaultFeatures: doc.ResolvedDefaultFeatures,
		Build:                   doc.Build,
		Lib:                     doc.Lib,
		HasBin:                  doc.HasBin,
		IsProcMacro:             doc.IsProcMacro,
		IsRootOrWorkspaceMember: doc.IsRootOrWorkspaceMember,
	}
	if doc.Source.Kind == 0 || doc.Source.Tag == "!!null" {
		return nil
	}
	source, err := UnmarshalResolvedSourceYAML(&doc.Source)
	if err != nil {
		return err
	}
	c.Source = source
	return nil
}
