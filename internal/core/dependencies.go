package core

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargonix/internal/ports"
	"cargonix/internal/shared"
	"cargonix/internal/types"
)

// resolvedDependencies pairs a package's graph-resolved dependency targets
// with its declared requirement list. The two inputs are independently
// shaped: the graph knows concrete identities, the declarations know names,
// renames, optional-ness and feature flags.
type resolvedDependencies struct {
	// packages are the resolved target packages, ascending by identity.
	packages []types.Package

	declared []types.Dependency
}

func newResolvedDependencies(metadata ports.MetadataIndexPort, pkg types.Package) (resolvedDependencies, error) {
	node, ok := metadata.NodeByID(pkg.ID)
	if !ok {
		return resolvedDependencies{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf(
				"could not find node for %s\n-- package\n%s",
				pkg.ID, dumpJSON(pkg),
			))
	}

	packages := make([]types.Package, 0, len(node.Deps))
	for _, dep := range node.Deps {
		target, ok := metadata.PackageByID(dep.Pkg)
		if !ok {
			return resolvedDependencies{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf(
					"no matching package for dependency with package id %s in %s\n-- package\n%s\n-- node\n%s",
					dep.Pkg, pkg.ID, dumpJSON(pkg), dumpJSON(node),
				))
		}
		packages = append(packages, target)
	}
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].ID < packages[j].ID
	})

	return resolvedDependencies{
		packages: packages,
		declared: pkg.Dependencies,
	}, nil
}

// filtered joins the resolved target packages against the declared
// requirements surviving the kind predicate, grouped by normalized name.
// Resolved packages without a surviving declaration are some other
// dependency kind (e.g. dev-only) and are skipped.
//
// A name may be declared several times, e.g. once per target-conditional
// clause. The first declaration wins for name, rename, optional,
// default-features and features; declarations for the same normalized name
// are assumed consistent in those fields. The target expressions of every
// gated declaration are concatenated in declaration order, without
// deduplication.
func (r resolvedDependencies) filtered(predicate func(types.Dependency) bool) []types.ResolvedDependency {
	groups := map[string][]types.Dependency{}
	for _, declaration := range r.declared {
		if !predicate(declaration) {
			continue
		}
		key := shared.NormalizeCrateName(declaration.Name)
		groups[key] = append(groups[key], declaration)
	}

	out := []types.ResolvedDependency{}
	for _, pkg := range r.packages {
		declarations, ok := groups[shared.NormalizeCrateName(pkg.Name)]
		if !ok {
			continue
		}
		first := declarations[0]

		targets := []string{}
		for _, declaration := range declarations {
			if declaration.Target != nil && *declaration.Target != "" {
				targets = append(targets, *declaration.Target)
			}
		}

		features := append([]string(nil), first.Features...)
		if features == nil {
			features = []string{}
		}

		out = append(out, types.ResolvedDependency{
			Name:                first.Name,
			Rename:              first.Rename,
			PackageID:           pkg.ID,
			Targets:             targets,
			Optional:            first.Optional,
			UsesDefaultFeatures: first.UsesDefaultFeatures,
			Features:            features,
		})
	}
	return out
}
