package app

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargonix/internal/adapters"
	"cargonix/internal/core"
	"cargonix/internal/types"
)

func (s Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	output := strings.TrimSpace(req.Output)
	assert.NotEmpty(ctx, output, "output path must be set")
	if output == "" {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	format := req.Format
	if format == "" {
		format = types.OutputFormatJSON
	}
	if format != types.OutputFormatJSON && format != types.OutputFormatYAML {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output format must be json or yaml")
	}

	document, err := s.loadMetadata(ctx, req)
	if err != nil {
		return GenerateResult{}, err
	}
	index, err := adapters.NewMetadataIndex(document)
	if err != nil {
		return GenerateResult{}, err
	}

	resolver := core.NewResolver(core.Config{Output: output}, index)
	packages := index.Packages()
	crates := make([]types.CrateDerivation, 0, len(packages))
	for _, pkg := range packages {
		derivation, err := resolver.Resolve(ctx, pkg)
		if err != nil {
			return GenerateResult{}, err
		}
		crates = append(crates, derivation)
	}
	sort.Slice(crates, func(i, j int) bool {
		return crates[i].PackageID < crates[j].PackageID
	})

	if req.Prefetch {
		if err := s.fillChecksums(ctx, crates); err != nil {
			return GenerateResult{}, err
		}
	}

	var root *types.PackageID
	if id, ok := index.Root(); ok {
		root = &id
	}
	set := types.DerivationSet{
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Root:        root,
		Crates:      crates,
	}
	writer := adapters.NewOutputFileAdapter(output)
	if err := writer.WriteDerivations(set, format); err != nil {
		return GenerateResult{}, err
	}

	members := 0
	for _, crate := range crates {
		if crate.IsRootOrWorkspaceMember {
			members++
		}
	}
	log.Ctx(ctx).Info().
		Int("crates", len(crates)).
		Str("output", output).
		Msg("derivation set generated")
	return GenerateResult{
		OutputPath:           output,
		CrateCount:           len(crates),
		WorkspaceMemberCount: members,
	}, nil
}

func (s Service) loadMetadata(ctx context.Context, req GenerateRequest) ([]byte, error) {
	if path := strings.TrimSpace(req.MetadataPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("metadata file not found").
				WithCause(err)
		}
		return data, nil
	}
	if s.Cargo == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cargo metadata port is not configured")
	}
	return s.Cargo.Metadata(ctx, strings.TrimSpace(req.ManifestPath))
}

// fillChecksums runs the later, network-capable pass that the resolution
// core never performs: registry crates get their sha256 filled in place.
func (s Service) fillChecksums(ctx context.Context, crates []types.CrateDerivation) error {
	if s.Prefetch == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("prefetch port is not configured")
	}
	for i := range crates {
		source, ok := crates[i].Source.(types.CratesIoSource)
		if !ok || source.Sha256 != nil {
			continue
		}
		sum, err := s.Prefetch.Sha256(ctx, crates[i].Name, crates[i].Version.String())
		if err != nil {
			return err
		}
		source.Sha256 = &sum
		crates[i].Source = source
		log.Ctx(ctx).Debug().Str("crate", crates[i].Name).Msg("checksum prefetched")
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
