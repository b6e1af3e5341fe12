package core

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargonix/internal/types"
)

const gitSourcePrefix = "git+"

// cratesIoSources are the provenance strings cargo records for the default
// public registry.
var cratesIoSources = map[string]struct{}{
	"registry+https://github.com/rust-lang/crates.io-index": {},
	"sparse+https://index.crates.io/":                       {},
}

// resolveSource classifies a package's provenance into one of the three
// retrieval strategies. Local packages carry no provenance at all; registry
// packages get an absent checksum that the prefetch pass fills in later;
// everything else is attempted as a git source with graceful fallback to a
// local directory.
func resolveSource(ctx context.Context, cfg Config, pkg types.Package, packageDir string) (types.ResolvedSource, error) {
	if pkg.Source == nil {
		path, err := relativeDirectory(cfg, packageDir)
		if err != nil {
			return nil, err
		}
		return types.LocalDirectorySource{Path: path}, nil
	}
	if _, ok := cratesIoSources[*pkg.Source]; ok {
		return types.CratesIoSource{}, nil
	}
	return gitOrLocalDirectory(ctx, cfg, pkg, packageDir)
}

func gitOrLocalDirectory(ctx context.Context, cfg Config, pkg types.Package, packageDir string) (types.ResolvedSource, error) {
	raw := *pkg.Source
	if !strings.HasPrefix(raw, gitSourcePrefix) {
		return fallbackToLocalDirectory(ctx, cfg, pkg, packageDir, "no git+ prefix found")
	}

	parsed, err := url.Parse(raw[len(gitSourcePrefix):])
	if err != nil {
		return fallbackToLocalDirectory(ctx, cfg, pkg, packageDir, "unparseable git url")
	}

	query := parsed.Query()
	var ref *string
	if branch := query.Get("branch"); branch != "" {
		ref = &branch
	}

	// An explicit rev query parameter wins over the URL fragment.
	rev := query.Get("rev")
	if rev == "" {
		rev = parsed.Fragment
	}
	if rev == "" {
		return fallbackToLocalDirectory(ctx, cfg, pkg, packageDir, "no git revision found")
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return types.GitSource{
		URL: parsed.String(),
		Rev: rev,
		Ref: ref,
	}, nil
}

// fallbackToLocalDirectory degrades an unusable provenance string to a
// local directory source. It warns the operator but never aborts the
// resolution.
func fallbackToLocalDirectory(ctx context.Context, cfg Config, pkg types.Package, packageDir string, reason string) (types.ResolvedSource, error) {
	path, err := relativeDirectory(cfg, packageDir)
	if err != nil {
		return nil, err
	}
	source := "N/A"
	if pkg.Source != nil {
		source = *pkg.Source
	}
	log.Ctx(ctx).Warn().
		Str("package", string(pkg.ID)).
		Str("source", source).
		Str("path", path).
		Msgf("%s, falling back to local directory", reason)
	return types.LocalDirectorySource{Path: path}, nil
}

// relativeDirectory computes a portable relative path from the output
// file's directory to packageDir. The result is always explicit-relative:
// "./." for the output directory itself, "../." instead of a bare parent
// marker, and a "./" prefix everywhere a path would otherwise start with a
// plain name.
func relativeDirectory(cfg Config, packageDir string) (string, error) {
	outputDir := filepath.Dir(cfg.Output)
	canonical, err := canonicalize(outputDir)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("could not canonicalize output file directory %q", outputDir)).
			WithCause(err)
	}

	if packageDir == canonical {
		return "./.", nil
	}

	rel, err := filepath.Rel(canonical, packageDir)
	if err != nil {
		rel = packageDir
	}
	rel = filepath.ToSlash(rel)
	switch {
	case filepath.IsAbs(rel):
		return rel, nil
	case rel == "..":
		// A bare parent marker is ambiguous for the downstream consumer.
		return "../.", nil
	case strings.HasPrefix(rel, "../"):
		return rel, nil
	default:
		return "./" + rel, nil
	}
}
