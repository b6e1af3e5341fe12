package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargonix/internal/ports"
	"cargonix/internal/shared"
)

// PrefetchExecAdapter computes crate tarball checksums by invoking
// nix-prefetch-url, which downloads the crate into the local store and
// prints the sha256 on its last output line.
type PrefetchExecAdapter struct {
	PrefetchBin string
}

func NewPrefetchExecAdapter() PrefetchExecAdapter {
	return PrefetchExecAdapter{PrefetchBin: "nix-prefetch-url"}
}

func (a PrefetchExecAdapter) Sha256(ctx context.Context, name string, version string) (string, error) {
	url := fmt.Sprintf("https://crates.io/api/v1/crates/%s/%s/download", name, version)
	cmd := exec.CommandContext(ctx, a.PrefetchBin, "--name", fmt.Sprintf("%s-%s.tar.gz", name, version), url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("prefetch failed for %s %s", name, version)).
			WithCause(shared.CommandError(stderr.Bytes(), err))
	}
	lines := strings.Fields(strings.TrimSpace(stdout.String()))
	if len(lines) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("prefetch produced no checksum for %s %s", name, version))
	}
	return lines[len(lines)-1], nil
}

var _ ports.PrefetchPort = PrefetchExecAdapter{}
