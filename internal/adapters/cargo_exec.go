package adapters

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargonix/internal/ports"
	"cargonix/internal/shared"
)

// CargoExecAdapter obtains the resolved-graph document by invoking the
// cargo binary.
type CargoExecAdapter struct {
	CargoBin string
}

func NewCargoExecAdapter() CargoExecAdapter {
	return CargoExecAdapter{CargoBin: "cargo"}
}

func (a CargoExecAdapter) Metadata(ctx context.Context, manifestPath string) ([]byte, error) {
	args := []string{"metadata", "--format-version", "1", "--locked"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}
	cmd := exec.CommandContext(ctx, a.CargoBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cargo metadata failed").
			WithCause(shared.CommandError(stderr.Bytes(), err))
	}
	return stdout.Bytes(), nil
}

var _ ports.CargoMetadataPort = CargoExecAdapter{}
