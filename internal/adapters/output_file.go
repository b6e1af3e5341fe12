package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"cargonix/internal/ports"
	"cargonix/internal/types"
)

type OutputFileAdapter struct {
	Path string
}

func NewOutputFileAdapter(path string) OutputFileAdapter {
	return OutputFileAdapter{Path: path}
}

func (a OutputFileAdapter) WriteDerivations(set types.DerivationSet, format types.OutputFormat) error {
	if strings.TrimSpace(a.Path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is empty")
	}

	var data []byte
	var err error
	switch format {
	case types.OutputFormatYAML:
		data, err = yaml.Marshal(set)
	case types.OutputFormatJSON, "":
		data, err = json.MarshalIndent(set, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown output format")
	}
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode derivation set").
			WithCause(err)
	}

	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create output directory").
				WithCause(err)
		}
	}
	if err := os.WriteFile(a.Path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write derivation set").
			WithCause(err)
	}
	return nil
}

var _ ports.OutputPort = OutputFileAdapter{}
