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

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadDerivations(path string) (types.DerivationSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DerivationSet{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("derivation file not found").
			WithCause(err)
	}

	var set types.DerivationSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &set)
	default:
		err = json.Unmarshal(data, &set)
	}
	if err != nil {
		return types.DerivationSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid derivation file format").
			WithCause(err)
	}
	return set, nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
