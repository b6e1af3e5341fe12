package ports

import "cargonix/internal/types"

type OutputPort interface {
	WriteDerivations(set types.DerivationSet, format types.OutputFormat) error
}

type OutputReaderPort interface {
	ReadDerivations(path string) (types.DerivationSet, error)
}
