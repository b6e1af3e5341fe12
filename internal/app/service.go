package app

import (
	"time"

	"cargonix/internal/adapters"
	"cargonix/internal/ports"
)

type Service struct {
	Cargo        ports.CargoMetadataPort
	OutputReader ports.OutputReaderPort
	Prefetch     ports.PrefetchPort
	Clock        func() time.Time
}

func NewService() Service {
	return Service{
		Cargo:        adapters.NewCargoExecAdapter(),
		OutputReader: adapters.NewOutputReaderAdapter(),
		Prefetch:     adapters.NewPrefetchExecAdapter(),
		Clock:        time.Now,
	}
}
