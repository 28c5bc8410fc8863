package logging

import (
	"go.uber.org/zap"
)

// NewZapLog construye el logger del servicio con el nivel indicado
// ("debug", "info", "warn", "error")
func NewZapLog(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl

	zl, err := zapcfg.Build()
	if err != nil {
		return nil, err
	}

	return zl.Sugar(), nil
}
