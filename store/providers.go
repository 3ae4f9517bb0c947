package store

import (
	"fmt"

	"go.uber.org/zap"
)

// NewStore builds the configured backend. Searches are always de-duplicated.
func NewStore(cfg *Config, logger *zap.SugaredLogger) (Store, error) {
	var delegate Store
	var err error

	switch cfg.Backend {
	case BackendSheetDB, "":
		delegate, err = NewSheetDBClient(cfg, logger)
	case BackendWorkbook:
		delegate, err = NewWorkbookStore(cfg)
	default:
		err = fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Infow("store initialized", "backend", cfg.Backend)
	return NewDeduplicatingStore(delegate), nil
}
