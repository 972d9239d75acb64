package config

// validate checks that the final merged [StructuredConfig] satisfies all
// server startup invariants.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	switch cfg.Storage.Queue.Driver {
	case "", "sqlite", "file", "memory":
	default:
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.Queue.Driver != "memory" && cfg.Storage.Queue.Driver != "" &&
		cfg.Storage.Queue.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
