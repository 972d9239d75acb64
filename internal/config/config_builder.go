package config

import (
	"fmt"

	"dario.cat/mergo"
)

// A configLayer produces one partial configuration. It sees the config
// merged so far, which lets later layers resolve settings (such as the JSON
// file path) declared by earlier ones. Returning a nil config skips the
// layer.
type configLayer func(merged *StructuredConfig) (*StructuredConfig, error)

func envLayer(*StructuredConfig) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flagsLayer(*StructuredConfig) (*StructuredConfig, error) {
	return ParseFlags(), nil
}

// jsonLayer loads the optional JSON file. The path comes from whichever
// earlier layer set it; without a path there is nothing to load.
func jsonLayer(merged *StructuredConfig) (*StructuredConfig, error) {
	if merged.JSONFilePath == "" {
		return nil, nil
	}
	return parseJSON(merged.JSONFilePath)
}

// buildConfig folds the layers into a single validated config. Merging never
// overwrites a populated field, so earlier layers take priority.
func buildConfig(layers ...configLayer) (*StructuredConfig, error) {
	merged := new(StructuredConfig)
	for _, layer := range layers {
		cfg, err := layer(merged)
		if err != nil {
			return nil, fmt.Errorf("error occured during building config: %w", err)
		}
		if cfg == nil {
			continue
		}
		if err := mergo.Merge(merged, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}
	return merged, merged.validate()
}
