package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig_EarlierLayerWins(t *testing.T) {
	first := func(*StructuredConfig) (*StructuredConfig, error) {
		return &StructuredConfig{Server: Server{HTTPAddress: ":8080"}}, nil
	}
	second := func(*StructuredConfig) (*StructuredConfig, error) {
		return &StructuredConfig{
			Server:  Server{HTTPAddress: ":9090"},
			Storage: Storage{DB: DB{DSN: "postgres://localhost/app"}},
		}, nil
	}

	cfg, err := buildConfig(first, second)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "postgres://localhost/app", cfg.Storage.DB.DSN)
}

func TestBuildConfig_LayerSeesMergedState(t *testing.T) {
	pathSetter := func(*StructuredConfig) (*StructuredConfig, error) {
		return &StructuredConfig{JSONFilePath: "/etc/app.json"}, nil
	}
	var seen string
	// Skipped layer: returning nil contributes nothing to the merge.
	reader := func(merged *StructuredConfig) (*StructuredConfig, error) {
		seen = merged.JSONFilePath
		return nil, nil
	}

	cfg, err := buildConfig(pathSetter, reader)
	require.NoError(t, err)
	assert.Equal(t, "/etc/app.json", seen)
	assert.Equal(t, "/etc/app.json", cfg.JSONFilePath)
}

func TestBuildConfig_LayerErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	failing := func(*StructuredConfig) (*StructuredConfig, error) { return nil, boom }

	cfg, err := buildConfig(failing)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, boom)
}
