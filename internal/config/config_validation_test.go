package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validClientConfig() *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Storage: ClientStorage{
			Queue: ClientQueue{Driver: "sqlite", Path: "/tmp/queue.db"},
		},
		Workers: ClientWorkers{SyncInterval: 5 * time.Minute},
	}
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{"valid", func(*ClientConfig) {}, nil},
		{"memory driver needs no path", func(c *ClientConfig) {
			c.Storage.Queue = ClientQueue{Driver: "memory"}
		}, nil},
		{"unknown driver", func(c *ClientConfig) {
			c.Storage.Queue.Driver = "redis"
		}, ErrInvalidStorageConfigs},
		{"file driver without path", func(c *ClientConfig) {
			c.Storage.Queue = ClientQueue{Driver: "file"}
		}, ErrInvalidStorageConfigs},
		{"missing adapter address", func(c *ClientConfig) {
			c.Adapter.HTTPAddress = ""
		}, ErrInvalidAdapterConfigs},
		{"zero request timeout", func(c *ClientConfig) {
			c.Adapter.RequestTimeout = 0
		}, ErrInvalidAdapterConfigs},
		{"zero sync interval", func(c *ClientConfig) {
			c.Workers.SyncInterval = 0
		}, ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	var a NetAddress

	assert.NoError(t, a.Set("localhost:8080"))
	assert.Equal(t, "localhost:8080", a.String())

	assert.NoError(t, a.Set("127.0.0.1:9000"))
	assert.Equal(t, "127.0.0.1:9000", a.String())

	assert.Error(t, a.Set("no-port"))
	assert.Error(t, a.Set("host:notint"))
	assert.Error(t, a.Set("host:0"))
	assert.Error(t, a.Set("bad-host:80"))
}

func TestNetAddress_StringEmpty(t *testing.T) {
	var a NetAddress
	assert.Equal(t, "", a.String())
}
