package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 24, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, 750*time.Millisecond, cfg.Store.Timeout)
	assert.Equal(t, "9090", cfg.App.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"bad timeout", map[string]string{"STORE_TIMEOUT": "soon"}},
		{"zero timeout", map[string]string{"STORE_TIMEOUT": "0s"}},
		{"default secret in production", map[string]string{"APP_ENV": "production"}},
		{"memory store in production", map[string]string{
			"APP_ENV":      "production",
			"JWT_SECRET":   "a-real-secret",
			"STORE_DRIVER": "memory",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, int32(25), cfg.MaxConns)
}

func TestLoadDatabaseConfigInvalidPort(t *testing.T) {
	t.Setenv("DB_PORT", "five")

	_, err := LoadDatabaseConfig()
	assert.Error(t, err)
}
