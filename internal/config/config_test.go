package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, int64(1_000), cfg.Challenge.StartingBalance)
	assert.Equal(t, int64(2_147_000_000), cfg.Challenge.TargetCeiling)
	assert.Equal(t, 2.0, cfg.Challenge.DefaultTaxPct)
	assert.InDelta(t, 0.02, cfg.Challenge.DefaultTaxRate(), 1e-12)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLIPTRACK_SERVER_PORT", "9000")
	t.Setenv("FLIPTRACK_CHALLENGE_DEFAULT_TAX_PCT", "1")
	t.Setenv("FLIPTRACK_AUTH_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 1.0, cfg.Challenge.DefaultTaxPct)
	assert.Equal(t, "secret", cfg.Auth.Token)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "Defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "Postgres backend without a DSN fails",
			mutate:  func(c *Config) { c.Storage.Backend = BackendPostgres },
			wantErr: "postgres backend requires",
		},
		{
			name: "Postgres backend with a DSN passes",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Storage.PostgresDSN = "host=localhost dbname=fliptrack"
			},
		},
		{
			name:    "Unknown backend fails",
			mutate:  func(c *Config) { c.Storage.Backend = "s3" },
			wantErr: "unknown storage backend",
		},
		{
			name:    "Tax above 100 percent fails",
			mutate:  func(c *Config) { c.Challenge.DefaultTaxPct = 150 },
			wantErr: "between 0 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
