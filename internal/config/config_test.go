package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardians/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "127.0.0.1:4000", cfg.Server.Addr)
	assert.Equal(t, "/api/v1", cfg.Server.BasePath)
	assert.Equal(t, ":memory:", cfg.Chronicle.DSN)
	assert.True(t, cfg.ValidatePatchesEnabled())
	assert.Len(t, cfg.Seed, 11)
	assert.Equal(t, "Krakow Guild", cfg.Seed["guilds"][0]["name"])
	assert.Equal(t, "0 2 * * *", cfg.Seed["campaigns"][0]["schedule"])
}

func TestFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "partial_file_keeps_defaults",
			yaml: "server:\n  addr: 0.0.0.0:8080\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
				assert.Equal(t, "/api/v1", cfg.Server.BasePath)
				assert.Len(t, cfg.Seed, 11)
			},
		},
		{
			name: "seed_replaces_default_seed",
			yaml: "seed:\n  guilds:\n    - { name: Gdansk Guild }\n",
			check: func(t *testing.T, cfg *config.Config) {
				require.Len(t, cfg.Seed, 1)
				assert.Equal(t, "Gdansk Guild", cfg.Seed["guilds"][0]["name"])
			},
		},
		{
			name: "empty_seed_disables_seeding",
			yaml: "seed: {}\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Empty(t, cfg.Seed)
			},
		},
		{
			name: "lax_patches",
			yaml: "policies:\n  validate_patches: false\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.False(t, cfg.ValidatePatchesEnabled())
			},
		},
		{
			name:    "unknown_seed_resource",
			yaml:    "seed:\n  dragons:\n    - { name: Smaug }\n",
			wantErr: "config.seed has unknown resource dragons",
		},
		{
			name:    "bad_base_path",
			yaml:    "server:\n  base_path: api\n",
			wantErr: "config.server.base_path must start with '/'",
		},
		{
			name:    "bad_log_level",
			yaml:    "log:\n  level: loud\n",
			wantErr: "config.log.level",
		},
		{
			name:    "malformed",
			yaml:    "server: [",
			wantErr: "invalid config yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.FromYAML([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.LoadOptional(config.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(config.Path(dir))
	assert.ErrorContains(t, err, "not found")

	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	cfg, err = config.LoadOptional(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}
