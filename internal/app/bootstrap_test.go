package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"guardians/internal/app"
	"guardians/internal/config"
	"guardians/internal/events"
)

func TestBootstrapSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	rt, err := app.Bootstrap(ctx, config.Default(), zap.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	for plural, n := range rt.Engine.Stats() {
		assert.Equal(t, 1, n, plural)
	}
	g, err := rt.Engine.Guilds.Get(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "Knowledge and Steel", *g.Motto)

	al, err := rt.Engine.Alliances.Get(ctx, "al-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g-1"}, al.GuildIDs)

	seeded, err := rt.Engine.Chronicle.List(ctx, events.Filter{Type: "guild.seeded"})
	require.NoError(t, err)
	require.Len(t, seeded, 1)
	assert.Equal(t, "g-1", seeded[0].EntityID)
}

func TestBootstrapInvalidSeedFails(t *testing.T) {
	cfg, err := config.FromYAML([]byte("seed:\n  bosses:\n    - { title: Crash, severity: apocalyptic }\n"))
	require.NoError(t, err)

	_, err = app.Bootstrap(context.Background(), cfg, nil)
	assert.EqualError(t, err, "seed bosses: Boss severity must be low, medium, high, or critical")
}

func TestBootstrapFileChronicle(t *testing.T) {
	cfg := config.Default()
	cfg.Chronicle.DSN = t.TempDir() + "/nested/chronicle.db"
	cfg.Seed = nil

	rt, err := app.Bootstrap(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, rt.Close())
}

func TestNewLogger(t *testing.T) {
	logger, err := app.NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = app.NewLogger("loud")
	assert.Error(t, err)
}
