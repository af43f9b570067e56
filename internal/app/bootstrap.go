package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"guardians/internal/config"
	"guardians/internal/db"
	"guardians/internal/engine"
	"guardians/internal/events"
	"guardians/internal/migrate"
)

// Runtime is a bootstrapped engine plus the resources it holds open.
type Runtime struct {
	Engine engine.Engine
	Config *config.Config
	DB     *sql.DB
}

func (r *Runtime) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// NewLogger builds a production JSON logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Bootstrap opens the chronicle, applies migrations, builds the engine and
// creates the configured seed records.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := db.Open(db.Config{DSN: cfg.Chronicle.DSN})
	if err != nil {
		return nil, err
	}
	version, err := migrate.Migrate(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate chronicle: %w", err)
	}
	eng := engine.New(engine.Options{
		Chronicle:  events.Log{DB: conn},
		Logger:     logger,
		LaxPatches: !cfg.ValidatePatchesEnabled(),
	})
	if err := eng.Seed(ctx, cfg.Seed); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("engine ready",
		zap.String("chronicle", cfg.Chronicle.DSN),
		zap.Int("schema_version", version),
		zap.Any("records", eng.Stats()))
	return &Runtime{Engine: eng, Config: cfg, DB: conn}, nil
}
