package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"guardians/internal/domain"
	"guardians/internal/events"
)

// Options configure a new Engine. Zero values pick sensible defaults.
type Options struct {
	Chronicle events.Log
	Logger    *zap.Logger
	Now       func() time.Time
	// Pick returns a value in [0, n); it drives oracle omens.
	Pick func(n int) int
	// LaxPatches commits merged records without re-validating them.
	LaxPatches bool
}

// env is shared by every Resource of one Engine.
type env struct {
	chronicle       events.Log
	logger          *zap.Logger
	now             func() time.Time
	pick            func(n int) int
	ids             *domain.IDSource
	validatePatches bool
}

func (e *env) defaults() domain.Defaults {
	return domain.Defaults{Now: domain.Timestamp(e.now()), IDs: e.ids}
}

func (e *env) timestamp() string { return domain.Timestamp(e.now()) }

// Engine owns one store per entity type.
type Engine struct {
	Guilds    *Resource[domain.Guild]
	Guardians *Resource[domain.Guardian]
	Bosses    *Resource[domain.Boss]
	Arsenals  *Resource[domain.Arsenal]
	Weapons   *Resource[domain.Weapon]
	Campaigns *Resource[domain.Campaign]
	Wounds    *Resource[domain.Wound]
	Battles   *Resource[domain.Battle]
	Oracles   *Resource[domain.Oracle]
	Relics    *Resource[domain.Relic]
	Alliances *Resource[domain.Alliance]

	Chronicle events.Log
	Logger    *zap.Logger

	env *env
}

func New(opts Options) Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}
	if opts.Chronicle.Now == nil {
		opts.Chronicle.Now = opts.Now
	}
	shared := &env{
		chronicle:       opts.Chronicle,
		logger:          opts.Logger,
		now:             opts.Now,
		pick:            opts.Pick,
		ids:             domain.NewIDSource(opts.Now),
		validatePatches: !opts.LaxPatches,
	}
	return Engine{
		Guilds:    newResource[domain.Guild](shared),
		Guardians: newResource[domain.Guardian](shared),
		Bosses:    newResource[domain.Boss](shared),
		Arsenals:  newResource[domain.Arsenal](shared),
		Weapons:   newResource[domain.Weapon](shared),
		Campaigns: newResource[domain.Campaign](shared),
		Wounds:    newResource[domain.Wound](shared),
		Battles:   newResource[domain.Battle](shared),
		Oracles:   newResource[domain.Oracle](shared),
		Relics:    newResource[domain.Relic](shared),
		Alliances: newResource[domain.Alliance](shared),
		Chronicle: opts.Chronicle,
		Logger:    opts.Logger,
		env:       shared,
	}
}

// Collection is the type-erased view of a Resource.
type Collection interface {
	Descriptor() domain.Descriptor
	Count() int
	CreateFields(ctx context.Context, fields map[string]any) (any, error)
}

// Collections returns every resource in registration order.
func (e Engine) Collections() []Collection {
	return []Collection{
		e.Guilds, e.Guardians, e.Bosses, e.Arsenals, e.Weapons, e.Campaigns,
		e.Wounds, e.Battles, e.Oracles, e.Relics, e.Alliances,
	}
}

// Collection looks a resource up by its plural name (e.g. "wounds").
func (e Engine) Collection(plural string) (Collection, bool) {
	for _, c := range e.Collections() {
		if c.Descriptor().Plural == plural {
			return c, true
		}
	}
	return nil, false
}

// Seed creates records per plural resource name. Unknown names abort before
// anything is stored; an invalid record stops seeding where it fails.
func (e Engine) Seed(ctx context.Context, records map[string][]map[string]any) error {
	for plural := range records {
		if _, ok := e.Collection(plural); !ok {
			return fmt.Errorf("seed: unknown resource %q", plural)
		}
	}
	for _, c := range e.Collections() {
		for _, fields := range records[c.Descriptor().Plural] {
			if _, err := c.CreateFields(ctx, fields); err != nil {
				return fmt.Errorf("seed %s: %w", c.Descriptor().Plural, err)
			}
		}
	}
	return nil
}

// Stats reports the record count per plural resource name.
func (e Engine) Stats() map[string]int {
	stats := make(map[string]int, len(e.Collections()))
	for _, c := range e.Collections() {
		stats[c.Descriptor().Plural] = c.Count()
	}
	return stats
}
