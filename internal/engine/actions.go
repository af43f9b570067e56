package engine

import (
	"context"

	"github.com/google/uuid"

	"guardians/internal/domain"
	"guardians/internal/events"
)

const (
	MessageAssigned  = "Assigned"
	MessageTriggered = "Triggered"
	defaultTarget    = "default"
)

func (e Engine) AssignGuardian(ctx context.Context, id, guildID, role string) (domain.Guardian, error) {
	return e.Guardians.apply(ctx, id, "assigned", events.Payload{"guildId": guildID, "role": role},
		func(g *domain.Guardian) error { return g.Assign(guildID, role) })
}

func (e Engine) SetBossStatus(ctx context.Context, id, status string) (domain.Boss, error) {
	return e.Bosses.apply(ctx, id, "status_changed", events.Payload{"status": status},
		func(b *domain.Boss) error { return b.SetStatus(status) })
}

// AddArsenalWeapon links a weapon id to the arsenal; linking twice is a no-op.
func (e Engine) AddArsenalWeapon(ctx context.Context, id, weaponID string) (domain.Arsenal, error) {
	return e.Arsenals.apply(ctx, id, "weapon_added", events.Payload{"weaponId": weaponID},
		func(a *domain.Arsenal) error {
			if weaponID == "" {
				return domain.NewValidationError(domain.ArsenalType.Label, "weaponId", "is required")
			}
			a.AddWeapon(weaponID)
			return nil
		})
}

func (e Engine) RemoveArsenalWeapon(ctx context.Context, id, weaponID string) (domain.Arsenal, error) {
	return e.Arsenals.apply(ctx, id, "weapon_removed", events.Payload{"weaponId": weaponID},
		func(a *domain.Arsenal) error {
			a.RemoveWeapon(weaponID)
			return nil
		})
}

// RunWeapon stamps lastRunAt and hands back a simulated execution.
func (e Engine) RunWeapon(ctx context.Context, id, target string) (domain.Execution, error) {
	if target == "" {
		target = defaultTarget
	}
	exec := domain.Execution{ExecutionID: "x-" + uuid.NewString(), Status: "running", Target: target}
	w, err := e.Weapons.apply(ctx, id, "ran", events.Payload{"executionId": exec.ExecutionID, "target": target},
		func(w *domain.Weapon) error {
			w.MarkRun(e.env.timestamp())
			return nil
		})
	if err != nil {
		return domain.Execution{}, err
	}
	exec.WeaponID = w.ID
	return exec, nil
}

func (e Engine) TriggerCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	return e.Campaigns.apply(ctx, id, "triggered", nil,
		func(c *domain.Campaign) error {
			c.MarkTriggered(e.env.timestamp())
			return nil
		})
}

func (e Engine) HealWound(ctx context.Context, id string) (domain.Wound, error) {
	return e.Wounds.apply(ctx, id, "healed", nil,
		func(w *domain.Wound) error {
			w.Heal(e.env.timestamp())
			return nil
		})
}

func (e Engine) ResolveBattle(ctx context.Context, id, outcome, notes string) (domain.Battle, error) {
	return e.Battles.apply(ctx, id, "resolved", events.Payload{"outcome": outcome},
		func(b *domain.Battle) error { return b.Resolve(outcome, notes) })
}

// PredictOracle stores prophecy, or a random omen when prophecy is empty.
func (e Engine) PredictOracle(ctx context.Context, id, prophecy string) (domain.Oracle, error) {
	return e.Oracles.apply(ctx, id, "predicted", nil,
		func(o *domain.Oracle) error {
			o.Predict(prophecy, e.env.pick)
			return nil
		})
}

// SetRelicURL attaches url to the relic; an empty url clears it.
func (e Engine) SetRelicURL(ctx context.Context, id, url string) (domain.Relic, error) {
	return e.Relics.apply(ctx, id, "url_set", events.Payload{"url": url},
		func(r *domain.Relic) error {
			r.SetURL(url)
			return nil
		})
}

func (e Engine) AddAllianceGuild(ctx context.Context, id, guildID string) (domain.Alliance, error) {
	return e.Alliances.apply(ctx, id, "member_added", events.Payload{"guildId": guildID},
		func(a *domain.Alliance) error {
			if guildID == "" {
				return domain.NewValidationError(domain.AllianceType.Label, "guildId", "is required")
			}
			a.AddGuild(guildID)
			return nil
		})
}

func (e Engine) RemoveAllianceGuild(ctx context.Context, id, guildID string) (domain.Alliance, error) {
	return e.Alliances.apply(ctx, id, "member_removed", events.Payload{"guildId": guildID},
		func(a *domain.Alliance) error {
			a.RemoveGuild(guildID)
			return nil
		})
}
