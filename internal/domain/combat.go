package domain

const WoundStatusHealed = "healed"

var (
	BossSeverities  = []string{"low", "medium", "high", "critical"}
	BossStatuses    = []string{"new", "in-progress", "resolved", "wont-fix"}
	Environments    = []string{"development", "staging", "production"}
	BattleOutcomes  = []string{"victory", "defeat", "stalemate"}
	WoundSeverities = []string{"minor", "moderate", "major", "critical"}
	WoundStatuses   = []string{"open", "healing", WoundStatusHealed}
)

// Boss is a tracked defect.
type Boss struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Severity  string `json:"severity" enum:"low,medium,high,critical"`
	Status    string `json:"status" enum:"new,in-progress,resolved,wont-fix"`
	CreatedAt string `json:"createdAt" format:"date-time"`
}

func NewBoss(b Boss, d Defaults) Boss {
	if b.ID == "" {
		b.ID = d.id(BossType.Prefix)
	}
	if b.Severity == "" {
		b.Severity = "medium"
	}
	if b.Status == "" {
		b.Status = "new"
	}
	if b.CreatedAt == "" {
		b.CreatedAt = d.now()
	}
	return b
}

func (b Boss) Key() string                  { return b.ID }
func (b Boss) Describe() Descriptor         { return BossType }
func (b Boss) WithDefaults(d Defaults) Boss { return NewBoss(b, d) }
func (b Boss) Clone() Boss                  { return b }

func (b Boss) Validate() error {
	return validate(BossType.Label,
		required("title", b.Title),
		oneOf("severity", b.Severity, BossSeverities),
		oneOf("status", b.Status, BossStatuses),
	)
}

// SetStatus changes the boss status, rejecting values outside BossStatuses.
func (b *Boss) SetStatus(status string) error {
	if err := oneOf("status", status, BossStatuses)(BossType.Label); err != nil {
		return err
	}
	b.Status = status
	return nil
}

// Battle is a guild fighting a boss with an arsenal. The three ids are
// references by convention and are never resolved.
type Battle struct {
	ID          string  `json:"id"`
	GuildID     string  `json:"guildId"`
	BossID      string  `json:"bossId"`
	ArsenalID   string  `json:"arsenalId"`
	Environment string  `json:"environment" enum:"development,staging,production"`
	StartedAt   string  `json:"startedAt" format:"date-time"`
	Outcome     *string `json:"outcome" enum:"victory,defeat,stalemate"`
	Notes       *string `json:"notes"`
}

func NewBattle(b Battle, d Defaults) Battle {
	if b.ID == "" {
		b.ID = d.id(BattleType.Prefix)
	}
	if b.Environment == "" {
		b.Environment = "staging"
	}
	if b.StartedAt == "" {
		b.StartedAt = d.now()
	}
	if b.Outcome != nil && *b.Outcome == "" {
		b.Outcome = nil
	}
	return b
}

func (b Battle) Key() string                    { return b.ID }
func (b Battle) Describe() Descriptor           { return BattleType }
func (b Battle) WithDefaults(d Defaults) Battle { return NewBattle(b, d) }

func (b Battle) Clone() Battle {
	b.Outcome = cloneString(b.Outcome)
	b.Notes = cloneString(b.Notes)
	return b
}

func (b Battle) Validate() error {
	return validate(BattleType.Label,
		required("guildId", b.GuildID),
		required("bossId", b.BossID),
		required("arsenalId", b.ArsenalID),
		oneOf("environment", b.Environment, Environments),
		nullableOneOf("outcome", b.Outcome, BattleOutcomes),
	)
}

// Resolve records the outcome. Notes are only replaced when given.
func (b *Battle) Resolve(outcome, notes string) error {
	if !contains(BattleOutcomes, outcome) {
		return ValidationError{Entity: BattleType.Label, Field: "outcome", Reason: "must be " + humanList(BattleOutcomes, false)}
	}
	b.Outcome = &outcome
	if notes != "" {
		b.Notes = &notes
	}
	return nil
}

// Wound is harm a guardian took, optionally tied to a battle or boss.
type Wound struct {
	ID          string  `json:"id"`
	GuardianID  string  `json:"guardianId"`
	Severity    string  `json:"severity" enum:"minor,moderate,major,critical"`
	Status      string  `json:"status" enum:"open,healing,healed"`
	Description string  `json:"description"`
	BattleID    *string `json:"battleId"`
	BossID      *string `json:"bossId"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"createdAt" format:"date-time"`
	HealedAt    *string `json:"healedAt" format:"date-time"`
}

func NewWound(w Wound, d Defaults) Wound {
	if w.ID == "" {
		w.ID = d.id(WoundType.Prefix)
	}
	if w.Severity == "" {
		w.Severity = "minor"
	}
	if w.Status == "" {
		w.Status = "open"
	}
	if w.CreatedAt == "" {
		w.CreatedAt = d.now()
	}
	// A wound patched or seeded as healed carries a heal time.
	if w.Status == WoundStatusHealed && w.HealedAt == nil {
		now := d.now()
		w.HealedAt = &now
	}
	return w
}

func (w Wound) Key() string                   { return w.ID }
func (w Wound) Describe() Descriptor          { return WoundType }
func (w Wound) WithDefaults(d Defaults) Wound { return NewWound(w, d) }

func (w Wound) Clone() Wound {
	w.BattleID = cloneString(w.BattleID)
	w.BossID = cloneString(w.BossID)
	w.Notes = cloneString(w.Notes)
	w.HealedAt = cloneString(w.HealedAt)
	return w
}

func (w Wound) Validate() error {
	return validate(WoundType.Label,
		required("guardianId", w.GuardianID),
		required("description", w.Description),
		oneOf("severity", w.Severity, WoundSeverities),
		oneOf("status", w.Status, WoundStatuses),
	)
}

// Heal marks the wound healed at the given time. Healing an already healed
// wound keeps its original heal time.
func (w *Wound) Heal(at string) *Wound {
	if w.Status == WoundStatusHealed && w.HealedAt != nil {
		return w
	}
	w.Status = WoundStatusHealed
	w.HealedAt = &at
	return w
}
