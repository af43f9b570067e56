package domain

// Arsenal is a named collection of weapons (test suites).
type Arsenal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	CreatedAt   string   `json:"createdAt" format:"date-time"`
	WeaponIDs   []string `json:"weaponIds"`
}

func NewArsenal(a Arsenal, d Defaults) Arsenal {
	if a.ID == "" {
		a.ID = d.id(ArsenalType.Prefix)
	}
	if a.CreatedAt == "" {
		a.CreatedAt = d.now()
	}
	a.WeaponIDs = dedupe(a.WeaponIDs)
	return a
}

func (a Arsenal) Key() string                     { return a.ID }
func (a Arsenal) Describe() Descriptor            { return ArsenalType }
func (a Arsenal) WithDefaults(d Defaults) Arsenal { return NewArsenal(a, d) }

func (a Arsenal) Clone() Arsenal {
	a.Description = cloneString(a.Description)
	a.WeaponIDs = cloneStrings(a.WeaponIDs)
	return a
}

func (a Arsenal) Validate() error {
	return validate(ArsenalType.Label,
		required("name", a.Name),
		distinct("weaponIds", a.WeaponIDs),
	)
}

func (a *Arsenal) AddWeapon(weaponID string) bool    { return addUnique(&a.WeaponIDs, weaponID) }
func (a *Arsenal) RemoveWeapon(weaponID string) bool { return removeValue(&a.WeaponIDs, weaponID) }

// Weapon is a single runnable test.
type Weapon struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	CreatedAt string  `json:"createdAt" format:"date-time"`
	LastRunAt *string `json:"lastRunAt" format:"date-time"`
}

func NewWeapon(w Weapon, d Defaults) Weapon {
	if w.ID == "" {
		w.ID = d.id(WeaponType.Prefix)
	}
	if w.Type == "" {
		w.Type = "generic"
	}
	if w.CreatedAt == "" {
		w.CreatedAt = d.now()
	}
	return w
}

func (w Weapon) Key() string                    { return w.ID }
func (w Weapon) Describe() Descriptor           { return WeaponType }
func (w Weapon) WithDefaults(d Defaults) Weapon { return NewWeapon(w, d) }

func (w Weapon) Clone() Weapon {
	w.LastRunAt = cloneString(w.LastRunAt)
	return w
}

func (w Weapon) Validate() error {
	return validate(WeaponType.Label,
		required("name", w.Name),
	)
}

func (w *Weapon) MarkRun(at string) *Weapon {
	w.LastRunAt = &at
	return w
}

// Execution describes a simulated weapon run.
type Execution struct {
	ExecutionID string `json:"executionId"`
	Status      string `json:"status" enum:"running"`
	WeaponID    string `json:"weaponId"`
	Target      string `json:"target"`
}

// Campaign is a scheduled run (a CI pipeline, in practice).
type Campaign struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Schedule        *string `json:"schedule"`
	CreatedAt       string  `json:"createdAt" format:"date-time"`
	LastTriggeredAt *string `json:"lastTriggeredAt" format:"date-time"`
}

func NewCampaign(c Campaign, d Defaults) Campaign {
	if c.ID == "" {
		c.ID = d.id(CampaignType.Prefix)
	}
	if c.Schedule != nil && *c.Schedule == "" {
		c.Schedule = nil
	}
	if c.CreatedAt == "" {
		c.CreatedAt = d.now()
	}
	return c
}

func (c Campaign) Key() string                      { return c.ID }
func (c Campaign) Describe() Descriptor             { return CampaignType }
func (c Campaign) WithDefaults(d Defaults) Campaign { return NewCampaign(c, d) }

func (c Campaign) Clone() Campaign {
	c.Schedule = cloneString(c.Schedule)
	c.LastTriggeredAt = cloneString(c.LastTriggeredAt)
	return c
}

func (c Campaign) Validate() error {
	return validate(CampaignType.Label,
		required("name", c.Name),
		cronExpression("schedule", c.Schedule),
	)
}

func (c *Campaign) MarkTriggered(at string) *Campaign {
	c.LastTriggeredAt = &at
	return c
}
