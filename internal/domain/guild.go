package domain

var GuardianRoles = []string{"leader", "tester", "scribe"}

type Guild struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Motto     *string `json:"motto"`
	CreatedAt string  `json:"createdAt" format:"date-time"`
}

func NewGuild(g Guild, d Defaults) Guild {
	if g.ID == "" {
		g.ID = d.id(GuildType.Prefix)
	}
	if g.CreatedAt == "" {
		g.CreatedAt = d.now()
	}
	return g
}

func (g Guild) Key() string                   { return g.ID }
func (g Guild) Describe() Descriptor          { return GuildType }
func (g Guild) WithDefaults(d Defaults) Guild { return NewGuild(g, d) }

func (g Guild) Clone() Guild {
	g.Motto = cloneString(g.Motto)
	return g
}

func (g Guild) Validate() error {
	return validate(GuildType.Label,
		required("name", g.Name),
	)
}

// Guardian is a member of a guild. GuildID references a Guild by convention only.
type Guardian struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Role     string  `json:"role" enum:"leader,tester,scribe"`
	GuildID  *string `json:"guildId"`
	JoinedAt string  `json:"joinedAt" format:"date-time"`
}

func NewGuardian(g Guardian, d Defaults) Guardian {
	if g.ID == "" {
		g.ID = d.id(GuardianType.Prefix)
	}
	if g.Role == "" {
		g.Role = "tester"
	}
	if g.GuildID != nil && *g.GuildID == "" {
		g.GuildID = nil
	}
	if g.JoinedAt == "" {
		g.JoinedAt = d.now()
	}
	return g
}

func (g Guardian) Key() string                      { return g.ID }
func (g Guardian) Describe() Descriptor             { return GuardianType }
func (g Guardian) WithDefaults(d Defaults) Guardian { return NewGuardian(g, d) }

func (g Guardian) Clone() Guardian {
	g.GuildID = cloneString(g.GuildID)
	return g
}

func (g Guardian) Validate() error {
	return validate(GuardianType.Label,
		required("name", g.Name),
		oneOf("role", g.Role, GuardianRoles),
	)
}

// Assign moves the guardian to guildID; an empty role keeps the current one.
// The guardian is left untouched when role is not a known role.
func (g *Guardian) Assign(guildID, role string) error {
	if role != "" && !contains(GuardianRoles, role) {
		return ValidationError{Entity: GuardianType.Label, Field: "role", Reason: "must be " + humanList(GuardianRoles, false)}
	}
	g.GuildID = optional(guildID)
	if role != "" {
		g.Role = role
	}
	return nil
}

// Alliance groups guilds. GuildIDs behaves as an ordered set.
type Alliance struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Purpose   *string  `json:"purpose"`
	GuildIDs  []string `json:"guildIds"`
	CreatedAt string   `json:"createdAt" format:"date-time"`
}

func NewAlliance(a Alliance, d Defaults) Alliance {
	if a.ID == "" {
		a.ID = d.id(AllianceType.Prefix)
	}
	if a.Purpose != nil && *a.Purpose == "" {
		a.Purpose = nil
	}
	a.GuildIDs = dedupe(a.GuildIDs)
	if a.CreatedAt == "" {
		a.CreatedAt = d.now()
	}
	return a
}

func (a Alliance) Key() string                      { return a.ID }
func (a Alliance) Describe() Descriptor             { return AllianceType }
func (a Alliance) WithDefaults(d Defaults) Alliance { return NewAlliance(a, d) }

func (a Alliance) Clone() Alliance {
	a.Purpose = cloneString(a.Purpose)
	a.GuildIDs = cloneStrings(a.GuildIDs)
	return a
}

func (a Alliance) Validate() error {
	return validate(AllianceType.Label,
		required("name", a.Name),
		distinct("guildIds", a.GuildIDs),
	)
}

func (a *Alliance) AddGuild(guildID string) bool    { return addUnique(&a.GuildIDs, guildID) }
func (a *Alliance) RemoveGuild(guildID string) bool { return removeValue(&a.GuildIDs, guildID) }
