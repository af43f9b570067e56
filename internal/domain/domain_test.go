package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardians/internal/domain"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testDefaults() domain.Defaults {
	return domain.Defaults{
		Now: domain.Timestamp(fixedNow),
		IDs: domain.NewIDSource(func() time.Time { return fixedNow }),
	}
}

func requireInvalid(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	var ve domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, field, ve.Field)
}

func TestNewGuildFillsDefaults(t *testing.T) {
	g := domain.NewGuild(domain.Guild{Name: "Krakow Guild"}, testDefaults())

	assert.Equal(t, "g-1714564800000", g.ID)
	assert.Equal(t, "Krakow Guild", g.Name)
	assert.Equal(t, "2024-05-01T12:00:00.000Z", g.CreatedAt)
	assert.Nil(t, g.Motto)
	require.NoError(t, g.Validate())

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"g-1714564800000","name":"Krakow Guild","motto":null,"createdAt":"2024-05-01T12:00:00.000Z"}`, string(data))
}

func TestIDSourceDistinctWithinSameMillisecond(t *testing.T) {
	d := testDefaults()
	a := domain.NewWeapon(domain.Weapon{Name: "a"}, d)
	b := domain.NewWeapon(domain.Weapon{Name: "b"}, d)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "w-1714564800000", a.ID)
	assert.Equal(t, "w-1714564800001", b.ID)
}

func TestZeroDefaultsStillYieldDistinctIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		g := domain.NewGuild(domain.Guild{Name: "x"}, domain.Defaults{})
		require.False(t, seen[g.ID], "duplicate id %s", g.ID)
		seen[g.ID] = true
	}
}

func TestValidateRequiredBeforeEnum(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
		msg   string
	}{
		{
			name:  "battle_missing_boss",
			err:   domain.Battle{GuildID: "g-1", ArsenalID: "a-1", Environment: "moon"}.Validate(),
			field: "bossId",
			msg:   "Battle bossId is required",
		},
		{
			name:  "battle_bad_environment",
			err:   domain.Battle{GuildID: "g-1", BossID: "b-1", ArsenalID: "a-1", Environment: "moon"}.Validate(),
			field: "environment",
			msg:   "Battle environment must be development, staging, or production",
		},
		{
			name:  "battle_bad_outcome",
			err:   domain.Battle{GuildID: "g-1", BossID: "b-1", ArsenalID: "a-1", Environment: "staging", Outcome: domain.Ptr("draw")}.Validate(),
			field: "outcome",
			msg:   "Battle outcome must be victory, defeat, stalemate, or null",
		},
		{
			name:  "wound_guardian_before_description",
			err:   domain.Wound{Severity: "bogus", Status: "open"}.Validate(),
			field: "guardianId",
			msg:   "Wound guardianId is required",
		},
		{
			name:  "wound_description",
			err:   domain.Wound{GuardianID: "u-1", Severity: "bogus", Status: "open"}.Validate(),
			field: "description",
			msg:   "Wound description is required",
		},
		{
			name:  "wound_severity_before_status",
			err:   domain.Wound{GuardianID: "u-1", Description: "x", Severity: "bogus", Status: "bogus"}.Validate(),
			field: "severity",
			msg:   "Wound severity must be minor, moderate, major, or critical",
		},
		{
			name:  "boss_status",
			err:   domain.Boss{Title: "t", Severity: "low", Status: "closed"}.Validate(),
			field: "status",
			msg:   "Boss status must be new, in-progress, resolved, or wont-fix",
		},
		{
			name:  "guardian_role",
			err:   domain.Guardian{Name: "n", Role: "king"}.Validate(),
			field: "role",
			msg:   "Guardian role must be leader, tester, or scribe",
		},
		{
			name:  "relic_type",
			err:   domain.Relic{Name: "n", Type: "video"}.Validate(),
			field: "type",
			msg:   "Relic type must be report, log, or screenshot",
		},
		{
			name:  "oracle_target",
			err:   domain.Oracle{Kind: "security"}.Validate(),
			field: "target",
			msg:   "Oracle target is required",
		},
		{
			name:  "alliance_duplicates",
			err:   domain.Alliance{Name: "n", GuildIDs: []string{"g-1", "g-1"}}.Validate(),
			field: "guildIds",
			msg:   "Alliance guildIds must not contain duplicates",
		},
		{
			name:  "guild_blank_name",
			err:   domain.Guild{Name: "   "}.Validate(),
			field: "name",
			msg:   "Guild name is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireInvalid(t, tt.err, tt.field)
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestValidateDefaultsProduceValidRecords(t *testing.T) {
	d := testDefaults()
	records := []interface{ Validate() error }{
		domain.NewGuild(domain.Guild{Name: "g"}, d),
		domain.NewGuardian(domain.Guardian{Name: "n"}, d),
		domain.NewBoss(domain.Boss{Title: "t"}, d),
		domain.NewArsenal(domain.Arsenal{Name: "a"}, d),
		domain.NewWeapon(domain.Weapon{Name: "w"}, d),
		domain.NewCampaign(domain.Campaign{Name: "c"}, d),
		domain.NewWound(domain.Wound{GuardianID: "u-1", Description: "d"}, d),
		domain.NewBattle(domain.Battle{GuildID: "g-1", BossID: "b-1", ArsenalID: "a-1"}, d),
		domain.NewOracle(domain.Oracle{}, d),
		domain.NewRelic(domain.Relic{Name: "r"}, d),
		domain.NewAlliance(domain.Alliance{Name: "al"}, d),
	}
	for _, r := range records {
		assert.NoError(t, r.Validate())
	}
}

func TestCampaignSchedule(t *testing.T) {
	tests := []struct {
		schedule *string
		valid    bool
	}{
		{schedule: nil, valid: true},
		{schedule: domain.Ptr("0 2 * * *"), valid: true},
		{schedule: domain.Ptr("*/15 * * * 1-5"), valid: true},
		{schedule: domain.Ptr("0 2 * *"), valid: false},
		{schedule: domain.Ptr("0 2 * * * *"), valid: false},
		{schedule: domain.Ptr("@daily"), valid: false},
		{schedule: domain.Ptr("every night"), valid: false},
		{schedule: domain.Ptr("61 2 * * *"), valid: false},
	}
	for _, tt := range tests {
		err := domain.Campaign{Name: "nightly", Schedule: tt.schedule}.Validate()
		if tt.valid {
			assert.NoError(t, err)
			continue
		}
		requireInvalid(t, err, "schedule")
	}
}

func TestBattleResolve(t *testing.T) {
	b := domain.NewBattle(domain.Battle{GuildID: "g-1", BossID: "b-1", ArsenalID: "a-1"}, testDefaults())

	requireInvalid(t, b.Resolve("draw", "n"), "outcome")
	assert.Nil(t, b.Outcome)

	require.NoError(t, b.Resolve("victory", "clean win"))
	assert.Equal(t, "victory", *b.Outcome)
	assert.Equal(t, "clean win", *b.Notes)

	require.NoError(t, b.Resolve("stalemate", ""))
	assert.Equal(t, "stalemate", *b.Outcome)
	assert.Equal(t, "clean win", *b.Notes)
}

func TestWoundHealIsIdempotent(t *testing.T) {
	w := domain.NewWound(domain.Wound{GuardianID: "u-1", Description: "flaky"}, testDefaults())
	require.Nil(t, w.HealedAt)

	w.Heal("2024-05-01T13:00:00.000Z")
	assert.Equal(t, "healed", w.Status)
	require.NotNil(t, w.HealedAt)

	w.Heal("2024-05-01T14:00:00.000Z")
	assert.Equal(t, "healed", w.Status)
	assert.Equal(t, "2024-05-01T13:00:00.000Z", *w.HealedAt)
}

func TestSetMembership(t *testing.T) {
	a := domain.NewAlliance(domain.Alliance{Name: "Northern Pact", GuildIDs: []string{"g-1", "g-1", "g-2"}}, testDefaults())
	assert.Equal(t, []string{"g-1", "g-2"}, a.GuildIDs)

	assert.True(t, a.AddGuild("g-3"))
	assert.False(t, a.AddGuild("g-3"))
	assert.Equal(t, []string{"g-1", "g-2", "g-3"}, a.GuildIDs)

	assert.True(t, a.RemoveGuild("g-2"))
	assert.False(t, a.RemoveGuild("g-2"))
	assert.Equal(t, []string{"g-1", "g-3"}, a.GuildIDs)

	ar := domain.NewArsenal(domain.Arsenal{Name: "Regression"}, testDefaults())
	assert.NotNil(t, ar.WeaponIDs)
	assert.True(t, ar.AddWeapon("w-1"))
	assert.False(t, ar.AddWeapon("w-1"))
	assert.False(t, ar.RemoveWeapon("w-9"))
	assert.Equal(t, []string{"w-1"}, ar.WeaponIDs)
}

func TestCloneDoesNotShareState(t *testing.T) {
	a := domain.NewAlliance(domain.Alliance{Name: "n", Purpose: domain.Ptr("p"), GuildIDs: []string{"g-1"}}, testDefaults())
	c := a.Clone()
	c.AddGuild("g-2")
	*c.Purpose = "changed"

	assert.Equal(t, []string{"g-1"}, a.GuildIDs)
	assert.Equal(t, "p", *a.Purpose)
}

func TestGuardianAssign(t *testing.T) {
	g := domain.NewGuardian(domain.Guardian{Name: "Agnieszka"}, testDefaults())

	requireInvalid(t, g.Assign("g-1", "king"), "role")
	assert.Nil(t, g.GuildID)

	require.NoError(t, g.Assign("g-1", ""))
	assert.Equal(t, "g-1", *g.GuildID)
	assert.Equal(t, "tester", g.Role)

	require.NoError(t, g.Assign("g-2", "leader"))
	assert.Equal(t, "g-2", *g.GuildID)
	assert.Equal(t, "leader", g.Role)
}

func TestBossSetStatus(t *testing.T) {
	b := domain.NewBoss(domain.Boss{Title: "Intermittent 500"}, testDefaults())
	assert.Equal(t, "medium", b.Severity)
	assert.Equal(t, "new", b.Status)

	requireInvalid(t, b.SetStatus("closed"), "status")
	assert.Equal(t, "new", b.Status)
	require.NoError(t, b.SetStatus("in-progress"))
	assert.Equal(t, "in-progress", b.Status)
}

func TestOraclePredict(t *testing.T) {
	o := domain.NewOracle(domain.Oracle{}, testDefaults())
	assert.Equal(t, "unknown", o.Target)
	assert.Equal(t, "generic", o.Kind)
	assert.Equal(t, "Scan scheduled...", o.Prophecy)

	o.Predict("", func(n int) int { return n - 1 })
	assert.Equal(t, "Omens suggest caution.", o.Prophecy)

	o.Predict("All green.", nil)
	assert.Equal(t, "All green.", o.Prophecy)
}

func TestRelicSetURL(t *testing.T) {
	r := domain.NewRelic(domain.Relic{Name: "Battle report"}, testDefaults())
	assert.Equal(t, "report", r.Type)

	r.SetURL("https://example.test/r-1")
	assert.Equal(t, "https://example.test/r-1", *r.URL)
	r.SetURL("")
	assert.Nil(t, r.URL)
}

func TestProjectionRoundTrip(t *testing.T) {
	d := testDefaults()
	w := domain.NewWound(domain.Wound{GuardianID: "u-1", Description: "Flaky test fatigue", BattleID: domain.Ptr("bt-1")}, d)
	w.Heal(d.Now)

	first, err := json.Marshal(w)
	require.NoError(t, err)
	var back domain.Wound
	require.NoError(t, json.Unmarshal(first, &back))
	second, err := json.Marshal(back)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, w.Validate(), back.Validate())
	assert.Equal(t, w, back)
}

func TestCampaignMarkTriggered(t *testing.T) {
	c := domain.NewCampaign(domain.Campaign{Name: "Nightly run", Schedule: domain.Ptr("")}, testDefaults())
	assert.Nil(t, c.Schedule)
	assert.Nil(t, c.LastTriggeredAt)

	c.MarkTriggered("2024-05-02T02:00:00.000Z")
	assert.Equal(t, "2024-05-02T02:00:00.000Z", *c.LastTriggeredAt)
}
