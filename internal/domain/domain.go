package domain

import (
	"strconv"
	"sync"
	"time"
)

// TimeLayout is the ISO-8601 layout used for every timestamp field.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t in UTC using TimeLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Descriptor names an entity type and the id prefix it generates.
type Descriptor struct {
	Name   string
	Label  string
	Plural string
	Prefix string
	// Stamp is the wire name of the creation timestamp.
	Stamp string
}

var (
	GuildType    = Descriptor{Name: "guild", Label: "Guild", Plural: "guilds", Prefix: "g", Stamp: "createdAt"}
	GuardianType = Descriptor{Name: "guardian", Label: "Guardian", Plural: "guardians", Prefix: "u", Stamp: "joinedAt"}
	BossType     = Descriptor{Name: "boss", Label: "Boss", Plural: "bosses", Prefix: "b", Stamp: "createdAt"}
	ArsenalType  = Descriptor{Name: "arsenal", Label: "Arsenal", Plural: "arsenals", Prefix: "a", Stamp: "createdAt"}
	WeaponType   = Descriptor{Name: "weapon", Label: "Weapon", Plural: "weapons", Prefix: "w", Stamp: "createdAt"}
	CampaignType = Descriptor{Name: "campaign", Label: "Campaign", Plural: "campaigns", Prefix: "c", Stamp: "createdAt"}
	WoundType    = Descriptor{Name: "wound", Label: "Wound", Plural: "wounds", Prefix: "wd", Stamp: "createdAt"}
	BattleType   = Descriptor{Name: "battle", Label: "Battle", Plural: "battles", Prefix: "bt", Stamp: "startedAt"}
	OracleType   = Descriptor{Name: "oracle", Label: "Oracle", Plural: "oracles", Prefix: "o", Stamp: "createdAt"}
	RelicType    = Descriptor{Name: "relic", Label: "Relic", Plural: "relics", Prefix: "r", Stamp: "createdAt"}
	AllianceType = Descriptor{Name: "alliance", Label: "Alliance", Plural: "alliances", Prefix: "al", Stamp: "createdAt"}
)

// Descriptors lists every entity type in registration order.
func Descriptors() []Descriptor {
	return []Descriptor{
		GuildType, GuardianType, BossType, ArsenalType, WeaponType, CampaignType,
		WoundType, BattleType, OracleType, RelicType, AllianceType,
	}
}

// Record is the contract shared by all entity types: identity, defaults,
// self-validation and deep copies.
type Record[T any] interface {
	Key() string
	Clone() T
	Validate() error
	WithDefaults(d Defaults) T
	Describe() Descriptor
}

// Defaults carries the values a constructor fills into unset fields.
type Defaults struct {
	Now string
	IDs *IDSource
}

// defaultIDs serves constructors called with a zero Defaults.
var defaultIDs = NewIDSource(nil)

func (d Defaults) id(prefix string) string {
	if d.IDs == nil {
		return defaultIDs.Next(prefix)
	}
	return d.IDs.Next(prefix)
}

func (d Defaults) now() string {
	if d.Now == "" {
		return Timestamp(time.Now())
	}
	return d.Now
}

// IDSource generates "<prefix>-<unix millis>" identifiers. The millisecond
// component never repeats within one source, so ids stay unique even when
// several records are created in the same millisecond.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

func (s *IDSource) Next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return prefix + "-" + strconv.FormatInt(ms, 10)
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}

// dedupe keeps the first occurrence of each value and never returns nil.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// addUnique appends v unless present and reports whether the set changed.
func addUnique(set *[]string, v string) bool {
	for _, existing := range *set {
		if existing == v {
			return false
		}
	}
	*set = append(*set, v)
	return true
}

// removeValue drops v from the set and reports whether the set changed.
func removeValue(set *[]string, v string) bool {
	for i, existing := range *set {
		if existing == v {
			*set = append((*set)[:i:i], (*set)[i+1:]...)
			return true
		}
	}
	return false
}

// optional turns an empty string into nil.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Ptr returns a pointer to v.
func Ptr(v string) *string { return &v }
