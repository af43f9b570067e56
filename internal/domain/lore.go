package domain

import "fmt"

var (
	Omens       = []string{"success", "turmoil", "caution"}
	RelicTypes  = []string{"report", "log", "screenshot"}
	oracleDraft = "Scan scheduled..."
)

// Oracle is a scan whose prophecy is its result.
type Oracle struct {
	ID        string `json:"id"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"createdAt" format:"date-time"`
	Prophecy  string `json:"prophecy"`
}

func NewOracle(o Oracle, d Defaults) Oracle {
	if o.ID == "" {
		o.ID = d.id(OracleType.Prefix)
	}
	if o.Target == "" {
		o.Target = "unknown"
	}
	if o.Kind == "" {
		o.Kind = "generic"
	}
	if o.CreatedAt == "" {
		o.CreatedAt = d.now()
	}
	if o.Prophecy == "" {
		o.Prophecy = oracleDraft
	}
	return o
}

func (o Oracle) Key() string                    { return o.ID }
func (o Oracle) Describe() Descriptor           { return OracleType }
func (o Oracle) WithDefaults(d Defaults) Oracle { return NewOracle(o, d) }
func (o Oracle) Clone() Oracle                  { return o }

func (o Oracle) Validate() error {
	return validate(OracleType.Label,
		required("target", o.Target),
		required("kind", o.Kind),
	)
}

// Predict sets the prophecy. Without one, pick chooses an omen; pick(n)
// must return a value in [0, n).
func (o *Oracle) Predict(prophecy string, pick func(n int) int) *Oracle {
	if prophecy != "" {
		o.Prophecy = prophecy
		return o
	}
	o.Prophecy = fmt.Sprintf("Omens suggest %s.", Omens[pick(len(Omens))])
	return o
}

// Relic is an artifact produced by a battle.
type Relic struct {
	ID        string  `json:"id"`
	Type      string  `json:"type" enum:"report,log,screenshot"`
	Name      string  `json:"name"`
	BattleID  *string `json:"battleId"`
	URL       *string `json:"url"`
	CreatedAt string  `json:"createdAt" format:"date-time"`
}

func NewRelic(r Relic, d Defaults) Relic {
	if r.ID == "" {
		r.ID = d.id(RelicType.Prefix)
	}
	if r.Type == "" {
		r.Type = "report"
	}
	if r.CreatedAt == "" {
		r.CreatedAt = d.now()
	}
	return r
}

func (r Relic) Key() string                   { return r.ID }
func (r Relic) Describe() Descriptor          { return RelicType }
func (r Relic) WithDefaults(d Defaults) Relic { return NewRelic(r, d) }

func (r Relic) Clone() Relic {
	r.BattleID = cloneString(r.BattleID)
	r.URL = cloneString(r.URL)
	return r
}

func (r Relic) Validate() error {
	return validate(RelicType.Label,
		required("name", r.Name),
		oneOf("type", r.Type, RelicTypes),
	)
}

// SetURL points the relic at url; an empty url clears it.
func (r *Relic) SetURL(url string) *Relic {
	r.URL = optional(url)
	return r
}
