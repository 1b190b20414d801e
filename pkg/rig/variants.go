package rig

// VariantKey addresses a template variant by the avatar's discrete
// state. Empty fields act as wildcards in table entries.
type VariantKey struct {
	State    string
	Mood     string
	Pose     string
	View     string
	BodyForm string
}

// Alternative is one weighted candidate template. Weight 0 means
// "unweighted": unweighted alternatives evenly split whatever weight
// the explicit ones leave over (the whole budget if none are explicit).
type Alternative struct {
	Template string
	Weight   float64
}

// Variant is the set of alternatives declared for one key.
type Variant struct {
	Alternatives []Alternative
}

// VariantTable resolves (state, mood, pose, view, bodyForm) to a
// template name by explicit priority-ordered key search: the most
// specific entry wins, with fields blanked one at a time from
// BodyForm down to State.
type VariantTable struct {
	entries map[VariantKey]Variant
}

// NewVariantTable creates an empty table.
func NewVariantTable() *VariantTable {
	return &VariantTable{entries: make(map[VariantKey]Variant)}
}

// Set declares the alternatives for a key.
func (t *VariantTable) Set(key VariantKey, alts ...Alternative) {
	t.entries[key] = Variant{Alternatives: alts}
}

// Resolve finds the best entry for key and picks one alternative using
// rnd (a uniform draw in [0,1)). Fallback order blanks BodyForm, then
// View, then Pose, then Mood, then State.
func (t *VariantTable) Resolve(key VariantKey, rnd func() float64) (string, bool) {
	for _, k := range fallbacks(key) {
		if v, ok := t.entries[k]; ok && len(v.Alternatives) > 0 {
			return pick(v.Alternatives, rnd), true
		}
	}
	return "", false
}

// fallbacks lists the keys to try, most specific first.
func fallbacks(key VariantKey) []VariantKey {
	keys := make([]VariantKey, 0, 6)
	keys = append(keys, key)
	k := key
	k.BodyForm = ""
	keys = append(keys, k)
	k.View = ""
	keys = append(keys, k)
	k.Pose = ""
	keys = append(keys, k)
	k.Mood = ""
	keys = append(keys, k)
	k.State = ""
	keys = append(keys, k)
	return keys
}

// pick draws one alternative. Explicit weights are taken as declared;
// unweighted entries share the remaining budget evenly. Weights are
// normalized so declarations need not sum to exactly 1.
func pick(alts []Alternative, rnd func() float64) string {
	explicit := 0.0
	unweighted := 0
	for _, a := range alts {
		if a.Weight > 0 {
			explicit += a.Weight
		} else {
			unweighted++
		}
	}
	share := 0.0
	if unweighted > 0 {
		rest := 1.0 - explicit
		if rest < 0 {
			rest = 0
		}
		share = rest / float64(unweighted)
		if explicit == 0 {
			share = 1.0 / float64(unweighted)
		}
	}
	total := explicit + share*float64(unweighted)
	if total <= 0 {
		return alts[0].Template
	}

	r := rnd() * total
	for _, a := range alts {
		w := a.Weight
		if w == 0 {
			w = share
		}
		if r < w {
			return a.Template
		}
		r -= w
	}
	return alts[len(alts)-1].Template
}
