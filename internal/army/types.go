package army

// ========================= Document Model =========================
// Shapes mirror the army-forge JSON export. Optional fields stay
// optional: a document with no spells or background is still a valid
// snapshot, and decoding never fills in placeholder values.

// Document is one version of one army book.
type Document struct {
	UID                string           `json:"uid,omitempty"`
	Name               string           `json:"name"`
	GenericName        string           `json:"genericName,omitempty"`
	VersionString      string           `json:"versionString,omitempty"`
	Background         string           `json:"background,omitempty"`
	EnabledGameSystems []int            `json:"enabledGameSystems,omitempty"`
	Units              []Unit           `json:"units"`
	UpgradePackages    []UpgradePackage `json:"upgradePackages"`
	Spells             []Spell          `json:"spells,omitempty"`
	SpecialRules       []SpecialRule    `json:"specialRules,omitempty"`
}

// Package looks up an upgrade package by uid. A dangling reference from
// a unit simply reports !ok; callers render "no detail available".
func (d *Document) Package(uid string) (*UpgradePackage, bool) {
	for i := range d.UpgradePackages {
		if d.UpgradePackages[i].UID == uid {
			return &d.UpgradePackages[i], true
		}
	}
	return nil, false
}

type Unit struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cost    int      `json:"cost"`
	Quality int      `json:"quality,omitempty"`
	Defense int      `json:"defense,omitempty"`
	Size    int      `json:"size,omitempty"`
	Weapons []Weapon `json:"weapons"`
	Rules   []Rule   `json:"rules"`
	// Upgrades lists the uids of the packages this unit may draw from.
	Upgrades    []string `json:"upgrades"`
	GenericName string   `json:"genericName,omitempty"`
}

type Weapon struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
	// Range 0 means melee.
	Range        int    `json:"range,omitempty"`
	Attacks      int    `json:"attacks"`
	SpecialRules []Rule `json:"specialRules,omitempty"`
	Label        string `json:"label,omitempty"`
}

// EffectiveCount normalizes the optional count field (absent means one model's worth).
func (w Weapon) EffectiveCount() int {
	if w.Count < 1 {
		return 1
	}
	return w.Count
}

type Rule struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Rating int    `json:"rating,omitempty"`
	Label  string `json:"label,omitempty"`
}

// DisplayName is the matching key for rules: name when present, else label.
func (r Rule) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Label
}

type UpgradePackage struct {
	UID      string           `json:"uid"`
	Hint     string           `json:"hint,omitempty"`
	Sections []UpgradeSection `json:"sections"`
}

type UpgradeSection struct {
	ID      string          `json:"id,omitempty"`
	Label   string          `json:"label"`
	Type    string          `json:"type,omitempty"`
	Options []UpgradeOption `json:"options"`
}

type UpgradeOption struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
	// Cost is the flat point cost. Nil means the source carried no cost,
	// which is "unknown", not free.
	Cost *int `json:"cost,omitempty"`
	// Costs overrides the flat cost per unit; shared packages can charge
	// different units differently.
	Costs []UnitCost `json:"costs,omitempty"`
	Gains []Gain     `json:"gains,omitempty"`
}

type UnitCost struct {
	UnitID string `json:"unitId"`
	Cost   int    `json:"cost"`
}

// GainKind tags the variants of an upgrade option's effect.
type GainKind string

const (
	GainWeapon GainKind = "ArmyBookWeapon"
	GainRule   GainKind = "ArmyBookRule"
	GainItem   GainKind = "ArmyBookItem"
)

// Gain is one effect granted by taking an upgrade option: a weapon, a
// rule, or an item carrying nested content. The export tags the variant
// in "type"; only the fields for the tagged kind are populated.
type Gain struct {
	Kind    GainKind `json:"type"`
	Name    string   `json:"name,omitempty"`
	Label   string   `json:"label,omitempty"`
	Count   int      `json:"count,omitempty"`
	Range   int      `json:"range,omitempty"`
	Attacks int      `json:"attacks,omitempty"`
	Rating  int      `json:"rating,omitempty"`
	// Content nests further gains for item grants.
	Content      []Gain `json:"content,omitempty"`
	SpecialRules []Rule `json:"specialRules,omitempty"`
}

// Weapon converts a weapon grant into the weapon it grants.
func (g Gain) Weapon() (Weapon, bool) {
	if g.Kind != GainWeapon {
		return Weapon{}, false
	}
	return Weapon{
		Name:         g.Name,
		Count:        g.Count,
		Range:        g.Range,
		Attacks:      g.Attacks,
		SpecialRules: g.SpecialRules,
		Label:        g.Label,
	}, true
}

// Rule converts a rule grant into the rule it grants.
func (g Gain) Rule() (Rule, bool) {
	if g.Kind != GainRule {
		return Rule{}, false
	}
	return Rule{Name: g.Name, Rating: g.Rating, Label: g.Label}, true
}

type Spell struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Threshold int    `json:"threshold,omitempty"`
	Effect    string `json:"effect,omitempty"`
}

type SpecialRule struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Summary identifies one army within a system/version listing.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
