// Package diff computes a structural comparison between two versions of
// an army document: per-unit status, per-field change records, matched
// upgrade packages with per-unit resolved option costs, and ordered
// add/remove/unchanged alignment of weapon, rule, spell and special-rule
// lists. It is pure: no I/O, no mutation of its inputs, and the result
// is plain data safe to serialize.
package diff

import (
	"errors"

	"armycompare/internal/army"
)

// ErrInvalidDocument reports a document missing its units collection
// entirely. Sparse-but-well-typed documents never trigger it.
var ErrInvalidDocument = errors.New("invalid army document: missing units collection")

// UnitStatus classifies one unit across the two versions.
type UnitStatus string

const (
	UnitNew     UnitStatus = "NEW"
	UnitDeleted UnitStatus = "DELETED"
	UnitChanged UnitStatus = "CHANGED"
	UnitSame    UnitStatus = "SAME"
)

// EntryStatus classifies one element of a compared list.
type EntryStatus string

const (
	EntryAdded     EntryStatus = "ADDED"
	EntryRemoved   EntryStatus = "REMOVED"
	EntryChanged   EntryStatus = "CHANGED"
	EntryUnchanged EntryStatus = "UNCHANGED"
)

// Result is the full comparison of document A against document B.
type Result struct {
	ArmyNameA    string            `json:"armyNameA"`
	ArmyNameB    string            `json:"armyNameB"`
	UnitRows     []UnitRow         `json:"unitRows"`
	Background   BackgroundDiff    `json:"backgroundDiff"`
	Spells       []SpellDiff       `json:"spellsDiff"`
	SpecialRules []SpecialRuleDiff `json:"specialRulesDiff"`
}

// UnitRow is the comparison of one unit. A and B hold the unit as it
// appears on each side (nil when absent); Fields is populated for
// CHANGED rows only.
type UnitRow struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status UnitStatus `json:"status"`
	A      *army.Unit `json:"a,omitempty"`
	B      *army.Unit `json:"b,omitempty"`
	Fields *FieldDiff `json:"fields,omitempty"`
}

// FieldDiff records which unit fields moved and how.
type FieldDiff struct {
	CostA     int  `json:"costA"`
	CostB     int  `json:"costB"`
	CostDelta int  `json:"costDelta"`
	Quality   Stat `json:"quality"`
	Defense   Stat `json:"defense"`
	// Weapons and Rules are ordered alignments, not set differences:
	// an inserted weapon shows up as one ADDED entry between intact
	// UNCHANGED runs.
	Weapons  []WeaponEntry `json:"weapons"`
	Rules    []RuleEntry   `json:"rules"`
	Upgrades []PackageDiff `json:"upgrades"`
}

// Stat is a before/after pair for quality or defense. These are
// lower-is-better target numbers; deciding what counts as an
// improvement is the renderer's call, not recorded here.
type Stat struct {
	A       int  `json:"a"`
	B       int  `json:"b"`
	Changed bool `json:"changed"`
}

type WeaponEntry struct {
	Status EntryStatus `json:"status"`
	Weapon army.Weapon `json:"weapon"`
}

type RuleEntry struct {
	Status EntryStatus `json:"status"`
	Name   string      `json:"name"`
}

// PackageDiff compares one upgrade package as seen from one unit.
// Status is ADDED when the unit gained access to the package, REMOVED
// when it lost it, CHANGED when any option inside moved, UNCHANGED
// otherwise.
type PackageDiff struct {
	UID      string        `json:"uid"`
	Hint     string        `json:"hint,omitempty"`
	Status   EntryStatus   `json:"status"`
	Sections []SectionDiff `json:"sections"`
}

type SectionDiff struct {
	ID      string       `json:"id,omitempty"`
	Label   string       `json:"label"`
	Options []OptionDiff `json:"options"`
}

// OptionDiff carries the option's resolved cost for the owning unit on
// each side. Nil cost means unknown on that side, not zero.
type OptionDiff struct {
	Label  string      `json:"label"`
	Status EntryStatus `json:"status"`
	CostA  *int        `json:"costA,omitempty"`
	CostB  *int        `json:"costB,omitempty"`
}

// BackgroundDiff reports whether the background text moved and hands
// both raw strings to the caller; rendering a word-level diff is a
// presentation concern. Patch is filled in by callers that want a
// unified text patch attached (the engine leaves it empty).
type BackgroundDiff struct {
	Changed bool   `json:"changed"`
	A       string `json:"a,omitempty"`
	B       string `json:"b,omitempty"`
	Patch   string `json:"patch,omitempty"`
}

type SpellDiff struct {
	Name             string      `json:"name"`
	Status           EntryStatus `json:"status"`
	ThresholdA       int         `json:"thresholdA,omitempty"`
	ThresholdB       int         `json:"thresholdB,omitempty"`
	EffectA          string      `json:"effectA,omitempty"`
	EffectB          string      `json:"effectB,omitempty"`
	ThresholdChanged bool        `json:"thresholdChanged,omitempty"`
	EffectChanged    bool        `json:"effectChanged,omitempty"`
}

type SpecialRuleDiff struct {
	Name         string      `json:"name"`
	Status       EntryStatus `json:"status"`
	DescriptionA string      `json:"descriptionA,omitempty"`
	DescriptionB string      `json:"descriptionB,omitempty"`
}
