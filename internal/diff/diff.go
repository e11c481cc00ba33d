package diff

import (
	"sort"
	"strconv"
	"strings"

	"armycompare/internal/army"
)

// Compare produces the full structural diff of document a against
// document b. Inputs are treated as read-only; the only error is a
// document with no units collection at all.
func Compare(a, b *army.Document) (*Result, error) {
	if a == nil || a.Units == nil || b == nil || b.Units == nil {
		return nil, ErrInvalidDocument
	}

	res := &Result{
		ArmyNameA:    a.Name,
		ArmyNameB:    b.Name,
		UnitRows:     []UnitRow{},
		Spells:       diffSpells(a.Spells, b.Spells),
		SpecialRules: diffSpecialRules(a.SpecialRules, b.SpecialRules),
		Background: BackgroundDiff{
			Changed: a.Background != b.Background,
			A:       a.Background,
			B:       b.Background,
		},
	}

	for _, p := range matchUnits(a.Units, b.Units) {
		res.UnitRows = append(res.UnitRows, classifyUnit(p, a, b))
	}

	// Group every non-SAME row first so a reviewer sees the changes
	// without scrolling past the unchanged bulk. Stable: within a group
	// the A-then-B encounter order survives.
	sort.SliceStable(res.UnitRows, func(i, j int) bool {
		return rowRank(res.UnitRows[i].Status) < rowRank(res.UnitRows[j].Status)
	})

	return res, nil
}

func rowRank(s UnitStatus) int {
	if s == UnitSame {
		return 1
	}
	return 0
}

func classifyUnit(p unitPair, docA, docB *army.Document) UnitRow {
	switch {
	case p.a == nil:
		return UnitRow{ID: p.b.ID, Name: p.b.Name, Status: UnitNew, B: p.b}
	case p.b == nil:
		return UnitRow{ID: p.a.ID, Name: p.a.Name, Status: UnitDeleted, A: p.a}
	}

	fd := fieldDiff(p.a, p.b, docA, docB)
	row := UnitRow{ID: p.b.ID, Name: p.b.Name, Status: UnitSame, A: p.a, B: p.b}
	if fieldDiffChanged(fd) {
		row.Status = UnitChanged
		row.Fields = fd
	}
	return row
}

func fieldDiff(uA, uB *army.Unit, docA, docB *army.Document) *FieldDiff {
	fd := &FieldDiff{
		CostA:     uA.Cost,
		CostB:     uB.Cost,
		CostDelta: uB.Cost - uA.Cost,
		Quality:   Stat{A: uA.Quality, B: uB.Quality, Changed: uA.Quality != uB.Quality},
		Defense:   Stat{A: uA.Defense, B: uB.Defense, Changed: uA.Defense != uB.Defense},
		Upgrades:  diffUpgrades(uA, uB, docA, docB),
		Weapons:   []WeaponEntry{},
		Rules:     []RuleEntry{},
	}

	for _, e := range diffSequence(uA.Weapons, uB.Weapons, weaponKey) {
		fd.Weapons = append(fd.Weapons, WeaponEntry{Status: e.Status, Weapon: e.Value})
	}
	ruleName := func(r army.Rule) string { return r.DisplayName() }
	for _, e := range diffSequence(uA.Rules, uB.Rules, ruleName) {
		fd.Rules = append(fd.Rules, RuleEntry{Status: e.Status, Name: e.Value.DisplayName()})
	}
	return fd
}

func fieldDiffChanged(fd *FieldDiff) bool {
	if fd.CostDelta != 0 || fd.Quality.Changed || fd.Defense.Changed {
		return true
	}
	for _, w := range fd.Weapons {
		if w.Status != EntryUnchanged {
			return true
		}
	}
	for _, r := range fd.Rules {
		if r.Status != EntryUnchanged {
			return true
		}
	}
	for _, p := range fd.Upgrades {
		if p.Status != EntryUnchanged {
			return true
		}
	}
	return false
}

// weaponKey is the identity of a weapon for list alignment: two weapons
// are the same entry only when every field a player reads off the card
// matches.
func weaponKey(w army.Weapon) string {
	var sb strings.Builder
	sb.WriteString(w.Name)
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(w.EffectiveCount()))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(w.Range))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(w.Attacks))
	for _, r := range w.SpecialRules {
		sb.WriteByte('|')
		sb.WriteString(r.DisplayName())
	}
	return sb.String()
}

// diffUpgrades walks every package reachable from the unit in B,
// matching it against the unit's view in A, then appends packages the
// unit lost. Option costs are resolved per unit on each side before
// comparison. Dangling package uids resolve to empty detail, never an
// error.
func diffUpgrades(uA, uB *army.Unit, docA, docB *army.Document) []PackageDiff {
	out := []PackageDiff{}

	inA := make(map[string]bool, len(uA.Upgrades))
	for _, uid := range uA.Upgrades {
		inA[uid] = true
	}
	inB := make(map[string]bool, len(uB.Upgrades))
	for _, uid := range uB.Upgrades {
		inB[uid] = true
	}

	for _, uid := range uB.Upgrades {
		pkgB, ok := docB.Package(uid)
		if !ok {
			continue
		}
		if !inA[uid] {
			out = append(out, addedPackage(pkgB, uB))
			continue
		}
		var sectionsA []army.UpgradeSection
		hint := pkgB.Hint
		if pkgA, ok := docA.Package(uid); ok {
			sectionsA = pkgA.Sections
		}
		pd := PackageDiff{UID: uid, Hint: hint, Status: EntryUnchanged, Sections: []SectionDiff{}}
		for _, sp := range matchSections(sectionsA, pkgB.Sections) {
			sd := diffSection(sp.a, sp.b, uA, uB)
			pd.Sections = append(pd.Sections, sd)
			for _, o := range sd.Options {
				if o.Status != EntryUnchanged {
					pd.Status = EntryChanged
				}
			}
		}
		out = append(out, pd)
	}

	for _, uid := range uA.Upgrades {
		if inB[uid] {
			continue
		}
		pkgA, ok := docA.Package(uid)
		if !ok {
			continue
		}
		out = append(out, removedPackage(pkgA, uA))
	}
	return out
}

func diffSection(sa, sb *army.UpgradeSection, uA, uB *army.Unit) SectionDiff {
	var sd SectionDiff
	var optsA, optsB []army.UpgradeOption
	if sa != nil {
		sd.ID, sd.Label = sa.ID, sa.Label
		optsA = sa.Options
	}
	if sb != nil {
		sd.ID, sd.Label = sb.ID, sb.Label
		optsB = sb.Options
	}
	sd.Options = []OptionDiff{}
	for _, op := range matchOptions(optsA, optsB) {
		sd.Options = append(sd.Options, diffOption(op.a, op.b, uA, uB))
	}
	return sd
}

func diffOption(oa, ob *army.UpgradeOption, uA, uB *army.Unit) OptionDiff {
	switch {
	case oa == nil:
		return OptionDiff{Label: ob.Label, Status: EntryAdded, CostB: army.ResolveCost(*ob, *uB)}
	case ob == nil:
		return OptionDiff{Label: oa.Label, Status: EntryRemoved, CostA: army.ResolveCost(*oa, *uA)}
	}
	od := OptionDiff{
		Label:  ob.Label,
		Status: EntryUnchanged,
		CostA:  army.ResolveCost(*oa, *uA),
		CostB:  army.ResolveCost(*ob, *uB),
	}
	if !costEqual(od.CostA, od.CostB) {
		od.Status = EntryChanged
	}
	return od
}

func costEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func addedPackage(pkg *army.UpgradePackage, u *army.Unit) PackageDiff {
	pd := PackageDiff{UID: pkg.UID, Hint: pkg.Hint, Status: EntryAdded, Sections: []SectionDiff{}}
	for _, s := range pkg.Sections {
		sd := SectionDiff{ID: s.ID, Label: s.Label, Options: []OptionDiff{}}
		for _, o := range s.Options {
			sd.Options = append(sd.Options, OptionDiff{
				Label:  o.Label,
				Status: EntryAdded,
				CostB:  army.ResolveCost(o, *u),
			})
		}
		pd.Sections = append(pd.Sections, sd)
	}
	return pd
}

func removedPackage(pkg *army.UpgradePackage, u *army.Unit) PackageDiff {
	pd := PackageDiff{UID: pkg.UID, Hint: pkg.Hint, Status: EntryRemoved, Sections: []SectionDiff{}}
	for _, s := range pkg.Sections {
		sd := SectionDiff{ID: s.ID, Label: s.Label, Options: []OptionDiff{}}
		for _, o := range s.Options {
			sd.Options = append(sd.Options, OptionDiff{
				Label:  o.Label,
				Status: EntryRemoved,
				CostA:  army.ResolveCost(o, *u),
			})
		}
		pd.Sections = append(pd.Sections, sd)
	}
	return pd
}

func diffSpells(a, b []army.Spell) []SpellDiff {
	namesA := make([]string, len(a))
	for i, s := range a {
		namesA[i] = s.Name
	}
	namesB := make([]string, len(b))
	for i, s := range b {
		namesB[i] = s.Name
	}
	ixA := newNameIndex(a, func(s army.Spell) string { return s.Name })
	ixB := newNameIndex(b, func(s army.Spell) string { return s.Name })

	out := []SpellDiff{}
	for _, e := range diffSequence(namesA, namesB, func(s string) string { return s }) {
		switch e.Status {
		case EntryAdded:
			s, _ := ixB.claim(e.Value)
			out = append(out, SpellDiff{Name: s.Name, Status: EntryAdded, ThresholdB: s.Threshold, EffectB: s.Effect})
		case EntryRemoved:
			s, _ := ixA.claim(e.Value)
			out = append(out, SpellDiff{Name: s.Name, Status: EntryRemoved, ThresholdA: s.Threshold, EffectA: s.Effect})
		default:
			sa, _ := ixA.claim(e.Value)
			sb, _ := ixB.claim(e.Value)
			sd := SpellDiff{
				Name:             sb.Name,
				Status:           EntryUnchanged,
				ThresholdA:       sa.Threshold,
				ThresholdB:       sb.Threshold,
				EffectA:          sa.Effect,
				EffectB:          sb.Effect,
				ThresholdChanged: sa.Threshold != sb.Threshold,
				EffectChanged:    sa.Effect != sb.Effect,
			}
			if sd.ThresholdChanged || sd.EffectChanged {
				sd.Status = EntryChanged
			}
			out = append(out, sd)
		}
	}
	return out
}

func diffSpecialRules(a, b []army.SpecialRule) []SpecialRuleDiff {
	namesA := make([]string, len(a))
	for i, r := range a {
		namesA[i] = r.Name
	}
	namesB := make([]string, len(b))
	for i, r := range b {
		namesB[i] = r.Name
	}
	ixA := newNameIndex(a, func(r army.SpecialRule) string { return r.Name })
	ixB := newNameIndex(b, func(r army.SpecialRule) string { return r.Name })

	out := []SpecialRuleDiff{}
	for _, e := range diffSequence(namesA, namesB, func(s string) string { return s }) {
		switch e.Status {
		case EntryAdded:
			r, _ := ixB.claim(e.Value)
			out = append(out, SpecialRuleDiff{Name: r.Name, Status: EntryAdded, DescriptionB: r.Description})
		case EntryRemoved:
			r, _ := ixA.claim(e.Value)
			out = append(out, SpecialRuleDiff{Name: r.Name, Status: EntryRemoved, DescriptionA: r.Description})
		default:
			ra, _ := ixA.claim(e.Value)
			rb, _ := ixB.claim(e.Value)
			rd := SpecialRuleDiff{
				Name:         rb.Name,
				Status:       EntryUnchanged,
				DescriptionA: ra.Description,
				DescriptionB: rb.Description,
			}
			if ra.Description != rb.Description {
				rd.Status = EntryChanged
			}
			out = append(out, rd)
		}
	}
	return out
}
