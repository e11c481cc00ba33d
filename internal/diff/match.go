package diff

import "armycompare/internal/army"

// unitPair joins a unit's two appearances across versions. Either side
// may be nil (NEW / DELETED).
type unitPair struct {
	a *army.Unit
	b *army.Unit
}

// matchUnits pairs every unit present on either side. Primary key is
// the unit id; a unit from A with no id match in B falls back to exact
// name equality, which recovers ids regenerated between exports. The
// canonical direction is A to B, so B-only leftovers are simply new.
//
// Id claims run to completion before any name fallback: a name may
// never consume a B-unit whose id another A-unit matches exactly.
// Duplicate ids or names pair off first-unmatched in document order;
// the input order is never re-sorted, so pairing is deterministic.
func matchUnits(unitsA, unitsB []army.Unit) []unitPair {
	taken := make([]bool, len(unitsB))
	partner := make([]*army.Unit, len(unitsA))

	for i := range unitsA {
		ua := &unitsA[i]
		for j := range unitsB {
			if !taken[j] && unitsB[j].ID == ua.ID {
				taken[j] = true
				partner[i] = &unitsB[j]
				break
			}
		}
	}
	for i := range unitsA {
		if partner[i] != nil {
			continue
		}
		ua := &unitsA[i]
		for j := range unitsB {
			if !taken[j] && unitsB[j].Name == ua.Name {
				taken[j] = true
				partner[i] = &unitsB[j]
				break
			}
		}
	}

	pairs := make([]unitPair, 0, len(unitsA)+len(unitsB))
	for i := range unitsA {
		pairs = append(pairs, unitPair{a: &unitsA[i], b: partner[i]})
	}
	for j := range unitsB {
		if !taken[j] {
			pairs = append(pairs, unitPair{b: &unitsB[j]})
		}
	}
	return pairs
}

// matchSections pairs the sections of one package across versions by id,
// falling back to label when ids moved.
func matchSections(a, b []army.UpgradeSection) []struct{ a, b *army.UpgradeSection } {
	taken := make([]bool, len(b))
	claim := func(match func(s army.UpgradeSection) bool) *army.UpgradeSection {
		for j := range b {
			if !taken[j] && match(b[j]) {
				taken[j] = true
				return &b[j]
			}
		}
		return nil
	}

	var pairs []struct{ a, b *army.UpgradeSection }
	for i := range a {
		sa := &a[i]
		sb := (*army.UpgradeSection)(nil)
		if sa.ID != "" {
			sb = claim(func(s army.UpgradeSection) bool { return s.ID == sa.ID })
		}
		if sb == nil {
			sb = claim(func(s army.UpgradeSection) bool { return s.Label == sa.Label })
		}
		pairs = append(pairs, struct{ a, b *army.UpgradeSection }{sa, sb})
	}
	for j := range b {
		if !taken[j] {
			pairs = append(pairs, struct{ a, b *army.UpgradeSection }{nil, &b[j]})
		}
	}
	return pairs
}

// matchOptions pairs options by label only: option ids are not stable
// across exports.
func matchOptions(a, b []army.UpgradeOption) []struct{ a, b *army.UpgradeOption } {
	taken := make([]bool, len(b))
	var pairs []struct{ a, b *army.UpgradeOption }
	for i := range a {
		oa := &a[i]
		var ob *army.UpgradeOption
		for j := range b {
			if !taken[j] && b[j].Label == oa.Label {
				taken[j] = true
				ob = &b[j]
				break
			}
		}
		pairs = append(pairs, struct{ a, b *army.UpgradeOption }{oa, ob})
	}
	for j := range b {
		if !taken[j] {
			pairs = append(pairs, struct{ a, b *army.UpgradeOption }{nil, &b[j]})
		}
	}
	return pairs
}

// claimByName consumes the first unmatched element with the given name.
// Used to pull the two sides of a name-keyed entity (spells, special
// rules) back out after the name lists have been aligned.
type nameIndex[T any] struct {
	items []T
	name  func(T) string
	used  []bool
}

func newNameIndex[T any](items []T, name func(T) string) *nameIndex[T] {
	return &nameIndex[T]{items: items, name: name, used: make([]bool, len(items))}
}

func (ix *nameIndex[T]) claim(name string) (T, bool) {
	for i := range ix.items {
		if !ix.used[i] && ix.name(ix.items[i]) == name {
			ix.used[i] = true
			return ix.items[i], true
		}
	}
	var zero T
	return zero, false
}
