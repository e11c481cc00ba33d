package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armycompare/internal/army"
)

func TestMatchUnitsByID(t *testing.T) {
	a := []army.Unit{{ID: "1", Name: "Grunts"}, {ID: "2", Name: "Tanks"}}
	b := []army.Unit{{ID: "2", Name: "Heavy Tanks"}, {ID: "1", Name: "Grunts"}}

	pairs := matchUnits(a, b)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Grunts", pairs[0].b.Name)
	assert.Equal(t, "Heavy Tanks", pairs[1].b.Name)
}

func TestMatchUnitsNameFallback(t *testing.T) {
	// Regenerated ids, identical name: must pair, never NEW+DELETED.
	a := []army.Unit{{ID: "a1", Name: "Grunts"}}
	b := []army.Unit{{ID: "b1", Name: "Grunts"}}

	pairs := matchUnits(a, b)
	require.Len(t, pairs, 1)
	require.NotNil(t, pairs[0].a)
	require.NotNil(t, pairs[0].b)
	assert.Equal(t, "b1", pairs[0].b.ID)
}

func TestMatchUnitsOneSidedEntries(t *testing.T) {
	a := []army.Unit{{ID: "1", Name: "Grunts"}, {ID: "gone", Name: "Disbanded"}}
	b := []army.Unit{{ID: "1", Name: "Grunts"}, {ID: "new", Name: "Recruits"}}

	pairs := matchUnits(a, b)
	require.Len(t, pairs, 3)
	assert.Nil(t, pairs[1].b, "A-only unit has no counterpart")
	assert.Nil(t, pairs[2].a, "B-only unit has no counterpart")
	assert.Equal(t, "Recruits", pairs[2].b.Name)
}

func TestMatchUnitsDuplicateNamesFirstUnmatched(t *testing.T) {
	a := []army.Unit{
		{ID: "a1", Name: "Warriors"},
		{ID: "a2", Name: "Warriors"},
	}
	b := []army.Unit{
		{ID: "b1", Name: "Warriors"},
		{ID: "b2", Name: "Warriors"},
	}

	pairs := matchUnits(a, b)
	require.Len(t, pairs, 2)
	// Document order is authoritative: a1 claims b1, a2 claims b2.
	assert.Equal(t, "b1", pairs[0].b.ID)
	assert.Equal(t, "b2", pairs[1].b.ID)
}

func TestMatchUnitsNameFallbackCannotStealIDMatch(t *testing.T) {
	// B's only unit carries A-Elites' exact id but A-Grunts' name. The
	// id claim must win even though Grunts comes first in document
	// order; Grunts is then genuinely gone.
	a := []army.Unit{
		{ID: "x", Name: "Grunts"},
		{ID: "y", Name: "Elites"},
	}
	b := []army.Unit{{ID: "y", Name: "Grunts"}}

	pairs := matchUnits(a, b)
	require.Len(t, pairs, 2)
	assert.Nil(t, pairs[0].b, "Grunts has no counterpart left")
	require.NotNil(t, pairs[1].b, "id match must win over another unit's name fallback")
	assert.Equal(t, "y", pairs[1].b.ID)
}

func TestMatchUnitsIDBeatsName(t *testing.T) {
	a := []army.Unit{{ID: "1", Name: "Grunts"}}
	b := []army.Unit{
		{ID: "other", Name: "Grunts"},
		{ID: "1", Name: "Renamed Grunts"},
	}

	pairs := matchUnits(a, b)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Renamed Grunts", pairs[0].b.Name, "id match wins over name match")
	assert.Nil(t, pairs[1].a)
}

func TestMatchSectionsIDThenLabel(t *testing.T) {
	a := []army.UpgradeSection{
		{ID: "s1", Label: "Replace Pistol"},
		{Label: "Take one"},
	}
	b := []army.UpgradeSection{
		{Label: "Take one"},
		{ID: "s1", Label: "Replace any Pistol"},
	}

	pairs := matchSections(a, b)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Replace any Pistol", pairs[0].b.Label, "id match survives relabel")
	assert.Equal(t, "Take one", pairs[1].b.Label)
}

func TestMatchOptionsByLabelOnly(t *testing.T) {
	a := []army.UpgradeOption{
		{ID: "x1", Label: "Plasma Pistol"},
		{ID: "x2", Label: "Banner"},
	}
	b := []army.UpgradeOption{
		{ID: "y9", Label: "Plasma Pistol"},
		{ID: "y8", Label: "Drums"},
	}

	pairs := matchOptions(a, b)
	require.Len(t, pairs, 3)
	assert.Equal(t, "y9", pairs[0].b.ID, "labels pair despite fresh ids")
	assert.Nil(t, pairs[1].b, "Banner removed")
	assert.Nil(t, pairs[2].a, "Drums added")
}
