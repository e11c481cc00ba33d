package army

// ResolveCost returns the point cost of an upgrade option as it applies
// to one specific unit: the per-unit override when the table carries an
// entry for that unit, the flat cost otherwise. Nil means the cost is
// unknown on that side, which callers must keep distinct from zero.
//
// The option is never mutated; the same shared package can be resolved
// against many units without one resolution leaking into another.
func ResolveCost(opt UpgradeOption, unit Unit) *int {
	for _, c := range opt.Costs {
		if c.UnitID == unit.ID {
			v := c.Cost
			return &v
		}
	}
	if opt.Cost == nil {
		return nil
	}
	v := *opt.Cost
	return &v
}
