package rate

// Flat is the simple $/unit/100mi pricing the customer settings carry for
// quick what-if runs (market vs TMS fleet rate). It ignores SKU dimensions.
type Flat struct {
	PerUnitPer100Mi float64
}

func (f Flat) UnitCost(distanceMiles float64) float64 {
	return distanceMiles * f.PerUnitPer100Mi / 100
}
