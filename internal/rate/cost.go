package rate

import (
	"fmt"
	"math"

	"walloc/internal/model"
)

// Industry dimensional-weight divisor for inch/pound shipments.
const dimFactor = 139.0

// Fraction of vehicle volume and payload usable after packaging and pallet
// loss.
const usableFraction = 0.85

// CapacityError means the SKU cannot fit in the vehicle at all; the vehicle
// is excluded from consideration, which is fatal only if no vehicle fits.
type CapacityError struct {
	SKU     string
	Vehicle string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("sku %s does not fit vehicle %s", e.SKU, e.Vehicle)
}

// NoApplicableRateError means no tier of the carrier covers the distance.
// The (warehouse, DC, carrier) lane is excluded, never priced at zero.
type NoApplicableRateError struct {
	Carrier  string
	Distance float64
}

func (e *NoApplicableRateError) Error() string {
	return fmt.Sprintf("no rate tier for carrier %s at %.1f miles", e.Carrier, e.Distance)
}

// DimWeight is the dimensional weight in pounds for inch dimensions.
func DimWeight(lengthIn, widthIn, heightIn float64) float64 {
	return lengthIn * widthIn * heightIn / dimFactor
}

// ChargeableWeight is what the carrier bills against: the greater of actual
// and dimensional weight.
func ChargeableWeight(sku model.SKU) float64 {
	return math.Max(sku.WeightLb, DimWeight(sku.LengthIn, sku.WidthIn, sku.HeightIn))
}

// MaxUnits is how many units of the SKU fit one vehicle after the usable
// fraction is applied to both volume and payload.
func MaxUnits(sku model.SKU, v model.Vehicle) (int, error) {
	skuVol := sku.LengthIn * sku.WidthIn * sku.HeightIn
	vehVol := v.LengthIn * v.WidthIn * v.HeightIn
	if skuVol <= 0 || sku.WeightLb <= 0 {
		return 0, &CapacityError{SKU: sku.Code, Vehicle: v.Name}
	}
	byVolume := vehVol * usableFraction / skuVol
	byWeight := v.MaxWeightLb * usableFraction / sku.WeightLb
	n := int(math.Floor(math.Min(byVolume, byWeight)))
	if n <= 0 {
		return 0, &CapacityError{SKU: sku.Code, Vehicle: v.Name}
	}
	return n, nil
}

func tierFor(c model.Carrier, distanceMiles float64) (model.RateTier, error) {
	for _, t := range c.Tiers {
		if distanceMiles >= t.MinDistance && distanceMiles <= t.MaxDistance {
			return t, nil
		}
	}
	return model.RateTier{}, &NoApplicableRateError{Carrier: c.Key(), Distance: distanceMiles}
}

// UnitCost prices one unit of the SKU on the lane: the tiered shipment cost
// for a full vehicle divided by how many units the vehicle carries.
func UnitCost(sku model.SKU, c model.Carrier, v model.Vehicle, distanceMiles float64) (float64, int, error) {
	units, err := MaxUnits(sku, v)
	if err != nil {
		return 0, 0, err
	}
	tier, err := tierFor(c, distanceMiles)
	if err != nil {
		return 0, 0, err
	}
	variable := ChargeableWeight(sku) * tier.Rate * distanceMiles / 100
	total := math.Max(tier.MinimumCharge, variable+tier.FixedFee)
	return total / float64(units), units, nil
}

// UnitCostBestVehicle prices the lane with whichever vehicle carries the most
// units, mirroring how the fleet actually dispatches. Returns CapacityError
// only if no vehicle fits the SKU.
func UnitCostBestVehicle(sku model.SKU, c model.Carrier, vehicles []model.Vehicle, distanceMiles float64) (float64, string, error) {
	best := -1
	var bestVehicle model.Vehicle
	for _, v := range vehicles {
		n, err := MaxUnits(sku, v)
		if err != nil {
			continue
		}
		if n > best {
			best = n
			bestVehicle = v
		}
	}
	if best <= 0 {
		return 0, "", &CapacityError{SKU: sku.Code, Vehicle: "any"}
	}
	cost, _, err := UnitCost(sku, c, bestVehicle, distanceMiles)
	if err != nil {
		return 0, "", err
	}
	return cost, bestVehicle.Name, nil
}
