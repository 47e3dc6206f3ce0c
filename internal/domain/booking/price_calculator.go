package booking

import "github.com/google/uuid"

// PropertySpec is the slice of a property that pricing and creation need.
type PropertySpec struct {
	ID          uuid.UUID
	NightlyRate Money
}

type PriceCalculator interface {
	CalculatePrice(property PropertySpec, interval Interval) (Money, error)
}

type NightlyRateCalculator struct{}

func NewNightlyRateCalculator() *NightlyRateCalculator {
	return &NightlyRateCalculator{}
}

func (NightlyRateCalculator) CalculatePrice(property PropertySpec, interval Interval) (Money, error) {
	return property.NightlyRate.Times(interval.Nights())
}
