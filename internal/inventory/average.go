package inventory

import "github.com/shopspring/decimal"

// WeightedAverage folds a priced receipt into an existing pool average:
// (existingQty*existingAvg + addQty*unitCost) / (existingQty + addQty).
// Callers must guarantee the combined quantity is positive.
func WeightedAverage(existingQty int, existingAvg decimal.Decimal, addQty int, unitCost decimal.Decimal) decimal.Decimal {
	existing := existingAvg.Mul(decimal.NewFromInt(int64(existingQty)))
	incoming := unitCost.Mul(decimal.NewFromInt(int64(addQty)))
	total := decimal.NewFromInt(int64(existingQty + addQty))
	return existing.Add(incoming).Div(total)
}
