package calculator

import (
	"errors"
	"math"
	"sort"

	"PriceScan/internal/model"
)

var (
	// ErrNoData is returned when there is nothing to compute statistics over.
	ErrNoData = errors.New("no data")
	// ErrNonFinitePrice is returned when a price is NaN or infinite.
	ErrNonFinitePrice = errors.New("non-finite price")
)

// Mean computes the arithmetic mean of the given prices.
func Mean(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoData
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices)), nil
}

// Median returns the element at index len/2 of the ascending-sorted prices.
// For an even count this is the upper of the two middle values, not their
// average: [10 20 30 40] yields 30. The input slice is not modified.
func Median(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoData
	}
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2], nil
}

// Range returns the lowest and highest price.
func Range(prices []float64) (low, high float64, err error) {
	if len(prices) == 0 {
		return 0, 0, ErrNoData
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, p := range prices {
		if p < low {
			low = p
		}
		if p > high {
			high = p
		}
	}
	return low, high, nil
}

// Summarize computes count, average, median and min/max over the points.
func Summarize(points []model.TimePoint) (model.Summary, error) {
	prices, err := extractPrices(points)
	if err != nil {
		return model.Summary{}, err
	}
	avg, err := Mean(prices)
	if err != nil {
		return model.Summary{}, err
	}
	med, _ := Median(prices)
	low, high, _ := Range(prices)
	return model.Summary{
		Count:   len(prices),
		Average: avg,
		Median:  med,
		Min:     low,
		Max:     high,
	}, nil
}

func extractPrices(points []model.TimePoint) ([]float64, error) {
	prices := make([]float64, len(points))
	for i, p := range points {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, ErrNonFinitePrice
		}
		prices[i] = p.Price
	}
	return prices, nil
}
