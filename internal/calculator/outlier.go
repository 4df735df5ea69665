package calculator

import (
	"errors"
	"math"

	"PriceScan/internal/model"
)

// DefaultThreshold is the percentage change above which a transition is significant.
const DefaultThreshold = 5.0

var (
	// ErrInvalidThreshold is returned for a negative or non-finite threshold.
	ErrInvalidThreshold = errors.New("threshold must be a finite value >= 0")
	// ErrZeroPrice is returned by PctChange when the previous price is zero.
	ErrZeroPrice = errors.New("previous price is zero")
)

// PctChange returns (curr-prev)/prev*100.
func PctChange(prev, curr float64) (float64, error) {
	if prev == 0 {
		return math.NaN(), ErrZeroPrice
	}
	return (curr - prev) / prev * 100, nil
}

// Scan computes summary statistics over points and flags every adjacent pair
// whose absolute percentage change is strictly greater than thresholdPct.
//
// An empty input returns ErrNoData and no result. A transition whose previous
// price is zero has no defined change: it is never flagged and is reported in
// ScanResult.Undefined instead. points is not modified.
func Scan(points []model.TimePoint, thresholdPct float64) (*model.ScanResult, error) {
	if thresholdPct < 0 || math.IsNaN(thresholdPct) || math.IsInf(thresholdPct, 0) {
		return nil, ErrInvalidThreshold
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}

	summary, err := Summarize(points)
	if err != nil {
		return nil, err
	}

	res := &model.ScanResult{
		Summary:   summary,
		Threshold: thresholdPct,
		Compared:  len(points) - 1,
	}
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1].Price, points[i].Price
		tr := model.Transition{
			Timestamp: points[i].Timestamp,
			PrevPrice: prev,
			CurrPrice: curr,
		}
		change, err := PctChange(prev, curr)
		tr.PctChange = change
		if err != nil {
			res.Undefined = append(res.Undefined, tr)
			continue
		}
		if math.Abs(change) > thresholdPct {
			res.Significant = append(res.Significant, tr)
		}
	}
	return res, nil
}
