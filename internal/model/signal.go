package model

// Summary holds aggregate statistics over all points of a scan.
type Summary struct {
	Count   int
	Average float64
	Median  float64
	Min     float64
	Max     float64
}

// Transition is the percentage change between two adjacent points.
// Timestamp is the label of the later point.
type Transition struct {
	Timestamp string
	PctChange float64
	PrevPrice float64
	CurrPrice float64
}

// ScanResult is the output of the outlier scanner.
type ScanResult struct {
	Summary   Summary
	Threshold float64
	Compared  int // adjacent pairs looked at

	// Significant transitions in input order.
	Significant []Transition
	// Undefined transitions had a zero previous price; PctChange is NaN.
	Undefined []Transition
}
