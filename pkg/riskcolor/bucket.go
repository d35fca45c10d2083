// Package riskcolor maps risk scores and category tags to display colors.
//
// Scores are bucketed with a step function whose lower bound is inclusive:
// 70 is critical, 69 is high. Category colors (node and transfer kinds) live in
// a separate fixed table and never depend on the score.
package riskcolor

import "math"

// Bucket is a named risk band.
type Bucket int

const (
	Low Bucket = iota
	Medium
	High
	Critical
	// Unknown is reported for NaN scores instead of letting them fall through
	// the comparisons into Low.
	Unknown
)

// Lower bounds of each named bucket (inclusive).
const (
	CriticalThreshold = 70.0
	HighThreshold     = 50.0
	MediumThreshold   = 30.0
)

func (b Bucket) String() string {
	switch b {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// BucketOf classifies a score. Scores above 100 or below 0 are not rejected
// here; they land in critical and low respectively.
func BucketOf(score float64) Bucket {
	switch {
	case math.IsNaN(score):
		return Unknown
	case score >= CriticalThreshold:
		return Critical
	case score >= HighThreshold:
		return High
	case score >= MediumThreshold:
		return Medium
	default:
		return Low
	}
}
