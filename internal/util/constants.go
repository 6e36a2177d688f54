// Package util provides common size constants and the size/time
// formatting helpers used by cmd/jcz's reporter.
//
// All utilities are stateless and thread-safe.
package util

// Size constants for byte calculations.
const (
	KiB = 1 << 10 // 1024
	MiB = 1 << 20 // 1,048,576
	GiB = 1 << 30 // 1,073,741,824
	TiB = 1 << 40 // 1,099,511,627,776
)
