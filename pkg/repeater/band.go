package repeater

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type bandRange struct {
	name     string
	min, max float64
}

// bands lists the amateur allocations by output frequency in MHz. Bounds are
// inclusive.
var bands = []bandRange{
	{"10m", 28.0, 29.7},
	{"6m", 50.0, 54.0},
	{"2m", 144.0, 148.0},
	{"1.25m", 222.0, 225.0},
	{"70cm", 420.0, 450.0},
	{"33cm", 902.0, 928.0},
	{"23cm", 1240.0, 1300.0},
}

// Catch-all band names. Microwave covers everything from 10 GHz upward.
const (
	BandMicrowave = "Microwave"
	BandOther     = "Other"
)

// Band classifies an output frequency in MHz.
func Band(mhz float64) string {
	for _, b := range bands {
		if mhz >= b.min && mhz <= b.max {
			return b.name
		}
	}
	if mhz >= 10000 {
		return BandMicrowave
	}
	return BandOther
}

// ParseNumber parses a decimal field such as a frequency or coordinate.
// Surrounding whitespace is ignored; NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// DuplexOffset returns input minus output as a signed four-decimal string.
func DuplexOffset(input, output string) (string, bool) {
	in, ok := ParseNumber(input)
	if !ok {
		return "", false
	}
	out, ok := ParseNumber(output)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%+.4f", in-out), true
}
