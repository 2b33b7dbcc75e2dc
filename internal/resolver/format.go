package resolver

import (
	"math"
	"strconv"
)

// DisplayPrecision is the number of decimals shown for a solved value.
const DisplayPrecision = 3

// Round rounds x half away from zero to the given number of decimals.
// Values too large to scale are returned unchanged.
func Round(x float64, places int) float64 {
	if places < 0 || !finite(x) {
		return x
	}
	p := math.Pow(10, float64(places))
	scaled := x * p
	if math.IsInf(scaled, 0) {
		return x
	}
	r := math.Round(scaled) / p
	if r == 0 {
		return 0
	}
	return r
}

// Format renders x with the given number of decimals. Magnitudes that
// would print as all zeros or as very long integers use exponent form.
func Format(x float64, places int) string {
	if places < 0 {
		places = DisplayPrecision
	}
	a := math.Abs(x)
	if finite(x) && a != 0 && (a >= 1e9 || a < math.Pow(10, -float64(places))) {
		return strconv.FormatFloat(x, 'e', places, 64)
	}
	return strconv.FormatFloat(Round(x, places), 'f', places, 64)
}
