package units

import (
	"fmt"
	"math"
)

// binaryPrefixes is indexed by the 1024 exponent. Exponent 0 has no prefix.
const binaryPrefixes = " KMGTP"

const (
	secondMs = 1000.0
	minuteMs = 60 * secondMs
	hourMs   = 60 * minuteMs
	dayMs    = 24 * hourMs
	weekMs   = 7 * dayMs
	monthMs  = 30 * dayMs
)

type durationUnit struct {
	name string
	ms   float64
}

// durationLadder goes from the coarsest unit to the finest.
var durationLadder = []durationUnit{
	{"months", monthMs},
	{"weeks", weekMs},
	{"days", dayMs},
	{"hours", hourMs},
	{"mins", minuteMs},
	{"secs", secondMs},
}

// FormatBytes returns bytes as a binary prefixed value with two decimals,
// e.g. "1.50 KiB". Values past the PiB range stay in PiB.
func FormatBytes(bytes float64) string {
	if bytes == 0 {
		return "0 B"
	}
	if math.IsNaN(bytes) || math.IsInf(bytes, 0) {
		return fmt.Sprintf("%v B", bytes)
	}
	e := exponent(bytes)
	return fmt.Sprintf("%.2f %s", bytes/math.Pow(1024, float64(e)), unitName(e))
}

// exponent picks the largest e with 1024^e <= bytes inside the prefix table.
func exponent(bytes float64) int {
	maxExp := len(binaryPrefixes) - 1
	e := int(math.Floor(math.Log(bytes) / math.Log(1024)))
	if e < 0 {
		e = 0
	}
	if e > maxExp {
		e = maxExp
	}
	// log ratios are not exact at the boundaries
	for e < maxExp && bytes >= math.Pow(1024, float64(e+1)) {
		e++
	}
	for e > 0 && bytes < math.Pow(1024, float64(e)) {
		e--
	}
	return e
}

func unitName(e int) string {
	if e == 0 {
		return "B"
	}
	return string(binaryPrefixes[e]) + "iB"
}

// FormatDuration names only the coarsest unit, from months down to seconds,
// whose value rounds to a positive integer: 90000 gives "1.50 mins".
// When nothing rounds above zero, as for most sub-second durations, the
// result is the empty string.
func FormatDuration(ms float64) string {
	for _, u := range durationLadder {
		v := ms / u.ms
		ms = math.Mod(ms, u.ms)
		if math.RoundToEven(v) <= 0 {
			continue
		}
		return fmt.Sprintf("%.2f %s", v, u.name)
	}
	return ""
}

// FormatDurationPrecise is FormatDuration with a millisecond fallback for
// durations FormatDuration renders as "".
func FormatDurationPrecise(ms float64) string {
	if s := FormatDuration(ms); s != "" {
		return s
	}
	return fmt.Sprintf("%.2f ms", ms)
}
