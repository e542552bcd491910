package citypandemic

import "math"

// Time represents a simulation instant as seconds elapsed since the start
// of the run. It mirrors geom::Time from the host simulator this core was
// designed against, kept here only as a plain value type.
type Time float64

// InfTime is the sentinel "never scheduled" time used by a Sane person's
// pending Exposition event until a transmission trial starts it.
const InfTime Time = Time(math.Inf(1))

// Add returns t advanced by d.
func (t Time) Add(d Duration) Time {
	return t + Time(d)
}

// Sub returns the elapsed Duration between t and o (t - o).
func (t Time) Sub(o Time) Duration {
	return Duration(t - o)
}

// IsInf reports whether t is the +Inf sentinel.
func (t Time) IsInf() bool {
	return math.IsInf(float64(t), 1)
}

// Duration represents an elapsed simulation interval, in seconds.
type Duration float64

// Seconds returns d as a plain float64 number of seconds.
func (d Duration) Seconds() float64 {
	return float64(d)
}

// Hours returns the Duration of h hours, a convenience used heavily by
// tests and sample scenarios.
func Hours(h float64) Duration {
	return Duration(h * 3600)
}

// Minutes returns the Duration of m minutes.
func Minutes(m float64) Duration {
	return Duration(m * 60)
}
