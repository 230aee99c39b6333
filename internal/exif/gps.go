// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import "math"

// secondsDenominator gives GPS seconds four decimal places.
const secondsDenominator = 10000

// ToRational converts a decimal coordinate to degrees, minutes and seconds.
// The sign is dropped; callers record it in the hemisphere reference.
func ToRational(v float64) [3]Rational {
	abs := math.Abs(v)
	deg := math.Floor(abs)
	minF := (abs - deg) * 60
	mins := math.Floor(minF)
	secs := math.Round((minF - mins) * 60 * secondsDenominator)

	if secs >= 60*secondsDenominator {
		secs -= 60 * secondsDenominator
		mins++
	}
	if mins >= 60 {
		mins -= 60
		deg++
	}
	return [3]Rational{
		{Num: uint32(deg), Den: 1},
		{Num: uint32(mins), Den: 1},
		{Num: uint32(secs), Den: secondsDenominator},
	}
}

// FromRational converts degrees, minutes and seconds back to a decimal
// coordinate. Fewer than three components yield 0.
func FromRational(rs []Rational) float64 {
	if len(rs) < 3 {
		return 0
	}
	return rs[0].Float() + rs[1].Float()/60 + rs[2].Float()/3600
}
