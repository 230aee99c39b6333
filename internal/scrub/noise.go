// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrub

import (
	"image"
	"math"
	"math/rand/v2"
)

// perturb adds sub-level noise to img in place. Each pixel is chosen with
// probability 1/2; a chosen pixel gets one offset n in [-1, 1) added to its
// red, green and blue channels, rounded half to even. Alpha is untouched.
// It returns the number of pixels chosen.
func perturb(img *image.RGBA, rng *rand.Rand) int {
	b := img.Bounds()
	chosen := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rng.Float64() >= 0.5 {
				continue
			}
			chosen++
			n := rng.Float64()*2 - 1
			i := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				img.Pix[i+c] = clamp(math.RoundToEven(float64(img.Pix[i+c]) + n))
			}
		}
	}
	return chosen
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// newRand returns a generator for seed; seed 0 draws a fresh random seed.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}
