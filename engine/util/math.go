package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Clamp(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

func Clamp32(value, min, max float32) float32 {
	return float32(Clamp(float64(value), float64(min), float64(max)))
}

// Bounds returns the axis aligned box around points, or two zero vectors
// for an empty slice.
func Bounds(points []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if len(points) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}
