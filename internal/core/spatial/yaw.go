package spatial

import "math"

// Yaw conventions match the renderer: zero faces +Z, positive rotates toward
// +X, all angles in radians.

// YawForward returns the unit forward vector for a yaw angle, projected onto
// the ground plane.
func YawForward(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// YawToward returns the yaw that faces the horizontal direction dir.
// A zero-length direction yields zero yaw; callers holding a prior facing
// should check the magnitude first.
func YawToward(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// NormalizeAngle wraps an angle to [-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
