package ai

import (
	"math"

	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

// Perception is the static sensing configuration of an NPC, fixed at spawn.
// All angles are radians, all distances world units.
type Perception struct {
	FOVAngle           float64 `yaml:"fov_angle"`
	ViewDistance       float64 `yaml:"view_distance"`
	AlertDistance      float64 `yaml:"alert_distance"`
	ChaseDistance      float64 `yaml:"chase_distance"`
	AttackDistance     float64 `yaml:"attack_distance"`
	LoseTargetDistance float64 `yaml:"lose_target_distance"`
}

// CanSee reports whether a target point falls inside the vision cone of an
// observer at position with the given yaw.
//
// Visibility is purely geometric: distance within ViewDistance and angular
// offset from the yaw-forward direction within FOVAngle/2. No occlusion ray is
// cast against world geometry, so NPCs see through walls. Known limitation.
func (p Perception) CanSee(position spatial.Vec3, yaw float64, target spatial.Vec3) bool {
	to := target.Sub(position)
	if to.Length() > p.ViewDistance {
		return false
	}
	dir := to.Normalized()
	if dir == (spatial.Vec3{}) {
		// Standing inside the target counts as seeing it.
		return true
	}
	forward := spatial.YawForward(yaw)
	angle := math.Acos(spatial.Clamp(forward.Dot(dir), -1, 1))
	// Tiny tolerance so a target sitting exactly on the cone edge still
	// reads as visible despite float rounding.
	return angle <= p.FOVAngle/2+1e-9
}
