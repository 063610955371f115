package physics

import "github.com/hollowpoint/hollowpoint/internal/core/spatial"

// World is the physics collaborator consumed by the AI core. The core drives
// kinematic bodies and asks grounding questions; it never computes collision
// response itself.
type World interface {
	// CreateKinematicCapsule registers a capsule body at position and returns
	// its handle.
	CreateKinematicCapsule(position spatial.Vec3, radius, height float64) (BodyHandle, error)

	// MoveKinematicBody teleports a kinematic body to position. The body is
	// externally driven, not simulated.
	MoveKinematicBody(handle BodyHandle, position spatial.Vec3) error

	// RemoveBody releases a body. Unknown handles are a no-op.
	RemoveBody(handle BodyHandle)

	// RaycastDown probes straight down from origin up to maxDistance and
	// reports the ground hit, if any.
	RaycastDown(origin spatial.Vec3, maxDistance float64) (RaycastHit, bool)

	// Step advances the simulation by dt seconds. Runs once per tick, before
	// AI updates.
	Step(dt float64)
}

// BodyHandle identifies a body inside a World. The zero handle is never valid.
type BodyHandle uint64

// RaycastHit describes a downward ray intersection.
type RaycastHit struct {
	Distance float64
	GroundY  float64
}
