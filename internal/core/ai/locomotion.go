package ai

import (
	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

const (
	// arriveEpsilon is the dead zone around a steering destination; inside it
	// the NPC holds position instead of jittering across the point.
	arriveEpsilon = 0.1
	// yawUpdateThreshold is the minimum per-tick displacement that commits a
	// new yaw; below it the prior facing is held.
	yawUpdateThreshold = 1e-4
	// groundProbeHeight raises the raycast origin above the proposed position
	// so small steps and slopes are still hit.
	groundProbeHeight = 2.0
	// groundProbeRange bounds the downward raycast.
	groundProbeRange = 10.0
)

// steerToward moves the NPC horizontally toward point at the given speed.
// The facing direction blends toward the target direction rather than
// snapping, the vertical position snaps to the ground reported by the physics
// collaborator, and the kinematic body is driven to the committed position.
//
// With no physics world attached the NPC keeps moving un-grounded; movement
// never fails.
func (n *NPC) steerToward(point spatial.Vec3, speed, dt float64) {
	to := point.Sub(n.position).Horizontal()
	if to.Length() <= arriveEpsilon {
		return
	}
	dir := to.Normalized()

	blend := spatial.Clamp(n.cfg.Movement.RotationSpeed*dt, 0, 1)
	n.facing = n.facing.Lerp(dir, blend).Normalized()
	if n.facing == (spatial.Vec3{}) {
		n.facing = dir
	}

	velocity := n.facing.Scale(speed * dt)
	next := n.position.Add(velocity)

	if n.phys != nil {
		probe := next.Add(spatial.Vec3{Y: groundProbeHeight})
		if hit, ok := n.phys.RaycastDown(probe, groundProbeRange); ok {
			next.Y = hit.GroundY + n.cfg.Movement.GroundSkin
		}
	}

	n.position = next
	if n.phys != nil {
		_ = n.phys.MoveKinematicBody(n.body, next)
	}

	if velocity.Length() > yawUpdateThreshold {
		n.yaw = spatial.YawToward(n.facing)
	}
}

// faceToward rotates the NPC toward a point without moving it, using a
// proportional correction slower than the full steering blend. Used while
// stationary, e.g. during ALERT.
func (n *NPC) faceToward(point spatial.Vec3, dt float64) {
	to := point.Sub(n.position).Horizontal()
	if to.Length() <= arriveEpsilon {
		return
	}
	targetYaw := spatial.YawToward(to.Normalized())
	diff := spatial.NormalizeAngle(targetYaw - n.yaw)
	n.yaw = spatial.NormalizeAngle(n.yaw + diff*spatial.Clamp(n.cfg.Movement.FaceRate*dt, 0, 1))
	n.facing = spatial.YawForward(n.yaw)
}
