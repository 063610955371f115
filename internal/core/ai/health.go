package ai

import "github.com/hollowpoint/hollowpoint/internal/core/spatial"

// ApplyDamage is the damage-dealing surface exposed to the combat
// collaborator. Damage to a dead NPC is a no-op, never an error.
//
// Being hit always alerts: an NPC damaged while idling or patrolling snaps
// straight to CHASE toward the shared target's current position, regardless
// of whether the shot came from inside the vision cone.
func (n *NPC) ApplyDamage(amount int) {
	if !n.alive || amount <= 0 {
		return
	}
	n.healthCurrent -= amount
	if n.healthCurrent <= 0 {
		n.healthCurrent = 0
		n.die()
		return
	}
	if n.state == StateIdle || n.state == StatePatrol {
		if t := n.registry.Target(); t != nil {
			n.rememberTarget(t.Position())
			n.transitionTo(StateChase)
		}
	}
}

// Kill drops the NPC outright. Used by the registry's bulk kill.
func (n *NPC) Kill() {
	n.ApplyDamage(n.healthCurrent)
}

func (n *NPC) die() {
	n.alive = false
	n.transitionTo(StateDead)
	n.publish(EventDeath, DeathData{ID: n.id})
}

// Revive restores a dead NPC: full health, position back at the spawn point,
// visual back to its default appearance, and the FSM back in PATROL. Calling
// it on a living NPC does nothing.
func (n *NPC) Revive() {
	if n.alive {
		return
	}
	n.healthCurrent = n.healthMax
	n.alive = true
	n.decaying = false
	n.position = n.spawnPoint
	n.yaw = 0
	n.facing = spatial.YawForward(0)
	n.lastKnownTargetPos = spatial.Vec3{}
	n.hasLastKnown = false
	n.waypointIndex = 0
	if n.phys != nil {
		_ = n.phys.MoveKinematicBody(n.body, n.spawnPoint)
	}
	if n.visual != nil {
		n.visual.SetScale(1)
		n.visual.SetOpacity(1)
		n.visual.SetVisible(true)
		n.visual.SetTint(0)
	}
	n.transitionTo(StatePatrol)
}
