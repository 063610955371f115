package ai

import (
	"math"
	"math/rand"

	"github.com/hollowpoint/hollowpoint/internal/core/events/bus"
	"github.com/hollowpoint/hollowpoint/internal/core/physics"
	"github.com/hollowpoint/hollowpoint/internal/core/render"
	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

const (
	// clipFadeTime is the crossfade applied on every state-driven clip swap.
	clipFadeTime = 0.2
	// lastKnownArriveDistance ends a blind chase once the NPC stands on the
	// target's last seen position.
	lastKnownArriveDistance = 1.0
	// attackBreakFactor stretches the attack range before falling back to
	// chase, so NPCs don't flicker between the two states at the boundary.
	attackBreakFactor = 1.5
)

// NPC is one hostile entity: a kinematic body, a visual, and the behavior
// state machine driving both.
//
// All mutable state is owned by the simulation goroutine. Updates, damage and
// revives must arrive there; the registry's spawn path is the only concurrent
// writer and it publishes the NPC only after construction completes.
type NPC struct {
	id       string
	cfg      Config
	registry *Registry

	phys   physics.World
	body   physics.BodyHandle
	visual render.Visual
	clips  map[string]string // logical action -> resolved clip name

	position   spatial.Vec3
	yaw        float64
	facing     spatial.Vec3
	spawnPoint spatial.Vec3

	healthCurrent int
	healthMax     int
	alive         bool

	state         State
	previousState State

	alertTimer           float64
	attackCooldown       float64
	changeDirectionTimer float64
	idleTimer            float64
	decayTimer           float64
	decaying             bool

	lastKnownTargetPos spatial.Vec3
	hasLastKnown       bool

	waypoints     []spatial.Vec3
	waypointIndex int
	patrolCenter  spatial.Vec3
	wanderDir     spatial.Vec3

	rng    *rand.Rand
	loaded bool
}

// Update advances the NPC by dt seconds. It is a no-op until the asset load
// has resolved.
func (n *NPC) Update(dt float64) {
	if !n.loaded {
		return
	}
	switch n.state {
	case StateIdle:
		n.tickIdle(dt)
	case StatePatrol:
		n.tickPatrol(dt)
	case StateAlert:
		n.tickAlert(dt)
	case StateChase:
		n.tickChase(dt)
	case StateAttack:
		n.tickAttack(dt)
	case StateDead:
		n.tickDead(dt)
	}
}

// senseTarget resolves the shared target through the registry and runs the
// vision cone check. A missing target reads as "nothing visible".
func (n *NPC) senseTarget() (spatial.Vec3, bool) {
	t := n.registry.Target()
	if t == nil {
		return spatial.Vec3{}, false
	}
	pos := t.Position()
	if !n.cfg.Perception.CanSee(n.position, n.yaw, pos) {
		return spatial.Vec3{}, false
	}
	return pos, true
}

// sensedWithinAlert gates the IDLE/PATROL escalation: the target must be in
// the cone and inside AlertDistance.
func (n *NPC) sensedWithinAlert() (spatial.Vec3, bool) {
	pos, ok := n.senseTarget()
	if !ok || spatial.Distance(n.position, pos) > n.cfg.Perception.AlertDistance {
		return spatial.Vec3{}, false
	}
	return pos, true
}

func (n *NPC) tickIdle(dt float64) {
	if pos, ok := n.sensedWithinAlert(); ok {
		n.rememberTarget(pos)
		n.transitionTo(StateAlert)
		return
	}
	n.idleTimer += dt
	if n.idleTimer >= n.cfg.Movement.IdleDwell {
		n.transitionTo(StatePatrol)
	}
}

func (n *NPC) tickPatrol(dt float64) {
	if pos, ok := n.sensedWithinAlert(); ok {
		n.rememberTarget(pos)
		n.transitionTo(StateAlert)
		return
	}
	if len(n.waypoints) > 0 {
		wp := n.waypoints[n.waypointIndex]
		n.steerToward(wp, n.cfg.Movement.WalkSpeed, dt)
		if spatial.HorizontalDistance(n.position, wp) <= n.cfg.Movement.WaypointReachedDistance {
			n.waypointIndex = (n.waypointIndex + 1) % len(n.waypoints)
		}
		return
	}

	// No route: wander inside the patrol radius, re-rolling direction on an
	// interval and steering home when straying out.
	n.changeDirectionTimer -= dt
	if n.changeDirectionTimer <= 0 {
		n.wanderDir = n.randomUnitDir()
		n.changeDirectionTimer = n.cfg.Movement.ChangeDirectionInterval
	}
	goal := n.position.Add(n.wanderDir)
	if spatial.HorizontalDistance(n.position, n.patrolCenter) > n.cfg.Movement.PatrolRadius {
		goal = n.patrolCenter
	}
	n.steerToward(goal, n.cfg.Movement.WalkSpeed, dt)
}

func (n *NPC) tickAlert(dt float64) {
	if n.hasLastKnown {
		n.faceToward(n.lastKnownTargetPos, dt)
	}
	n.alertTimer += dt
	if pos, ok := n.senseTarget(); ok {
		n.rememberTarget(pos)
		if n.alertTimer >= n.cfg.Combat.AlertDuration {
			n.transitionTo(StateChase)
		}
		return
	}
	if n.alertTimer >= 2*n.cfg.Combat.AlertDuration {
		n.transitionTo(StatePatrol)
	}
}

func (n *NPC) tickChase(dt float64) {
	if pos, ok := n.senseTarget(); ok {
		n.rememberTarget(pos)
		dist := spatial.Distance(n.position, pos)
		switch {
		case dist <= n.cfg.Perception.AttackDistance:
			n.transitionTo(StateAttack)
		case dist > n.cfg.Perception.LoseTargetDistance:
			n.transitionTo(StatePatrol)
		default:
			n.steerToward(pos, n.cfg.Movement.ChaseSpeed, dt)
		}
		return
	}

	// Lost sight: run to where the target was last seen, then give up.
	if !n.hasLastKnown {
		n.transitionTo(StatePatrol)
		return
	}
	n.steerToward(n.lastKnownTargetPos, n.cfg.Movement.ChaseSpeed, dt)
	if spatial.Distance(n.position, n.lastKnownTargetPos) <= lastKnownArriveDistance {
		n.transitionTo(StatePatrol)
	}
}

func (n *NPC) tickAttack(dt float64) {
	t := n.registry.Target()
	if t == nil {
		n.transitionTo(StateChase)
		return
	}
	pos := t.Position()
	n.faceToward(pos, dt)
	if spatial.Distance(n.position, pos) > n.cfg.Perception.AttackDistance*attackBreakFactor {
		n.transitionTo(StateChase)
		return
	}
	n.attackCooldown -= dt
	if n.attackCooldown <= 0 {
		t.TakeDamage(n.cfg.Combat.AttackDamage)
		n.attackCooldown = 1 / n.cfg.Combat.AttackRate
		n.publish(EventAttack, AttackData{ID: n.id, Damage: n.cfg.Combat.AttackDamage, Target: t})
	}
}

func (n *NPC) tickDead(dt float64) {
	if !n.decaying {
		return
	}
	n.decayTimer += dt
	progress := math.Min(1, n.decayTimer/n.cfg.Decay.Duration)
	n.yaw = spatial.NormalizeAngle(n.yaw + n.cfg.Decay.SpinRate*dt)
	if n.visual != nil {
		n.visual.SetScale(1 - 0.8*progress)
		n.visual.SetOpacity(1 - progress)
	}
	if progress >= 1 {
		if n.visual != nil {
			n.visual.SetVisible(false)
		}
		n.decaying = false
	}
}

func (n *NPC) rememberTarget(pos spatial.Vec3) {
	n.lastKnownTargetPos = pos
	n.hasLastKnown = true
}

// transitionTo is the single passage for every state change. Re-entering the
// current state is a no-op: no timer resets, no duplicate notifications.
func (n *NPC) transitionTo(next State) {
	if next == n.state {
		return
	}
	prev := n.state
	n.previousState = prev
	n.state = next
	n.enterState(next)
	n.applyAppearance(next)
	n.publish(EventStateChange, StateChangeData{ID: n.id, From: prev, To: next})
}

func (n *NPC) enterState(s State) {
	switch s {
	case StateIdle:
		n.idleTimer = 0
		n.changeDirectionTimer = 0
	case StatePatrol:
		n.changeDirectionTimer = 0
	case StateAlert:
		n.alertTimer = 0
	case StateAttack:
		n.attackCooldown = 0
	case StateDead:
		n.decayTimer = 0
		n.decaying = true
	}
}

func (n *NPC) applyAppearance(s State) {
	if n.visual == nil {
		return
	}
	clip := n.clips[s.action()]
	loop := s != StateAttack && s != StateDead
	_ = n.visual.PlayClip(clip, render.PlayOptions{FadeTime: clipFadeTime, Loop: loop})
	if n.registry.debugTint {
		n.visual.SetTint(s.tint())
	}
}

func (n *NPC) publish(eventType string, data any) {
	if n.registry.bus == nil {
		return
	}
	_ = n.registry.bus.Publish(bus.NewEvent(eventType, n.id, data))
}

func (n *NPC) randomUnitDir() spatial.Vec3 {
	angle := n.rng.Float64() * 2 * math.Pi
	return spatial.Vec3{X: math.Cos(angle), Z: math.Sin(angle)}
}

// Accessors. The simulation goroutine owns all mutable state; read these from
// there.

func (n *NPC) ID() string { return n.id }

func (n *NPC) State() State { return n.state }

func (n *NPC) PreviousState() State { return n.previousState }

func (n *NPC) Position() spatial.Vec3 { return n.position }

func (n *NPC) Yaw() float64 { return n.yaw }

func (n *NPC) Health() int { return n.healthCurrent }

func (n *NPC) MaxHealth() int { return n.healthMax }

func (n *NPC) Alive() bool { return n.alive }

func (n *NPC) Loaded() bool { return n.loaded }

func (n *NPC) SpawnPoint() spatial.Vec3 { return n.spawnPoint }

func (n *NPC) Waypoints() []spatial.Vec3 { return n.waypoints }

func (n *NPC) LastKnownTargetPosition() (spatial.Vec3, bool) {
	return n.lastKnownTargetPos, n.hasLastKnown
}

func (n *NPC) Visual() render.Visual { return n.visual }
