package ai

import "github.com/hollowpoint/hollowpoint/internal/core/render"

// State is the behavior FSM state of an NPC. Exactly one state is active at a
// time; all changes pass through NPC.transitionTo.
type State uint8

const (
	StateIdle State = iota
	StatePatrol
	StateAlert
	StateChase
	StateAttack
	StateDead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePatrol:
		return "patrol"
	case StateAlert:
		return "alert"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Logical animation actions. Spawn configs map these to concrete clip names;
// the mapping is resolved once at load time (never by substring matching at
// playback).
const (
	ActionIdle   = "idle"
	ActionWalk   = "walk"
	ActionRun    = "run"
	ActionAttack = "attack"
	ActionDeath  = "death"
)

// action returns the logical animation for a state.
func (s State) action() string {
	switch s {
	case StatePatrol:
		return ActionWalk
	case StateChase:
		return ActionRun
	case StateAttack:
		return ActionAttack
	case StateDead:
		return ActionDeath
	default:
		return ActionIdle
	}
}

// tint returns the debug overlay color for a state.
func (s State) tint() render.Color {
	switch s {
	case StatePatrol:
		return render.ColorGreen
	case StateAlert:
		return render.ColorYellow
	case StateChase:
		return render.ColorOrange
	case StateAttack:
		return render.ColorRed
	case StateDead:
		return render.ColorGray
	default:
		return render.ColorNone
	}
}
