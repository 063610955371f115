package ai

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

// Config is the full spawn configuration for one NPC. The registry holds a
// default Config; per-spawn overrides are merged on top. There is no ambient
// tunable state anywhere: everything the behavior engine reads lives here.
type Config struct {
	ModelPath string       `yaml:"model_path"`
	Position  spatial.Vec3 `yaml:"position"`
	Health    int          `yaml:"health"`

	Capsule    CapsuleConfig  `yaml:"capsule"`
	Perception Perception     `yaml:"perception"`
	Movement   MovementConfig `yaml:"movement"`
	Combat     CombatConfig   `yaml:"combat"`
	Decay      DecayConfig    `yaml:"decay"`
	Clips      ClipConfig     `yaml:"clips"`

	// WaypointCount is the number of patrol waypoints generated around the
	// spawn point. Zero means no route: the NPC wanders inside PatrolRadius
	// instead.
	WaypointCount int `yaml:"waypoint_count"`
}

// CapsuleConfig describes the kinematic physics body.
type CapsuleConfig struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
}

// MovementConfig tunes the locomotion controller and patrol behavior.
type MovementConfig struct {
	WalkSpeed     float64 `yaml:"walk_speed"`
	ChaseSpeed    float64 `yaml:"chase_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"` // facing blend rate, 1/s
	FaceRate      float64 `yaml:"face_rate"`      // stationary turn rate, 1/s
	GroundSkin    float64 `yaml:"ground_skin"`    // offset above ground hits

	WaypointReachedDistance float64 `yaml:"waypoint_reached_distance"`
	PatrolRadius            float64 `yaml:"patrol_radius"`
	ChangeDirectionInterval float64 `yaml:"change_direction_interval"` // seconds
	IdleDwell               float64 `yaml:"idle_dwell"`                // seconds
}

// CombatConfig tunes the attack loop.
type CombatConfig struct {
	AttackDamage  int     `yaml:"attack_damage"`
	AttackRate    float64 `yaml:"attack_rate"` // attacks per second
	AlertDuration float64 `yaml:"alert_duration"`
}

// DecayConfig controls the visual wind-down after death: the corpse scales
// down, fades and slowly spins over Duration seconds, then is hidden.
type DecayConfig struct {
	Duration float64 `yaml:"duration"`
	SpinRate float64 `yaml:"spin_rate"` // rad/s
}

// ClipConfig is the declared mapping from logical animation actions (idle,
// walk, run, attack, death) to clip names in the loaded model. Actions with no
// mapping, or whose mapped clip is missing from the model, resolve to Default.
type ClipConfig struct {
	Actions map[string]string `yaml:"actions"`
	Default string            `yaml:"default"`
}

// DefaultConfig returns the baseline NPC tuning used when a field is left
// zero in a spawn config.
func DefaultConfig() Config {
	return Config{
		ModelPath: "models/grunt.glb",
		Health:    100,
		Capsule:   CapsuleConfig{Radius: 0.4, Height: 1.8},
		Perception: Perception{
			FOVAngle:           2.0, // ~115 degrees
			ViewDistance:       30,
			AlertDistance:      20,
			ChaseDistance:      25,
			AttackDistance:     2,
			LoseTargetDistance: 40,
		},
		Movement: MovementConfig{
			WalkSpeed:               2,
			ChaseSpeed:              5,
			RotationSpeed:           8,
			FaceRate:                4,
			GroundSkin:              0.05,
			WaypointReachedDistance: 1,
			PatrolRadius:            10,
			ChangeDirectionInterval: 3,
			IdleDwell:               2,
		},
		Combat: CombatConfig{
			AttackDamage:  10,
			AttackRate:    1,
			AlertDuration: 1.5,
		},
		Decay: DecayConfig{Duration: 3, SpinRate: 0.6},
		Clips: ClipConfig{
			Actions: map[string]string{
				ActionIdle:   "Idle",
				ActionWalk:   "Walk",
				ActionRun:    "Run",
				ActionAttack: "Attack",
				ActionDeath:  "Death",
			},
			Default: "Idle",
		},
	}
}

// Merged overlays the non-zero fields of override onto c and returns the
// result. Nested groups merge field by field; zero means "keep the default".
func (c Config) Merged(override Config) Config {
	out := c
	if override.ModelPath != "" {
		out.ModelPath = override.ModelPath
	}
	if override.Position != (spatial.Vec3{}) {
		out.Position = override.Position
	}
	if override.Health != 0 {
		out.Health = override.Health
	}
	if override.WaypointCount != 0 {
		out.WaypointCount = override.WaypointCount
	}
	mergeFloat(&out.Capsule.Radius, override.Capsule.Radius)
	mergeFloat(&out.Capsule.Height, override.Capsule.Height)
	mergeFloat(&out.Perception.FOVAngle, override.Perception.FOVAngle)
	mergeFloat(&out.Perception.ViewDistance, override.Perception.ViewDistance)
	mergeFloat(&out.Perception.AlertDistance, override.Perception.AlertDistance)
	mergeFloat(&out.Perception.ChaseDistance, override.Perception.ChaseDistance)
	mergeFloat(&out.Perception.AttackDistance, override.Perception.AttackDistance)
	mergeFloat(&out.Perception.LoseTargetDistance, override.Perception.LoseTargetDistance)
	mergeFloat(&out.Movement.WalkSpeed, override.Movement.WalkSpeed)
	mergeFloat(&out.Movement.ChaseSpeed, override.Movement.ChaseSpeed)
	mergeFloat(&out.Movement.RotationSpeed, override.Movement.RotationSpeed)
	mergeFloat(&out.Movement.FaceRate, override.Movement.FaceRate)
	mergeFloat(&out.Movement.GroundSkin, override.Movement.GroundSkin)
	mergeFloat(&out.Movement.WaypointReachedDistance, override.Movement.WaypointReachedDistance)
	mergeFloat(&out.Movement.PatrolRadius, override.Movement.PatrolRadius)
	mergeFloat(&out.Movement.ChangeDirectionInterval, override.Movement.ChangeDirectionInterval)
	mergeFloat(&out.Movement.IdleDwell, override.Movement.IdleDwell)
	if override.Combat.AttackDamage != 0 {
		out.Combat.AttackDamage = override.Combat.AttackDamage
	}
	mergeFloat(&out.Combat.AttackRate, override.Combat.AttackRate)
	mergeFloat(&out.Combat.AlertDuration, override.Combat.AlertDuration)
	mergeFloat(&out.Decay.Duration, override.Decay.Duration)
	mergeFloat(&out.Decay.SpinRate, override.Decay.SpinRate)
	if len(override.Clips.Actions) > 0 {
		out.Clips.Actions = override.Clips.Actions
	}
	if override.Clips.Default != "" {
		out.Clips.Default = override.Clips.Default
	}
	return out
}

func mergeFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// Validate rejects configurations the behavior engine cannot run with.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("config: model path is required")
	}
	if c.Health <= 0 {
		return fmt.Errorf("config: health must be positive, got %d", c.Health)
	}
	if c.Perception.FOVAngle <= 0 || c.Perception.ViewDistance <= 0 {
		return fmt.Errorf("config: perception cone must have positive fov and view distance")
	}
	if c.Perception.AttackDistance <= 0 {
		return fmt.Errorf("config: attack distance must be positive")
	}
	if c.Movement.WalkSpeed <= 0 || c.Movement.ChaseSpeed <= 0 {
		return fmt.Errorf("config: movement speeds must be positive")
	}
	if c.Combat.AttackRate <= 0 {
		return fmt.Errorf("config: attack rate must be positive")
	}
	if c.Combat.AlertDuration <= 0 {
		return fmt.Errorf("config: alert duration must be positive")
	}
	if c.WaypointCount < 0 {
		return fmt.Errorf("config: waypoint count cannot be negative")
	}
	return nil
}

// LoadConfig reads a YAML spawn configuration, merged over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	merged := DefaultConfig().Merged(c)
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
