package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestMergedOverlaysNonZeroFields(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merged(Config{
		Health:   250,
		Position: spatial.Vec3{X: 4, Z: -2},
		Movement: MovementConfig{WalkSpeed: 3.5},
		Combat:   CombatConfig{AttackDamage: 25},
	})

	require.Equal(t, 250, merged.Health)
	require.Equal(t, spatial.Vec3{X: 4, Z: -2}, merged.Position)
	require.Equal(t, 3.5, merged.Movement.WalkSpeed)
	require.Equal(t, 25, merged.Combat.AttackDamage)

	// Untouched fields keep the base values.
	require.Equal(t, base.Movement.ChaseSpeed, merged.Movement.ChaseSpeed)
	require.Equal(t, base.ModelPath, merged.ModelPath)
	require.Equal(t, base.Perception, merged.Perception)
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	in := `
model_path: models/brute.glb
health: 300
movement:
  walk_speed: 1.2
combat:
  attack_damage: 40
`
	cfg, err := LoadConfig(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, "models/brute.glb", cfg.ModelPath)
	require.Equal(t, 300, cfg.Health)
	require.Equal(t, 1.2, cfg.Movement.WalkSpeed)
	require.Equal(t, 40, cfg.Combat.AttackDamage)

	// Everything not in the document comes from the defaults.
	require.Equal(t, DefaultConfig().Perception, cfg.Perception)
	require.Equal(t, DefaultConfig().Decay, cfg.Decay)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("movement: [broken"))
	require.Error(t, err)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("health: -10"))
	require.Error(t, err)
}

func TestValidateFailures(t *testing.T) {
	cases := map[string]func(*Config){
		"missing model":       func(c *Config) { c.ModelPath = "" },
		"zero health":         func(c *Config) { c.Health = 0 },
		"zero fov":            func(c *Config) { c.Perception.FOVAngle = 0 },
		"zero view distance":  func(c *Config) { c.Perception.ViewDistance = 0 },
		"zero attack range":   func(c *Config) { c.Perception.AttackDistance = 0 },
		"zero walk speed":     func(c *Config) { c.Movement.WalkSpeed = 0 },
		"zero attack rate":    func(c *Config) { c.Combat.AttackRate = 0 },
		"negative waypoints":  func(c *Config) { c.WaypointCount = -1 },
		"zero alert duration": func(c *Config) { c.Combat.AlertDuration = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
