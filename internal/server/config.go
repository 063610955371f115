package server

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hollowpoint/hollowpoint/internal/core/ai"
	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

// Config tunes the simulation server: transport address, tick cadence, and
// the initial world contents.
type Config struct {
	Addr string `yaml:"addr"`

	// TickRate is the simulation frequency in ticks per second.
	TickRate float64 `yaml:"tick_rate"`
	// BroadcastEvery throttles the live view: one frame every N ticks.
	BroadcastEvery int `yaml:"broadcast_every"`

	InitialNPCs  int     `yaml:"initial_npcs"`
	SpreadRadius float64 `yaml:"spread_radius"`
	GroundY      float64 `yaml:"ground_y"`
	// DebugTint colors NPC visuals by behavior state in the live view.
	DebugTint bool `yaml:"debug_tint"`

	Player PlayerConfig `yaml:"player"`
	NPC    ai.Config    `yaml:"npc"`
}

// PlayerConfig is the initial state of the shared target.
type PlayerConfig struct {
	Position spatial.Vec3 `yaml:"position"`
	Health   int          `yaml:"health"`
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		TickRate:       20,
		BroadcastEvery: 2,
		InitialNPCs:    5,
		SpreadRadius:   15,
		Player:         PlayerConfig{Position: spatial.Vec3{Z: 25}, Health: 100},
		NPC:            ai.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive, got %v", ErrInvalidConfig, c.TickRate)
	}
	if c.BroadcastEvery <= 0 {
		return fmt.Errorf("%w: broadcast interval must be positive", ErrInvalidConfig)
	}
	if c.InitialNPCs < 0 || c.SpreadRadius < 0 {
		return fmt.Errorf("%w: initial npc placement cannot be negative", ErrInvalidConfig)
	}
	if c.Player.Health <= 0 {
		return fmt.Errorf("%w: player health must be positive", ErrInvalidConfig)
	}
	return c.NPC.Validate()
}

// LoadConfig reads a YAML server configuration, merged over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("server config: decode: %w", err)
	}
	cfg.NPC = ai.DefaultConfig().Merged(cfg.NPC)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
