package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollowpoint/hollowpoint/internal/core/observability/log"
	"github.com/hollowpoint/hollowpoint/internal/core/render"
	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

// flakyLoader fails the first n loads, then delegates.
type flakyLoader struct {
	inner    *render.MemoryLoader
	mu       sync.Mutex
	failures int
}

func (l *flakyLoader) LoadAnimatedModel(ctx context.Context, path string) (render.Visual, []string, error) {
	l.mu.Lock()
	fail := l.failures > 0
	if fail {
		l.failures--
	}
	l.mu.Unlock()
	if fail {
		return nil, nil, errors.New("asset fetch failed")
	}
	return l.inner.LoadAnimatedModel(ctx, path)
}

func TestNilCollaboratorsDegrade(t *testing.T) {
	loader := render.NewMemoryLoader()
	loader.Register("models/grunt.glb", "Idle", "Walk", "Run", "Attack", "Death")
	reg := NewRegistry(DefaultConfig(), loader, nil, nil, log.Nop())

	npc, err := reg.Spawn(context.Background(), Config{})
	require.NoError(t, err)
	require.True(t, npc.Loaded())

	// Full behavior cycle without a physics world or bus: the NPC moves
	// un-grounded and notifications are dropped, nothing panics.
	target := &stubTarget{pos: spatial.Vec3{Z: 10}}
	reg.SetTarget(target)
	for i := 0; i < 200; i++ {
		reg.Update(testTick)
	}
	require.NotEmpty(t, target.hits, "npc never closed in to attack")
	require.Zero(t, npc.Position().Y, "no ground to snap to")

	npc.ApplyDamage(npc.MaxHealth() / 2)
	npc.Kill()
	require.Equal(t, StateDead, npc.State())

	npc.Revive()
	require.Equal(t, StatePatrol, npc.State())
	require.Equal(t, npc.SpawnPoint(), npc.Position())

	reg.Remove(npc)
	require.Zero(t, reg.Count())
}

func TestSpawnUnknownModelFails(t *testing.T) {
	f := newFixture(t)
	npc, err := f.registry.Spawn(context.Background(), Config{ModelPath: "models/missing.glb"})
	require.Error(t, err)
	require.Nil(t, npc)
	require.Zero(t, f.registry.Count())
	require.Zero(t, f.world.BodyCount())
}

func TestSpawnManySurvivesPartialFailure(t *testing.T) {
	inner := render.NewMemoryLoader()
	inner.Register("models/grunt.glb", "Idle", "Walk", "Run", "Attack", "Death")
	loader := &flakyLoader{inner: inner, failures: 1}

	f := newFixture(t)
	reg := NewRegistry(DefaultConfig(), loader, f.world, f.bus, f.registry.logger)

	npcs := reg.SpawnMany(context.Background(), 3, Config{}, 5)
	require.Len(t, npcs, 2)
	require.Equal(t, 2, reg.Count())
	for _, npc := range npcs {
		require.True(t, npc.Loaded())
		require.Equal(t, StatePatrol, npc.State())
	}
}

func TestSpawnManyScattersAroundOrigin(t *testing.T) {
	f := newFixture(t)
	npcs := f.registry.SpawnMany(context.Background(), 5, Config{}, 8)
	require.Len(t, npcs, 5)
	for _, npc := range npcs {
		require.LessOrEqual(t, spatial.HorizontalDistance(npc.SpawnPoint(), spatial.Vec3{}), 8.0)
	}
}

func TestClosestTo(t *testing.T) {
	f := newFixture(t)
	near, err := f.registry.Spawn(context.Background(), Config{Position: spatial.Vec3{X: 2}})
	require.NoError(t, err)
	far, err := f.registry.Spawn(context.Background(), Config{Position: spatial.Vec3{X: 20}})
	require.NoError(t, err)

	got, dist, ok := f.registry.ClosestTo(spatial.Vec3{}, false)
	require.True(t, ok)
	require.Equal(t, near.ID(), got.ID())
	require.InDelta(t, 2, dist, 1e-9)

	near.Kill()
	got, _, ok = f.registry.ClosestTo(spatial.Vec3{}, true)
	require.True(t, ok)
	require.Equal(t, far.ID(), got.ID())
}

func TestClosestToEmpty(t *testing.T) {
	f := newFixture(t)
	_, _, ok := f.registry.ClosestTo(spatial.Vec3{}, false)
	require.False(t, ok)
}

func TestKillAllReviveAll(t *testing.T) {
	f := newFixture(t)
	f.registry.SpawnMany(context.Background(), 3, Config{}, 5)

	f.registry.KillAll()
	for _, npc := range f.registry.All() {
		require.False(t, npc.Alive())
		require.Equal(t, StateDead, npc.State())
	}

	f.registry.ReviveAll()
	for _, npc := range f.registry.All() {
		require.True(t, npc.Alive())
		require.Equal(t, StatePatrol, npc.State())
		require.Equal(t, npc.MaxHealth(), npc.Health())
	}
}

func TestRemoveReleasesResources(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)
	visual := npc.Visual().(*render.MemoryVisual)
	require.Equal(t, 1, f.world.BodyCount())

	f.registry.Remove(npc)
	require.Zero(t, f.registry.Count())
	require.Zero(t, f.world.BodyCount())
	require.True(t, visual.Released())

	// Removing twice is harmless.
	f.registry.Remove(npc)
	require.Zero(t, f.registry.Count())
}

func TestRemoveAll(t *testing.T) {
	f := newFixture(t)
	f.registry.SpawnMany(context.Background(), 4, Config{}, 5)
	require.Equal(t, 4, f.registry.Count())

	f.registry.RemoveAll()
	require.Zero(t, f.registry.Count())
	require.Zero(t, f.world.BodyCount())
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)

	got, ok := f.registry.Get(npc.ID())
	require.True(t, ok)
	require.Same(t, npc, got)

	_, ok = f.registry.Get("no-such-id")
	require.False(t, ok)
}

func TestRegistryUpdateTicksAll(t *testing.T) {
	f := newFixture(t)
	f.registry.SpawnMany(context.Background(), 3, Config{}, 5)
	target := &stubTarget{pos: spatial.Vec3{Z: 4}}
	f.registry.SetTarget(target)

	f.registry.Update(testTick)
	alerted := 0
	for _, npc := range f.registry.All() {
		if npc.State() == StateAlert {
			alerted++
		}
	}
	// Every NPC with the target inside its cone escalated on the same tick.
	require.Positive(t, alerted)
}

func TestDebugTintOption(t *testing.T) {
	loader := render.NewMemoryLoader()
	loader.Register("models/grunt.glb", "Idle", "Walk", "Run", "Attack", "Death")
	f := newFixture(t)
	reg := NewRegistry(DefaultConfig(), loader, f.world, f.bus, f.registry.logger, WithDebugTint())

	npc, err := reg.Spawn(context.Background(), Config{})
	require.NoError(t, err)
	visual := npc.Visual().(*render.MemoryVisual)
	require.Equal(t, render.ColorGreen, visual.Tint())

	npc.Kill()
	require.Equal(t, render.ColorGray, visual.Tint())
}

func TestResolveClipsFallback(t *testing.T) {
	cfg := DefaultConfig().Clips
	resolved := resolveClips(cfg, []string{"Idle", "Walk", "Run", "Attack", "Death"})
	require.Equal(t, "Walk", resolved[ActionWalk])
	require.Equal(t, "Death", resolved[ActionDeath])

	// Missing clips fall back to the first available one.
	resolved = resolveClips(cfg, []string{"TPose"})
	for _, action := range []string{ActionIdle, ActionWalk, ActionRun, ActionAttack, ActionDeath} {
		require.Equal(t, "TPose", resolved[action])
	}
}
