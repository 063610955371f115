package ai

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollowpoint/hollowpoint/internal/core/events/bus"
	"github.com/hollowpoint/hollowpoint/internal/core/observability/log"
	"github.com/hollowpoint/hollowpoint/internal/core/physics"
	"github.com/hollowpoint/hollowpoint/internal/core/render"
	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

func TestSteerTowardMakesProgress(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)
	goal := spatial.Vec3{X: 10}

	before := spatial.HorizontalDistance(npc.Position(), goal)
	for i := 0; i < 10; i++ {
		npc.steerToward(goal, npc.cfg.Movement.WalkSpeed, testTick)
	}
	after := spatial.HorizontalDistance(npc.Position(), goal)

	require.Less(t, after, before)
	require.Positive(t, npc.Position().X)
}

func TestSteerTowardUpdatesYaw(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)
	require.Zero(t, npc.Yaw())

	for i := 0; i < 20; i++ {
		npc.steerToward(spatial.Vec3{X: 100}, npc.cfg.Movement.WalkSpeed, testTick)
	}
	require.InDelta(t, math.Pi/2, npc.Yaw(), 0.1)
}

func TestSteerTowardSnapsToGround(t *testing.T) {
	loader := render.NewMemoryLoader()
	loader.Register("models/grunt.glb", "Idle", "Walk", "Run", "Attack", "Death")
	world := physics.NewFlatWorld(1.25)
	reg := NewRegistry(DefaultConfig(), loader, world, bus.New(), log.Nop())

	npc, err := reg.Spawn(context.Background(), Config{})
	require.NoError(t, err)

	npc.steerToward(spatial.Vec3{X: 10}, 2, testTick)
	require.InDelta(t, 1.25+npc.cfg.Movement.GroundSkin, npc.Position().Y, 1e-9)
}

func TestSteerTowardDrivesBody(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)

	npc.steerToward(spatial.Vec3{Z: 10}, 2, testTick)
	pos, ok := f.world.BodyPosition(npc.body)
	require.True(t, ok)
	require.Equal(t, npc.Position(), pos)
}

func TestSteerTowardDeadZone(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)
	start := npc.Position()

	npc.steerToward(start.Add(spatial.Vec3{X: arriveEpsilon / 2}), 2, testTick)
	require.Equal(t, start, npc.Position())
}

func TestFaceTowardProportionalTurn(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)
	require.Zero(t, npc.Yaw())

	npc.faceToward(spatial.Vec3{X: 5}, testTick)
	step := spatial.Clamp(npc.cfg.Movement.FaceRate*testTick, 0, 1)
	require.InDelta(t, math.Pi/2*step, npc.Yaw(), 1e-9)

	for i := 0; i < 100; i++ {
		npc.faceToward(spatial.Vec3{X: 5}, testTick)
	}
	require.InDelta(t, math.Pi/2, npc.Yaw(), 1e-3)
	require.InDelta(t, 1, npc.facing.X, 1e-3)
}

func TestFaceTowardIgnoresOwnPosition(t *testing.T) {
	f := newFixture(t)
	npc := f.spawn(t)
	npc.faceToward(npc.Position(), testTick)
	require.Zero(t, npc.Yaw())
}
