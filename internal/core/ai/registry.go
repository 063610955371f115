package ai

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hollowpoint/hollowpoint/internal/core/events/bus"
	"github.com/hollowpoint/hollowpoint/internal/core/observability/log"
	"github.com/hollowpoint/hollowpoint/internal/core/physics"
	"github.com/hollowpoint/hollowpoint/internal/core/render"
	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

// Target is the entity NPCs sense and fight: the player. The registry keeps a
// single shared reference; NPCs resolve it each tick and never own it or
// spawn their own.
type Target interface {
	Position() spatial.Vec3
	TakeDamage(amount int)
}

// Registry owns every NPC instance: spawning, the per-tick update fan-out,
// proximity queries and bulk operations. It is constructed explicitly by the
// simulation owner and passed down; there is no package-level singleton.
type Registry struct {
	logger log.Log
	bus    bus.EventBus
	phys   physics.World
	loader render.Loader

	defaults  Config
	debugTint bool

	mu     sync.RWMutex
	npcs   map[string]*NPC
	target Target

	rngMu sync.Mutex
	rng   *rand.Rand
}

// RegistryOption tweaks registry construction.
type RegistryOption func(*Registry)

// WithDebugTint enables per-state debug coloring of NPC visuals.
func WithDebugTint() RegistryOption {
	return func(r *Registry) { r.debugTint = true }
}

// NewRegistry wires the registry to its collaborators. loader is required;
// phys and eventBus may be nil, in which case grounding degrades to
// "not grounded" and notifications are dropped.
func NewRegistry(defaults Config, loader render.Loader, phys physics.World, eventBus bus.EventBus, logger log.Log, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = log.Provide()
	}
	r := &Registry{
		logger:   logger.With(log.String("component", "npc_registry")),
		bus:      eventBus,
		phys:     phys,
		loader:   loader,
		defaults: defaults,
		npcs:     make(map[string]*NPC),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTarget installs the shared target reference broadcast to all NPCs.
func (r *Registry) SetTarget(t Target) {
	r.mu.Lock()
	r.target = t
	r.mu.Unlock()
}

// Target returns the shared target, or nil when none is set.
func (r *Registry) Target() Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.target
}

// Spawn constructs one NPC from the defaults merged with override, waits for
// its asset load, registers its physics body and adds it to the live
// collection. A load failure is logged and returned; it never aborts sibling
// spawns.
func (r *Registry) Spawn(ctx context.Context, override Config) (*NPC, error) {
	cfg := r.defaults.Merged(override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	visual, clipNames, err := r.loader.LoadAnimatedModel(ctx, cfg.ModelPath)
	if err != nil {
		r.logger.Warn("npc spawn failed",
			log.String("model", cfg.ModelPath),
			log.Error(err))
		return nil, fmt.Errorf("ai: load model %q: %w", cfg.ModelPath, err)
	}

	var body physics.BodyHandle
	if r.phys != nil {
		body, err = r.phys.CreateKinematicCapsule(cfg.Position, cfg.Capsule.Radius, cfg.Capsule.Height)
		if err != nil {
			visual.Release()
			r.logger.Warn("npc spawn failed", log.Error(err))
			return nil, fmt.Errorf("ai: create body: %w", err)
		}
	}

	id := uuid.NewString()
	npc := &NPC{
		id:            id,
		cfg:           cfg,
		registry:      r,
		phys:          r.phys,
		body:          body,
		visual:        visual,
		clips:         resolveClips(cfg.Clips, clipNames),
		position:      cfg.Position,
		facing:        spatial.YawForward(0),
		spawnPoint:    cfg.Position,
		healthCurrent: cfg.Health,
		healthMax:     cfg.Health,
		alive:         true,
		patrolCenter:  cfg.Position,
		rng:           rand.New(rand.NewSource(int64(xxhash.Sum64String(id)))),
	}
	npc.waypoints = npc.generateRoute(cfg.WaypointCount, cfg.Movement.PatrolRadius)

	// Loaded NPCs come up patrolling.
	npc.state = StatePatrol
	npc.previousState = StatePatrol
	npc.enterState(StatePatrol)
	npc.applyAppearance(StatePatrol)
	npc.loaded = true

	r.mu.Lock()
	r.npcs[id] = npc
	r.mu.Unlock()

	r.logger.Debug("npc spawned",
		log.String("id", id),
		log.String("model", cfg.ModelPath),
		log.Int("waypoints", len(npc.waypoints)))
	if r.bus != nil {
		_ = r.bus.Publish(bus.NewEvent(EventSpawn, id, nil))
	}
	return npc, nil
}

// SpawnMany issues count concurrent spawns scattered around the override's
// position within spreadRadius and returns the ones that loaded. Individual
// failures degrade the batch, they never fail it.
func (r *Registry) SpawnMany(ctx context.Context, count int, override Config, spreadRadius float64) []*NPC {
	if count <= 0 {
		return nil
	}
	center := r.defaults.Merged(override).Position

	var (
		g       errgroup.Group
		mu      sync.Mutex
		spawned = make([]*NPC, 0, count)
	)
	for i := 0; i < count; i++ {
		cfg := override
		cfg.Position = r.scatter(center, spreadRadius)
		g.Go(func() error {
			npc, err := r.Spawn(ctx, cfg)
			if err != nil {
				// Already logged in Spawn; the batch carries on.
				return nil
			}
			mu.Lock()
			spawned = append(spawned, npc)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Info("npc batch spawn",
		log.Int("requested", count),
		log.Int("spawned", len(spawned)))
	return spawned
}

func (r *Registry) scatter(center spatial.Vec3, radius float64) spatial.Vec3 {
	if radius <= 0 {
		return center
	}
	r.rngMu.Lock()
	angle := r.rng.Float64() * 2 * math.Pi
	dist := radius * math.Sqrt(r.rng.Float64())
	r.rngMu.Unlock()
	return center.Add(spatial.Vec3{X: math.Cos(angle) * dist, Z: math.Sin(angle) * dist})
}

// Update runs one AI tick over every NPC. Order across NPCs is unspecified;
// no NPC depends on another's update within a tick.
func (r *Registry) Update(dt float64) {
	for _, npc := range r.snapshot() {
		npc.Update(dt)
	}
}

func (r *Registry) snapshot() []*NPC {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*NPC, 0, len(r.npcs))
	for _, npc := range r.npcs {
		out = append(out, npc)
	}
	return out
}

// All returns the current NPC collection.
func (r *Registry) All() []*NPC { return r.snapshot() }

// Count reports how many NPCs are tracked.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.npcs)
}

// Get looks an NPC up by id.
func (r *Registry) Get(id string) (*NPC, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	npc, ok := r.npcs[id]
	return npc, ok
}

// ClosestTo scans for the NPC nearest to position. With aliveOnly set, dead
// NPCs are skipped. The ok result is false when no candidate qualifies.
func (r *Registry) ClosestTo(position spatial.Vec3, aliveOnly bool) (*NPC, float64, bool) {
	var (
		best     *NPC
		bestDist = math.MaxFloat64
	)
	for _, npc := range r.snapshot() {
		if aliveOnly && !npc.alive {
			continue
		}
		d := spatial.Distance(position, npc.position)
		if d < bestDist {
			bestDist = d
			best = npc
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

// KillAll drops every living NPC.
func (r *Registry) KillAll() {
	for _, npc := range r.snapshot() {
		npc.Kill()
	}
}

// ReviveAll brings every dead NPC back at its spawn point.
func (r *Registry) ReviveAll() {
	for _, npc := range r.snapshot() {
		npc.Revive()
	}
}

// RemoveAll tears down the whole collection.
func (r *Registry) RemoveAll() {
	for _, npc := range r.snapshot() {
		r.Remove(npc)
	}
}

// Remove detaches an NPC's visual, releases its physics body and drops it
// from the collection. Removing an untracked NPC is a no-op.
func (r *Registry) Remove(npc *NPC) {
	if npc == nil {
		return
	}
	r.mu.Lock()
	_, tracked := r.npcs[npc.id]
	if tracked {
		delete(r.npcs, npc.id)
	}
	r.mu.Unlock()
	if !tracked {
		return
	}
	if npc.visual != nil {
		npc.visual.Release()
	}
	if r.phys != nil {
		r.phys.RemoveBody(npc.body)
	}
	r.logger.Debug("npc removed", log.String("id", npc.id))
}

// generateRoute lays count waypoints in a ring around the spawn point, with
// per-NPC deterministic jitter so routes differ between entities but stay
// stable across runs.
func (n *NPC) generateRoute(count int, radius float64) []spatial.Vec3 {
	if count <= 0 || radius <= 0 {
		return nil
	}
	route := make([]spatial.Vec3, 0, count)
	for i := 0; i < count; i++ {
		angle := 2*math.Pi*float64(i)/float64(count) + n.rng.Float64()*0.5
		dist := radius * (0.5 + 0.5*n.rng.Float64())
		route = append(route, n.spawnPoint.Add(spatial.Vec3{
			X: math.Cos(angle) * dist,
			Z: math.Sin(angle) * dist,
		}))
	}
	return route
}

// resolveClips binds each logical action to a clip present in the loaded
// model. Missing mappings fall back to the configured default clip, or to the
// model's first clip when the default itself is absent.
func resolveClips(cfg ClipConfig, available []string) map[string]string {
	set := make(map[string]struct{}, len(available))
	for _, c := range available {
		set[c] = struct{}{}
	}
	fallback := cfg.Default
	if _, ok := set[fallback]; !ok && len(available) > 0 {
		fallback = available[0]
	}
	actions := []string{ActionIdle, ActionWalk, ActionRun, ActionAttack, ActionDeath}
	out := make(map[string]string, len(actions))
	for _, action := range actions {
		clip := cfg.Actions[action]
		if _, ok := set[clip]; !ok {
			clip = fallback
		}
		out[action] = clip
	}
	return out
}
