package physics

import (
	"fmt"
	"sync"

	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

// FlatWorld is a minimal World backed by a single horizontal ground plane.
// It is enough to run the simulation server and the AI test suites without an
// external engine; a real deployment swaps in a full physics backend behind
// the same interface.
type FlatWorld struct {
	mu      sync.RWMutex
	groundY float64
	nextID  BodyHandle
	bodies  map[BodyHandle]*capsule
}

type capsule struct {
	position spatial.Vec3
	radius   float64
	height   float64
}

// NewFlatWorld creates a world whose walkable surface is the plane Y = groundY.
func NewFlatWorld(groundY float64) *FlatWorld {
	return &FlatWorld{
		groundY: groundY,
		nextID:  1,
		bodies:  make(map[BodyHandle]*capsule),
	}
}

func (w *FlatWorld) CreateKinematicCapsule(position spatial.Vec3, radius, height float64) (BodyHandle, error) {
	if radius <= 0 || height <= 0 {
		return 0, fmt.Errorf("physics: invalid capsule dimensions %gx%g", radius, height)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	handle := w.nextID
	w.nextID++
	w.bodies[handle] = &capsule{position: position, radius: radius, height: height}
	return handle, nil
}

func (w *FlatWorld) MoveKinematicBody(handle BodyHandle, position spatial.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	body, ok := w.bodies[handle]
	if !ok {
		return fmt.Errorf("physics: unknown body %d", handle)
	}
	body.position = position
	return nil
}

func (w *FlatWorld) RemoveBody(handle BodyHandle) {
	w.mu.Lock()
	delete(w.bodies, handle)
	w.mu.Unlock()
}

func (w *FlatWorld) RaycastDown(origin spatial.Vec3, maxDistance float64) (RaycastHit, bool) {
	dist := origin.Y - w.groundY
	if dist < 0 || dist > maxDistance {
		return RaycastHit{}, false
	}
	return RaycastHit{Distance: dist, GroundY: w.groundY}, true
}

// Step is a no-op for the flat world; bodies are kinematic and the plane is
// static. Kept so the tick loop orders physics before AI uniformly.
func (w *FlatWorld) Step(float64) {}

// BodyPosition reports the current position of a body. Exposed for the state
// view and tests.
func (w *FlatWorld) BodyPosition(handle BodyHandle) (spatial.Vec3, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	body, ok := w.bodies[handle]
	if !ok {
		return spatial.Vec3{}, false
	}
	return body.position, true
}

// BodyCount reports how many bodies are registered.
func (w *FlatWorld) BodyCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}
