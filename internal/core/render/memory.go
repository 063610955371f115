package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryLoader serves pre-registered model definitions from memory. The
// simulation server uses it as a stand-in renderer; tests use it to observe
// exactly which clips the AI selected and to inject load failures.
type MemoryLoader struct {
	mu     sync.RWMutex
	models map[string][]string // path -> clip names
}

func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{models: make(map[string][]string)}
}

// Register makes a model path loadable with the given clip names.
func (l *MemoryLoader) Register(path string, clips ...string) {
	l.mu.Lock()
	l.models[path] = clips
	l.mu.Unlock()
}

func (l *MemoryLoader) LoadAnimatedModel(ctx context.Context, path string) (Visual, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	l.mu.RLock()
	clips, ok := l.models[path]
	l.mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("render: model %q not found", path)
	}
	v := &MemoryVisual{
		id:      uuid.NewString(),
		clips:   make(map[string]struct{}, len(clips)),
		visible: true,
		scale:   1,
		opacity: 1,
	}
	for _, c := range clips {
		v.clips[c] = struct{}{}
	}
	return v, clips, nil
}

// MemoryVisual records every mutation applied to it.
type MemoryVisual struct {
	mu       sync.Mutex
	id       string
	clips    map[string]struct{}
	current  string
	plays    []string
	tint     Color
	scale    float64
	opacity  float64
	visible  bool
	released bool
}

func (v *MemoryVisual) ID() string { return v.id }

func (v *MemoryVisual) PlayClip(name string, _ PlayOptions) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.clips[name]; !ok {
		return fmt.Errorf("render: unknown clip %q", name)
	}
	v.current = name
	v.plays = append(v.plays, name)
	return nil
}

func (v *MemoryVisual) SetTint(tint Color) {
	v.mu.Lock()
	v.tint = tint
	v.mu.Unlock()
}

func (v *MemoryVisual) SetScale(scale float64) {
	v.mu.Lock()
	v.scale = scale
	v.mu.Unlock()
}

func (v *MemoryVisual) SetOpacity(opacity float64) {
	v.mu.Lock()
	v.opacity = opacity
	v.mu.Unlock()
}

func (v *MemoryVisual) SetVisible(visible bool) {
	v.mu.Lock()
	v.visible = visible
	v.mu.Unlock()
}

func (v *MemoryVisual) Release() {
	v.mu.Lock()
	v.released = true
	v.visible = false
	v.mu.Unlock()
}

// Observation accessors for tests and the state view.

func (v *MemoryVisual) CurrentClip() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

func (v *MemoryVisual) PlayedClips() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.plays))
	copy(out, v.plays)
	return out
}

func (v *MemoryVisual) Tint() Color {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tint
}

func (v *MemoryVisual) Scale() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale
}

func (v *MemoryVisual) Opacity() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opacity
}

func (v *MemoryVisual) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

func (v *MemoryVisual) Released() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.released
}
