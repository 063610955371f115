package server

import (
	"sync"

	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

// Player is the shared target the NPC registry hunts. It is written from the
// WebSocket command path and read from the simulation goroutine, so all state
// sits behind a mutex.
type Player struct {
	mu        sync.RWMutex
	position  spatial.Vec3
	health    int
	healthMax int
}

func NewPlayer(position spatial.Vec3, health int) *Player {
	return &Player{position: position, health: health, healthMax: health}
}

func (p *Player) Position() spatial.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

func (p *Player) MoveTo(position spatial.Vec3) {
	p.mu.Lock()
	p.position = position
	p.mu.Unlock()
}

func (p *Player) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.health == 0 {
		return
	}
	p.health -= amount
	if p.health < 0 {
		p.health = 0
	}
}

func (p *Player) Respawn(position spatial.Vec3) {
	p.mu.Lock()
	p.position = position
	p.health = p.healthMax
	p.mu.Unlock()
}

func (p *Player) Health() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.health
}

func (p *Player) MaxHealth() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthMax
}

func (p *Player) Alive() bool {
	return p.Health() > 0
}
