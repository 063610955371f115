package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hollowpoint/hollowpoint/internal/core/ai"
	"github.com/hollowpoint/hollowpoint/internal/core/observability/log"
	"github.com/hollowpoint/hollowpoint/internal/core/spatial"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

type hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *hub) empty() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) == 0
}

// broadcast fans the frame out without blocking on slow clients: a client
// with a full send buffer just skips the frame.
func (h *hub) broadcast(b []byte) {
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
		}
	}
	h.mu.RUnlock()
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		_ = c.conn.Close()
	}
	h.mu.Unlock()
}

// clientCommand is the debug command surface of the live view. Every command
// is applied on the simulation goroutine through the server's command queue.
type clientCommand struct {
	Op     string  `json:"op"` // damage | kill | revive | spawn | remove | move | respawn
	ID     string  `json:"id,omitempty"`
	Amount int     `json:"amount,omitempty"`
	Count  int     `json:"count,omitempty"`
	X      float64 `json:"x,omitempty"`
	Z      float64 `json:"z,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 64)}
	s.hub.add(client)
	s.logger.Debug("client connected", log.String("remote", conn.RemoteAddr().String()))

	go func() {
		defer func() {
			s.hub.remove(client)
			_ = conn.Close()
		}()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd clientCommand
			if err := json.Unmarshal(msg, &cmd); err != nil {
				s.logger.Debug("bad client command", log.Error(err))
				continue
			}
			if err := s.applyCommand(cmd); err != nil {
				s.logger.Debug("client command rejected",
					log.String("op", cmd.Op),
					log.Error(err),
				)
			}
		}
	}()

	for b := range client.send {
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			s.hub.remove(client)
			_ = conn.Close()
			return
		}
	}
}

// applyCommand validates a debug command and schedules it onto the
// simulation goroutine.
func (s *Server) applyCommand(cmd clientCommand) error {
	switch cmd.Op {
	case "damage":
		amount := cmd.Amount
		if amount <= 0 {
			amount = 10
		}
		s.Do(func() {
			if npc, ok := s.resolveNPC(cmd.ID); ok {
				npc.ApplyDamage(amount)
			}
		})
	case "kill":
		s.Do(func() {
			if cmd.ID == "" {
				s.registry.KillAll()
				return
			}
			if npc, ok := s.registry.Get(cmd.ID); ok {
				npc.Kill()
			}
		})
	case "revive":
		s.Do(func() {
			if cmd.ID == "" {
				s.registry.ReviveAll()
				return
			}
			if npc, ok := s.registry.Get(cmd.ID); ok {
				npc.Revive()
			}
		})
	case "spawn":
		count := cmd.Count
		if count <= 0 {
			count = 1
		}
		// Asset loads may suspend; keep them off the simulation goroutine.
		// Spawned NPCs register themselves and join the next tick's snapshot.
		go s.registry.SpawnMany(context.Background(), count, ai.Config{Position: spatial.Vec3{X: cmd.X, Z: cmd.Z}}, s.cfg.SpreadRadius)
	case "remove":
		s.Do(func() {
			if cmd.ID == "" {
				s.registry.RemoveAll()
				return
			}
			if npc, ok := s.registry.Get(cmd.ID); ok {
				s.registry.Remove(npc)
			}
		})
	case "move":
		s.Do(func() {
			s.player.MoveTo(spatial.Vec3{X: cmd.X, Z: cmd.Z})
		})
	case "respawn":
		s.Do(func() {
			s.player.Respawn(spatial.Vec3{X: cmd.X, Z: cmd.Z})
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}
	return nil
}

// resolveNPC finds the command subject: an explicit ID, or the NPC closest
// to the player when the ID is omitted. Runs on the simulation goroutine.
func (s *Server) resolveNPC(id string) (*ai.NPC, bool) {
	if id != "" {
		return s.registry.Get(id)
	}
	npc, _, ok := s.registry.ClosestTo(s.player.Position(), true)
	return npc, ok
}
