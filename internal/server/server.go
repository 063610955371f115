package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/hollowpoint/hollowpoint/internal/core/ai"
	"github.com/hollowpoint/hollowpoint/internal/core/events/bus"
	"github.com/hollowpoint/hollowpoint/internal/core/observability/log"
	"github.com/hollowpoint/hollowpoint/internal/core/physics"
	"github.com/hollowpoint/hollowpoint/internal/core/render"
)

// Server runs the NPC simulation on a single goroutine and exposes a
// WebSocket live view of it. All world mutation funnels through the command
// queue so WebSocket clients never touch simulation state directly.
type Server struct {
	cfg    Config
	logger log.Log

	world    physics.World
	loader   *render.MemoryLoader
	bus      bus.EventBus
	registry *ai.Registry
	player   *Player

	hub      *hub
	httpSrv  *http.Server
	commands chan func()

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	wg      sync.WaitGroup

	tick uint64
}

func NewServer(cfg Config, logger log.Log) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loader := render.NewMemoryLoader()
	loader.Register(cfg.NPC.ModelPath, "Idle", "Walk", "Run", "Attack", "Death")

	var opts []ai.RegistryOption
	if cfg.DebugTint {
		opts = append(opts, ai.WithDebugTint())
	}

	world := physics.NewFlatWorld(cfg.GroundY)
	eventBus := bus.New()
	registry := ai.NewRegistry(cfg.NPC, loader, world, eventBus, logger, opts...)
	player := NewPlayer(cfg.Player.Position, cfg.Player.Health)
	registry.SetTarget(player)

	return &Server{
		cfg:      cfg,
		logger:   logger.With(log.String("component", "server")),
		world:    world,
		loader:   loader,
		bus:      eventBus,
		registry: registry,
		player:   player,
		hub:      newHub(),
		commands: make(chan func(), 256),
	}, nil
}

// Registry exposes the NPC collection, e.g. for the injector and tests.
func (s *Server) Registry() *ai.Registry { return s.registry }

func (s *Server) Player() *Player { return s.player }

// Start spawns the initial NPCs and launches the simulation loop and the
// HTTP listener. It returns once both are running.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	s.running = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.subscribeEvents()
	s.registry.SpawnMany(ctx, s.cfg.InitialNPCs, ai.Config{}, s.cfg.SpreadRadius)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s.httpSrv = &http.Server{Addr: s.cfg.Addr, Handler: mux}

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http listener failed", log.Error(err))
		}
	}()

	s.wg.Add(1)
	go s.run(runCtx)

	s.logger.Info("server started",
		log.String("addr", s.cfg.Addr),
		log.Float64("tick_rate", s.cfg.TickRate),
		log.Int("npcs", s.registry.Count()),
	)
	return nil
}

// Stop shuts the HTTP listener down gracefully and stops the simulation loop.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrServerNotRunning
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown", log.Error(err))
	}

	cancel()
	s.wg.Wait()
	close(done)
	s.hub.closeAll()
	s.logger.Info("server stopped")
	return nil
}

// Do schedules fn onto the simulation goroutine. It is the only way external
// callers may mutate world state.
func (s *Server) Do(fn func()) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		fn()
		return
	}
	select {
	case s.commands <- fn:
	case <-done:
	}
}

func (s *Server) run(ctx context.Context) {
	defer s.wg.Done()

	interval := time.Duration(float64(time.Second) / s.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.step(now.Sub(last).Seconds())
			last = now
		}
	}
}

// step is one simulation tick: queued commands, physics, AI, broadcast.
func (s *Server) step(dt float64) {
drain:
	for {
		select {
		case fn := <-s.commands:
			fn()
		default:
			break drain
		}
	}

	s.world.Step(dt)
	s.registry.Update(dt)

	s.tick++
	if s.tick%uint64(s.cfg.BroadcastEvery) == 0 {
		s.broadcastFrame()
	}
}

func (s *Server) subscribeEvents() {
	_, _ = s.bus.Subscribe(ai.EventStateChange, func(e bus.Event) error {
		if data, ok := e.Data().(ai.StateChangeData); ok {
			s.logger.Debug("npc state change",
				log.String("npc", data.ID),
				log.String("from", data.From.String()),
				log.String("to", data.To.String()),
			)
		}
		return nil
	})
	_, _ = s.bus.Subscribe(ai.EventDeath, func(e bus.Event) error {
		if data, ok := e.Data().(ai.DeathData); ok {
			s.logger.Info("npc died", log.String("npc", data.ID))
		}
		return nil
	})
	_, _ = s.bus.Subscribe(ai.EventAttack, func(e bus.Event) error {
		if data, ok := e.Data().(ai.AttackData); ok {
			s.logger.Debug("npc attacked player",
				log.String("npc", data.ID),
				log.Int("damage", data.Damage),
				log.Int("player_health", s.player.Health()),
			)
		}
		return nil
	})
}

// Live view frame model.

type npcFrame struct {
	ID        string  `json:"id"`
	State     string  `json:"state"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Yaw       float64 `json:"yaw"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"max_health"`
	Alive     bool    `json:"alive"`
}

type playerFrame struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"max_health"`
}

type stateFrame struct {
	Tick   uint64      `json:"tick"`
	Player playerFrame `json:"player"`
	NPCs   []npcFrame  `json:"npcs"`
}

// buildFrame snapshots the world. Runs on the simulation goroutine.
func (s *Server) buildFrame() stateFrame {
	npcs := s.registry.All()
	frame := stateFrame{
		Tick: s.tick,
		NPCs: make([]npcFrame, 0, len(npcs)),
	}
	pos := s.player.Position()
	frame.Player = playerFrame{
		X: pos.X, Y: pos.Y, Z: pos.Z,
		Health:    s.player.Health(),
		MaxHealth: s.player.MaxHealth(),
	}
	for _, npc := range npcs {
		p := npc.Position()
		frame.NPCs = append(frame.NPCs, npcFrame{
			ID:        npc.ID(),
			State:     npc.State().String(),
			X:         p.X,
			Y:         p.Y,
			Z:         p.Z,
			Yaw:       npc.Yaw(),
			Health:    npc.Health(),
			MaxHealth: npc.MaxHealth(),
			Alive:     npc.Alive(),
		})
	}
	return frame
}

func (s *Server) broadcastFrame() {
	if s.hub.empty() {
		return
	}
	b, err := json.Marshal(s.buildFrame())
	if err != nil {
		s.logger.Warn("frame marshal failed", log.Error(err))
		return
	}
	s.hub.broadcast(b)
}
