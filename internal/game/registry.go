package game

import (
	rand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/templegold/server/internal/randutil"
	"github.com/templegold/server/internal/roomcode"
)

// Notifier receives a snapshot of a room after every successful mutation.
// Publish is fire-and-forget: the engine never blocks on it and never
// inspects delivery.
type Notifier interface {
	Publish(roomCode string, snapshot *RoomSnapshot)
}

// NopNotifier discards every snapshot.
type NopNotifier struct{}

func (NopNotifier) Publish(string, *RoomSnapshot) {}

// Config carries the engine's tunables. Zero values fall back to defaults.
type Config struct {
	RevealDelay     time.Duration
	TransitionDelay time.Duration
	Seed            int64
}

func (c Config) withDefaults() Config {
	if c.RevealDelay <= 0 {
		c.RevealDelay = DefaultRevealDelay
	}
	if c.TransitionDelay <= 0 {
		c.TransitionDelay = DefaultTransitionDelay
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Registry owns the collection of rooms and dispatches every public
// operation to the right room's state machine. Rooms live until the process
// exits; there is no deletion.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg      Config
	clock    quartz.Clock
	sched    *scheduler
	notifier Notifier
	logger   *log.Logger

	// rng is guarded by mu; it generates room codes and seeds each room's
	// private rng.
	rng *rand.Rand
}

// NewRegistry constructs a registry. A nil notifier discards snapshots.
func NewRegistry(cfg Config, notifier Notifier, logger *log.Logger, clock quartz.Clock) *Registry {
	cfg = cfg.withDefaults()
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Registry{
		rooms:    make(map[string]*Room),
		cfg:      cfg,
		clock:    clock,
		sched:    newScheduler(clock),
		notifier: notifier,
		logger:   logger.WithPrefix("registry"),
		rng:      randutil.New(cfg.Seed),
	}
}

// CreateRoom makes a new room in the lobby phase with the creator as host and
// sole player.
func (r *Registry) CreateRoom(playerName, playerID string) (*RoomSnapshot, error) {
	name := sanitizeName(playerName)
	if name == "" {
		return nil, ErrEmptyName
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrInvalidPlayerID
	}

	r.mu.Lock()
	code := roomcode.Generate(r.rng, func(c string) bool {
		_, taken := r.rooms[c]
		return taken
	})
	room := newRoom(code, playerID, r.clock.Now(), randutil.New(r.rng.Int64()))
	host := newPlayer(playerID, name, playerColors[0])
	room.playerOrder = append(room.playerOrder, playerID)
	room.players[playerID] = host
	room.addLog("Room created.")
	r.rooms[code] = room
	r.mu.Unlock()

	r.logger.Info("room created", "room", code, "host", playerID)

	room.mu.Lock()
	snap := room.snapshot()
	room.mu.Unlock()

	r.publish(code, snap)
	return snap, nil
}

// JoinRoom adds a player to a lobby. When the player id already exists in the
// room the call is a reconnect and just refreshes the display name.
func (r *Registry) JoinRoom(code, playerName, playerID string) (*RoomSnapshot, error) {
	room, err := r.room(code)
	if err != nil {
		return nil, err
	}
	name := sanitizeName(playerName)
	if name == "" {
		return nil, ErrEmptyName
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrInvalidPlayerID
	}

	room.mu.Lock()

	if existing, ok := room.players[playerID]; ok {
		existing.Name = name
		room.addLog(name + " rejoined.")
		room.touch(r.clock.Now())
		snap := room.snapshot()
		room.mu.Unlock()
		r.publish(room.code, snap)
		return snap, nil
	}

	if room.phase != PhaseLobby {
		room.mu.Unlock()
		return nil, ErrGameInProgress
	}
	if len(room.playerOrder) >= MaxPlayers {
		room.mu.Unlock()
		return nil, ErrRoomFull
	}

	room.playerOrder = append(room.playerOrder, playerID)
	room.players[playerID] = newPlayer(playerID, name, playerColors[(len(room.playerOrder)-1)%len(playerColors)])
	room.addLog(name + " joined the room.")
	room.touch(r.clock.Now())
	snap := room.snapshot()
	room.mu.Unlock()

	r.logger.Info("player joined", "room", room.code, "player", playerID)
	r.publish(room.code, snap)
	return snap, nil
}

// GetRoom returns a read-only snapshot.
func (r *Registry) GetRoom(code string) (*RoomSnapshot, error) {
	room, err := r.room(code)
	if err != nil {
		return nil, err
	}
	room.mu.Lock()
	snap := room.snapshot()
	room.mu.Unlock()
	return snap, nil
}

// StartGame resets all per-game state and begins round 1. Host only; any
// pending timers from a previous game are canceled first.
func (r *Registry) StartGame(code, playerID string) (*RoomSnapshot, error) {
	room, err := r.room(code)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()

	if room.hostID != playerID {
		room.mu.Unlock()
		return nil, ErrNotHost
	}
	if len(room.playerOrder) < MinPlayers {
		room.mu.Unlock()
		return nil, ErrNotEnoughPlayers
	}
	if room.phase == PhaseInRound || room.phase == PhaseRoundEnd {
		room.mu.Unlock()
		return nil, ErrGameInProgress
	}

	r.sched.cancelAll(room.code)
	room.resetForNewGame()
	room.addLog("A new expedition begins.")
	r.beginRound(room)
	snap := room.snapshot()
	room.mu.Unlock()

	r.logger.Info("game started", "room", room.code, "players", len(snap.PlayerOrder))
	r.publish(room.code, snap)
	return snap, nil
}

// SubmitDecision records one player's choice for the open turn. Once every
// in-temple player has decided, the window closes, the decisions freeze for
// the reveal delay, and the reveal timer is armed. Nobody can force an early
// resolve.
func (r *Registry) SubmitDecision(code, playerID string, decision Decision) (*RoomSnapshot, error) {
	if _, err := ParseDecision(string(decision)); err != nil {
		return nil, err
	}
	room, err := r.room(code)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()

	if room.phase != PhaseInRound || room.round == nil {
		room.mu.Unlock()
		return nil, ErrRoundNotActive
	}
	player, ok := room.players[playerID]
	if !ok {
		room.mu.Unlock()
		return nil, ErrPlayerNotFound
	}
	if !player.InTemple {
		room.mu.Unlock()
		return nil, ErrAlreadyLeft
	}
	round := room.round
	if !round.PendingDecision {
		room.mu.Unlock()
		return nil, ErrNoDecisionWindow
	}
	if _, decided := round.Decisions[playerID]; decided {
		room.mu.Unlock()
		return nil, ErrAlreadyDecided
	}

	round.Decisions[playerID] = decision

	everyoneDecided := true
	for _, id := range room.activePlayerIDs() {
		if _, ok := round.Decisions[id]; !ok {
			everyoneDecided = false
			break
		}
	}

	room.touch(r.clock.Now())

	if everyoneDecided {
		round.PendingDecision = false
		frozen := make(map[string]Decision, len(round.Decisions))
		for id, d := range round.Decisions {
			frozen[id] = d
		}
		round.RevealDecisions = frozen
		round.RevealEndsAt = r.clock.Now().Add(r.cfg.RevealDelay)

		roomCode := room.code
		r.sched.scheduleReveal(roomCode, r.cfg.RevealDelay, func() {
			r.fireReveal(roomCode)
		})
	}

	snap := room.snapshot()
	room.mu.Unlock()

	r.publish(room.code, snap)
	return snap, nil
}

// fireReveal is the decision-reveal timer callback. It re-validates that the
// room is still mid-round with a frozen decision snapshot before resolving;
// a restart may have raced the timer.
func (r *Registry) fireReveal(code string) {
	room, err := r.room(code)
	if err != nil {
		return
	}
	room.mu.Lock()
	if room.phase != PhaseInRound || room.round == nil || room.round.RevealDecisions == nil {
		room.mu.Unlock()
		return
	}
	r.resolveTurn(room)
	snap := room.snapshot()
	room.mu.Unlock()
	r.publish(code, snap)
}

// fireTransition is the round-transition timer callback.
func (r *Registry) fireTransition(code string) {
	room, err := r.room(code)
	if err != nil {
		return
	}
	room.mu.Lock()
	if room.phase != PhaseRoundEnd {
		room.mu.Unlock()
		return
	}
	r.beginRound(room)
	snap := room.snapshot()
	room.mu.Unlock()
	r.publish(code, snap)
}

func (r *Registry) room(code string) (*Room, error) {
	code = roomcode.Normalize(code)
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// publish hands a snapshot to the notifier. Called outside the room lock so
// the engine never blocks a room on transport.
func (r *Registry) publish(code string, snap *RoomSnapshot) {
	r.notifier.Publish(code, snap)
}
