package game

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/templegold/server/internal/deck"
)

// Room is one game session. All fields are guarded by mu; every public
// operation and every fired timer executes one complete transition under the
// lock, so no caller ever observes intermediate state.
type Room struct {
	mu sync.Mutex

	code   string
	hostID string
	phase  Phase

	playerOrder []string
	players     map[string]*Player

	roundNumber      int
	startPlayerIndex int

	removedHazards      map[deck.HazardKind]int
	artifactsIntroduced int
	artifactsRemoved    int
	artifactsClaimed    int

	deck  *deck.Deck
	round *Round

	transitionEndsAt time.Time
	winnerIDs        []string

	log       []string
	updatedAt time.Time

	// Each room owns its rng so deck shuffles for different rooms never
	// contend, and a room's card sequence is reproducible from its seed.
	rng *rand.Rand
}

func newRoom(code, hostID string, now time.Time, rng *rand.Rand) *Room {
	return &Room{
		code:           code,
		hostID:         hostID,
		phase:          PhaseLobby,
		playerOrder:    []string{},
		players:        make(map[string]*Player),
		removedHazards: deck.NewHazardCounts(),
		winnerIDs:      []string{},
		log:            []string{},
		updatedAt:      now,
		rng:            rng,
	}
}

// Code returns the room's shareable code.
func (room *Room) Code() string {
	return room.code
}

// addLog prepends a message to the bounded recent-events log.
func (room *Room) addLog(message string) {
	room.log = append([]string{message}, room.log...)
	if len(room.log) > logLimit {
		room.log = room.log[:logLimit]
	}
}

func (room *Room) touch(now time.Time) {
	room.updatedAt = now
}

// activePlayerIDs returns, in join order, the players still in the temple.
func (room *Room) activePlayerIDs() []string {
	var active []string
	for _, id := range room.playerOrder {
		if p, ok := room.players[id]; ok && p.InTemple {
			active = append(active, id)
		}
	}
	return active
}

// resetForNewGame returns the room to a pristine lobby: all per-game counters
// and player stats zeroed, no deck, no round.
func (room *Room) resetForNewGame() {
	room.phase = PhaseLobby
	room.roundNumber = 0
	room.startPlayerIndex = 0
	room.removedHazards = deck.NewHazardCounts()
	room.artifactsIntroduced = 0
	room.artifactsRemoved = 0
	room.artifactsClaimed = 0
	room.deck = nil
	room.round = nil
	room.transitionEndsAt = time.Time{}
	room.winnerIDs = []string{}

	for _, id := range room.playerOrder {
		room.players[id].resetForNewGame()
	}
}
