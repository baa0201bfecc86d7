package game

import (
	"time"

	"github.com/templegold/server/internal/deck"
)

// RoomSnapshot is the only view of a room ever exposed outside the engine.
// The undrawn deck appears as composition counts only; card identities and
// scheduler handles stay internal. JSON field names match what clients
// consume over the wire.
type RoomSnapshot struct {
	Code             string                    `json:"roomId"`
	HostID           string                    `json:"hostId"`
	Phase            Phase                     `json:"phase"`
	PlayerOrder      []string                  `json:"playerOrder"`
	Players          map[string]PlayerSnapshot `json:"players"`
	RoundNumber      int                       `json:"roundNumber"`
	TotalRounds      int                       `json:"totalRounds"`
	MinPlayers       int                       `json:"minPlayers"`
	MaxPlayers       int                       `json:"maxPlayers"`
	StartPlayerID    string                    `json:"startPlayerId,omitempty"`
	RemovedHazards   map[deck.HazardKind]int   `json:"removedHazards"`
	Round            *RoundSnapshot            `json:"currentRound"`
	TransitionEndsAt *time.Time                `json:"transitionEndsAt"`
	WinnerIDs        []string                  `json:"winnerIds"`
	Log              []string                  `json:"log"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// PlayerSnapshot is a player's public per-room state.
type PlayerSnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	BankedGems     int    `json:"bankedGems"`
	RoundGems      int    `json:"roundGems"`
	Artifacts      int    `json:"artifacts"`
	ArtifactPoints int    `json:"artifactPoints"`
	InTemple       bool   `json:"inTemple"`
	HasLeftRound   bool   `json:"hasLeftRound"`
}

// RoundSnapshot is the active round's public view.
type RoundSnapshot struct {
	Number          int                     `json:"number"`
	Path            []TrailCard             `json:"path"`
	LooseGems       int                     `json:"pathLooseGems"`
	ArtifactsOnPath int                     `json:"artifactsOnPath"`
	PendingDecision bool                    `json:"pendingDecision"`
	Decisions       map[string]Decision     `json:"decisions"`
	RevealDecisions map[string]Decision     `json:"revealDecisions"`
	RevealEndsAt    *time.Time              `json:"revealEndsAt"`
	HazardsSeen     map[deck.HazardKind]int `json:"hazardsSeen"`
	DeckCount       int                     `json:"deckCount"`
	Remaining       deck.Composition        `json:"remainingDeck"`
	BustHazard      deck.HazardKind         `json:"bustHazard,omitempty"`
	LastDrawn       *TrailCard              `json:"lastDrawnCard"`
}

// snapshot deep-copies the room's public state. Requires the room lock.
func (room *Room) snapshot() *RoomSnapshot {
	players := make(map[string]PlayerSnapshot, len(room.players))
	for id, p := range room.players {
		players[id] = PlayerSnapshot{
			ID:             p.ID,
			Name:           p.Name,
			Color:          p.Color,
			BankedGems:     p.BankedGems,
			RoundGems:      p.RoundGems,
			Artifacts:      p.Artifacts,
			ArtifactPoints: p.ArtifactPoints,
			InTemple:       p.InTemple,
			HasLeftRound:   p.HasLeftRound,
		}
	}

	var startID string
	if len(room.playerOrder) > 0 && room.startPlayerIndex < len(room.playerOrder) {
		startID = room.playerOrder[room.startPlayerIndex]
	}

	snap := &RoomSnapshot{
		Code:             room.code,
		HostID:           room.hostID,
		Phase:            room.phase,
		PlayerOrder:      append([]string(nil), room.playerOrder...),
		Players:          players,
		RoundNumber:      room.roundNumber,
		TotalRounds:      TotalRounds,
		MinPlayers:       MinPlayers,
		MaxPlayers:       MaxPlayers,
		StartPlayerID:    startID,
		RemovedHazards:   copyHazardCounts(room.removedHazards),
		Round:            room.round.snapshot(),
		TransitionEndsAt: timePtr(room.transitionEndsAt),
		WinnerIDs:        append([]string(nil), room.winnerIDs...),
		Log:              append([]string(nil), room.log...),
		UpdatedAt:        room.updatedAt,
	}
	return snap
}

// snapshot deep-copies the round's public view; nil rounds stay nil.
func (r *Round) snapshot() *RoundSnapshot {
	if r == nil {
		return nil
	}

	var reveal map[string]Decision
	if r.RevealDecisions != nil {
		reveal = copyDecisions(r.RevealDecisions)
	}

	var last *TrailCard
	if r.LastDrawn != nil {
		c := *r.LastDrawn
		last = &c
	}

	return &RoundSnapshot{
		Number:          r.Number,
		Path:            append([]TrailCard(nil), r.Path...),
		LooseGems:       r.LooseGems,
		ArtifactsOnPath: r.ArtifactsOnPath,
		PendingDecision: r.PendingDecision,
		Decisions:       copyDecisions(r.Decisions),
		RevealDecisions: reveal,
		RevealEndsAt:    timePtr(r.RevealEndsAt),
		HazardsSeen:     copyHazardCounts(r.HazardsSeen),
		DeckCount:       r.DeckCount,
		Remaining:       copyComposition(r.Remaining),
		BustHazard:      r.BustHazard,
		LastDrawn:       last,
	}
}

func copyDecisions(src map[string]Decision) map[string]Decision {
	out := make(map[string]Decision, len(src))
	for id, d := range src {
		out[id] = d
	}
	return out
}

func copyHazardCounts(src map[deck.HazardKind]int) map[deck.HazardKind]int {
	out := make(map[deck.HazardKind]int, len(src))
	for kind, n := range src {
		out[kind] = n
	}
	return out
}

func copyComposition(src deck.Composition) deck.Composition {
	out := src
	out.Hazards = copyHazardCounts(src.Hazards)
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
