package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/templegold/server/internal/deck"
)

// TrailCard is a revealed card on the expedition path. Value and Leftover are
// meaningful only for treasure cards, Hazard only for hazard cards. Leftover
// records the remainder that went to the loose-gem pool when the treasure was
// split.
type TrailCard struct {
	ID       string          `json:"id"`
	Kind     deck.Kind       `json:"kind"`
	Value    int             `json:"value,omitempty"`
	Hazard   deck.HazardKind `json:"hazard,omitempty"`
	Leftover int             `json:"leftover,omitempty"`
}

// Round is the state of one expedition within a room. The decision map only
// ever holds entries for players who are currently in the temple; the frozen
// reveal copy exists only during the reveal delay.
type Round struct {
	Number          int
	Path            []TrailCard
	LooseGems       int
	ArtifactsOnPath int
	PendingDecision bool
	Decisions       map[string]Decision
	RevealDecisions map[string]Decision
	RevealEndsAt    time.Time
	HazardsSeen     map[deck.HazardKind]int
	DeckCount       int
	Remaining       deck.Composition
	BustHazard      deck.HazardKind
	LastDrawn       *TrailCard
}

func newRound(number int, d *deck.Deck) *Round {
	return &Round{
		Number:      number,
		Path:        []TrailCard{},
		Decisions:   make(map[string]Decision),
		HazardsSeen: deck.NewHazardCounts(),
		DeckCount:   d.Len(),
		Remaining:   d.Composition(),
	}
}

// clearDecisionState closes the decision window and drops any frozen reveal
// snapshot. Safe to call at any point in the turn cycle.
func (r *Round) clearDecisionState() {
	r.PendingDecision = false
	r.Decisions = make(map[string]Decision)
	r.RevealDecisions = nil
	r.RevealEndsAt = time.Time{}
}

// trailID mints a unique id for the next path card, prefixed with round and
// position for debuggability.
func trailID(roundNumber, position int) string {
	return fmt.Sprintf("%d-%d-%s", roundNumber, position, uuid.NewString()[:8])
}
