package game

import (
	"strings"
	"time"
)

const (
	// MinPlayers and MaxPlayers bound the room size once the game leaves the
	// lobby.
	MinPlayers = 2
	MaxPlayers = 8

	// TotalRounds is the fixed number of expeditions per game.
	TotalRounds = 5

	// DefaultRevealDelay is how long committed decisions stay face-down
	// before they resolve, so clients can display them.
	DefaultRevealDelay = 3 * time.Second

	// DefaultTransitionDelay is the pause between a round ending and the next
	// one beginning.
	DefaultTransitionDelay = 4 * time.Second

	logLimit   = 18
	maxNameLen = 20
)

// zeroTime is the "no deadline" sentinel for the room's timer fields.
var zeroTime time.Time

// artifactValues is the escalating point sequence consumed by artifact claims,
// in claim order. Claims past the end of the sequence fall back to the last
// value.
var artifactValues = []int{5, 5, 5, 10, 10}

// playerColors is the palette cycled through as players join.
var playerColors = []string{"#1e4d3e", "#8f4c23", "#b26527", "#2f6f5f"}

// Phase is the lifecycle state of a room.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseInRound  Phase = "in_round"
	PhaseRoundEnd Phase = "round_end"
	PhaseFinished Phase = "finished"
)

// Decision is a player's choice for the current turn.
type Decision string

const (
	DecisionContinue Decision = "continue"
	DecisionLeave    Decision = "leave"
)

// ParseDecision validates a caller-supplied decision string.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionContinue:
		return DecisionContinue, nil
	case DecisionLeave:
		return DecisionLeave, nil
	}
	return "", ErrInvalidDecision
}

// endReason records why a round terminated.
type endReason string

const (
	reasonAllLeft    endReason = "all_left"
	reasonHazardBust endReason = "hazard_bust"
	reasonDeckEmpty  endReason = "deck_empty"
)

func (r endReason) String() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// sanitizeName collapses whitespace, trims, and caps display names at
// maxNameLen runes. Returns "" for blank input.
func sanitizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	runes := []rune(name)
	if len(runes) > maxNameLen {
		runes = runes[:maxNameLen]
	}
	return strings.TrimSpace(string(runes))
}
