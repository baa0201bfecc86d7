package game

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templegold/server/internal/deck"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRegistry(t *testing.T) (*Registry, *quartz.Mock) {
	t.Helper()
	mock := quartz.NewMock(t)
	return NewRegistry(Config{Seed: 42}, nil, testLogger(), mock), mock
}

// setupRoom creates a room with n players (p1 is host) and returns the room.
func setupRoom(t *testing.T, r *Registry, n int) *Room {
	t.Helper()
	snap, err := r.CreateRoom("Player 1", "p1")
	require.NoError(t, err)
	for i := 2; i <= n; i++ {
		_, err := r.JoinRoom(snap.Code, fmt.Sprintf("Player %d", i), fmt.Sprintf("p%d", i))
		require.NoError(t, err)
	}
	room, err := r.room(snap.Code)
	require.NoError(t, err)
	return room
}

// stack builds a deck slice in draw order: the first argument is drawn first.
func stack(cards ...deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	for i, c := range cards {
		out[len(cards)-1-i] = c
	}
	return out
}

// stageRound puts the room into round 1 with a scripted deck and performs the
// opening draw, mirroring beginRound without the random shuffle.
func stageRound(r *Registry, room *Room, cards ...deck.Card) {
	room.phase = PhaseInRound
	room.roundNumber = 1
	for _, id := range room.playerOrder {
		p := room.players[id]
		p.RoundGems = 0
		p.InTemple = true
		p.HasLeftRound = false
	}
	room.deck = deck.From(stack(cards...))
	room.round = newRound(room.roundNumber, room.deck)
	r.drawCard(room)
}

// decide freezes the given decisions and resolves the turn, skipping the
// reveal delay.
func decide(r *Registry, room *Room, decisions map[string]Decision) {
	round := room.round
	round.PendingDecision = false
	round.Decisions = decisions
	frozen := make(map[string]Decision, len(decisions))
	for id, d := range decisions {
		frozen[id] = d
	}
	round.RevealDecisions = frozen
	r.resolveTurn(room)
}

func TestTreasureSplitsEvenly(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room, deck.Treasure(5), deck.Treasure(1))

	assert.Equal(t, 2, room.players["p1"].RoundGems)
	assert.Equal(t, 2, room.players["p2"].RoundGems)
	assert.Equal(t, 1, room.round.LooseGems)
	assert.True(t, room.round.PendingDecision)
	require.Len(t, room.round.Path, 1)
	assert.Equal(t, 1, room.round.Path[0].Leftover)
}

func TestSecondSameHazardBusts(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room,
		deck.Treasure(6),
		deck.Hazard(deck.Snakes),
		deck.Hazard(deck.Snakes),
	)
	decide(r, room, map[string]Decision{"p1": DecisionContinue, "p2": DecisionContinue})
	assert.Equal(t, 1, room.round.HazardsSeen[deck.Snakes])
	assert.Equal(t, PhaseInRound, room.phase)

	decide(r, room, map[string]Decision{"p1": DecisionContinue, "p2": DecisionContinue})

	assert.Equal(t, PhaseRoundEnd, room.phase)
	assert.Equal(t, deck.Snakes, room.round.BustHazard)
	assert.Equal(t, 1, room.removedHazards[deck.Snakes])
	for _, id := range []string{"p1", "p2"} {
		p := room.players[id]
		assert.Equal(t, 0, p.RoundGems, "%s keeps nothing after a bust", id)
		assert.Equal(t, 0, p.BankedGems)
		assert.False(t, p.InTemple)
		assert.True(t, p.HasLeftRound)
	}
}

func TestDifferentHazardsDoNotBust(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room,
		deck.Hazard(deck.Snakes),
		deck.Hazard(deck.Fire),
		deck.Treasure(2),
	)
	decide(r, room, map[string]Decision{"p1": DecisionContinue, "p2": DecisionContinue})

	assert.Equal(t, PhaseInRound, room.phase)
	assert.True(t, room.round.PendingDecision)
	assert.Equal(t, 1, room.round.HazardsSeen[deck.Snakes])
	assert.Equal(t, 1, room.round.HazardsSeen[deck.Fire])
	assert.Empty(t, room.round.BustHazard)
}

func TestSoloLeaverClaimsArtifacts(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room, deck.Artifact(), deck.Treasure(7), deck.Treasure(1))
	assert.Equal(t, 1, room.round.ArtifactsOnPath)

	decide(r, room, map[string]Decision{"p1": DecisionLeave, "p2": DecisionContinue})

	p1 := room.players["p1"]
	assert.Equal(t, 1, p1.Artifacts)
	assert.Equal(t, 5, p1.ArtifactPoints)
	assert.False(t, p1.InTemple)
	assert.Equal(t, 0, room.round.ArtifactsOnPath)
	assert.Equal(t, 1, room.artifactsClaimed)
	assert.Equal(t, 1, room.artifactsRemoved)

	// The survivor keeps drawing alone.
	assert.Equal(t, PhaseInRound, room.phase)
	assert.Equal(t, 7, room.players["p2"].RoundGems)
}

func TestGroupExitLeavesArtifactsBehind(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room, deck.Artifact(), deck.Treasure(1))
	decide(r, room, map[string]Decision{"p1": DecisionLeave, "p2": DecisionLeave})

	assert.Equal(t, PhaseRoundEnd, room.phase)
	assert.Equal(t, 0, room.players["p1"].Artifacts)
	assert.Equal(t, 0, room.players["p2"].Artifacts)
	assert.Equal(t, 0, room.artifactsClaimed)
	assert.Equal(t, 1, room.artifactsRemoved, "unclaimed artifacts leave the game")
}

func TestLoosePoolSplitKeepsRemainder(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 3)

	stageRound(r, room, deck.Treasure(1), deck.Treasure(2))
	room.round.LooseGems = 7

	r.bankAndExit(room, []string{"p1", "p2"}, "voluntary retreat")

	assert.Equal(t, 3, room.players["p1"].BankedGems)
	assert.Equal(t, 3, room.players["p2"].BankedGems)
	assert.Equal(t, 1, room.round.LooseGems, "remainder stays pooled")
	assert.True(t, room.players["p3"].InTemple)
}

func TestDeckExhaustionBanksSurvivors(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room, deck.Treasure(4))
	assert.Equal(t, 2, room.players["p1"].RoundGems)

	decide(r, room, map[string]Decision{"p1": DecisionContinue, "p2": DecisionContinue})

	assert.Equal(t, PhaseRoundEnd, room.phase)
	assert.Equal(t, 2, room.players["p1"].BankedGems)
	assert.Equal(t, 2, room.players["p2"].BankedGems)
	assert.Equal(t, 0, room.players["p1"].RoundGems)
}

func TestAllLeaversEndRound(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room, deck.Treasure(8), deck.Treasure(1))
	decide(r, room, map[string]Decision{"p1": DecisionLeave, "p2": DecisionLeave})

	assert.Equal(t, PhaseRoundEnd, room.phase)
	assert.Equal(t, 4, room.players["p1"].BankedGems)
	assert.Equal(t, 4, room.players["p2"].BankedGems)
	assert.Equal(t, 0, room.round.LooseGems, "the pool is discarded at round end")
	assert.Equal(t, 1, room.startPlayerIndex, "the start marker rotates")
}

func TestArtifactValuesEscalate(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)
	stageRound(r, room, deck.Treasure(1), deck.Treasure(2))

	p := room.players["p1"]
	gained := r.awardArtifacts(room, p, 3)
	assert.Equal(t, 15, gained)

	gained = r.awardArtifacts(room, p, 2)
	assert.Equal(t, 20, gained)

	// Past the printed sequence the last value repeats.
	gained = r.awardArtifacts(room, p, 1)
	assert.Equal(t, 10, gained)

	assert.Equal(t, 6, p.Artifacts)
	assert.Equal(t, 45, p.ArtifactPoints)
	assert.Equal(t, 6, room.artifactsClaimed)
}

func TestWinnerTiebreakOnArtifacts(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)
	room.roundNumber = TotalRounds

	room.players["p1"].BankedGems = 10
	room.players["p2"].BankedGems = 10
	room.players["p2"].Artifacts = 1

	r.finalizeGame(room)

	assert.Equal(t, PhaseFinished, room.phase)
	assert.Equal(t, []string{"p2"}, room.winnerIDs)
}

func TestTrueTieReportsAllWinners(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 3)
	room.roundNumber = TotalRounds

	room.players["p1"].BankedGems = 12
	room.players["p2"].BankedGems = 12
	room.players["p3"].BankedGems = 3

	r.finalizeGame(room)

	assert.ElementsMatch(t, []string{"p1", "p2"}, room.winnerIDs)
}

func TestArtifactPointsCountTowardTotal(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)
	room.roundNumber = TotalRounds

	room.players["p1"].BankedGems = 20
	room.players["p2"].BankedGems = 12
	room.players["p2"].ArtifactPoints = 10
	room.players["p2"].Artifacts = 2

	r.finalizeGame(room)

	assert.Equal(t, []string{"p2"}, room.winnerIDs)
}

func TestGemConservation(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room,
		deck.Treasure(5),
		deck.Treasure(9),
		deck.Treasure(3),
		deck.Treasure(1),
	)
	decide(r, room, map[string]Decision{"p1": DecisionContinue, "p2": DecisionContinue})
	decide(r, room, map[string]Decision{"p1": DecisionLeave, "p2": DecisionContinue})
	decide(r, room, map[string]Decision{"p2": DecisionLeave})

	assert.Equal(t, PhaseRoundEnd, room.phase)
	// Drawn treasure totals 5+9+3=17; every gem ends up banked because the
	// solo leavers sweep the loose pool.
	assert.Equal(t, 8, room.players["p1"].BankedGems)
	assert.Equal(t, 9, room.players["p2"].BankedGems)
	assert.Equal(t, 17, room.players["p1"].BankedGems+room.players["p2"].BankedGems)
}

func TestBustSkipsTransitionAfterFinalRound(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room, deck.Hazard(deck.Mummy), deck.Hazard(deck.Mummy))
	room.roundNumber = TotalRounds
	room.round.Number = TotalRounds

	decide(r, room, map[string]Decision{"p1": DecisionContinue, "p2": DecisionContinue})

	assert.Equal(t, PhaseFinished, room.phase)
	assert.ElementsMatch(t, []string{"p1", "p2"}, room.winnerIDs, "everyone at zero is a tie")
}

func TestResolveTurnIsIdempotent(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := setupRoom(t, r, 2)

	stageRound(r, room, deck.Treasure(4), deck.Treasure(6), deck.Treasure(1))
	decide(r, room, map[string]Decision{"p1": DecisionContinue, "p2": DecisionContinue})

	pathLen := len(room.round.Path)
	r.resolveTurn(room)

	assert.Len(t, room.round.Path, pathLen, "no frozen decisions, no draw")
}
