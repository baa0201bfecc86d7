package game

import (
	"fmt"
	"strings"

	"github.com/templegold/server/internal/deck"
)

// The round state machine. Every method here requires the room lock to be
// held by the caller; none of them publish snapshots, that happens once at
// the end of the public operation or timer callback that triggered the
// transition.

// beginRound starts the next expedition: fresh deck, everyone back in the
// temple, and an immediate first draw (the first card never busts, so the
// round always opens with a decision window unless the deck is somehow empty).
func (r *Registry) beginRound(room *Room) {
	room.roundNumber++
	room.phase = PhaseInRound
	room.transitionEndsAt = zeroTime

	for _, id := range room.playerOrder {
		p := room.players[id]
		p.RoundGems = 0
		p.InTemple = true
		p.HasLeftRound = false
	}

	room.deck = deck.Build(room.removedHazards, room.artifactsRemoved, room.rng)
	room.round = newRound(room.roundNumber, room.deck)

	room.addLog(fmt.Sprintf("Round %d begins.", room.roundNumber))
	room.touch(r.clock.Now())
	r.logger.Debug("round started", "room", room.code, "round", room.roundNumber, "deck", room.deck.Len())

	r.drawCard(room)
}

// drawCard pops the next card, applies its effect, and either ends the round
// (bust, exhaustion, nobody left) or opens a fresh decision window.
func (r *Registry) drawCard(room *Room) {
	round := room.round
	if round == nil || room.phase != PhaseInRound {
		return
	}

	active := room.activePlayerIDs()
	if len(active) == 0 {
		r.endRound(room, reasonAllLeft, "")
		return
	}

	if room.deck.Empty() {
		r.bankAndExit(room, active, "no cards left")
		r.endRound(room, reasonDeckEmpty, "")
		return
	}

	card, _ := room.deck.Draw()
	trail := TrailCard{
		ID:   trailID(room.roundNumber, len(round.Path)+1),
		Kind: card.Kind,
	}

	switch card.Kind {
	case deck.KindTreasure:
		share := card.Value / len(active)
		leftover := card.Value % len(active)
		for _, id := range active {
			room.players[id].RoundGems += share
		}
		round.LooseGems += leftover
		trail.Value = card.Value
		trail.Leftover = leftover
		room.addLog(fmt.Sprintf("Treasure %d revealed.", card.Value))

	case deck.KindArtifact:
		round.ArtifactsOnPath++
		room.artifactsIntroduced++
		room.addLog("An artifact appears on the path.")

	case deck.KindHazard:
		round.HazardsSeen[card.Hazard]++
		trail.Hazard = card.Hazard
		room.addLog(fmt.Sprintf("Hazard revealed: %s.", card.Hazard))
	}

	round.Path = append(round.Path, trail)
	round.LastDrawn = &trail
	round.DeckCount = room.deck.Len()
	round.Remaining = room.deck.Composition()

	// Second copy of the same hazard this round: the expedition busts.
	if card.Kind == deck.KindHazard && round.HazardsSeen[card.Hazard] >= 2 {
		round.BustHazard = card.Hazard
		r.endRound(room, reasonHazardBust, card.Hazard)
		return
	}

	round.PendingDecision = true
	round.Decisions = make(map[string]Decision)
	round.RevealDecisions = nil
	round.RevealEndsAt = zeroTime
	room.touch(r.clock.Now())
}

// resolveTurn applies the frozen decision snapshot: leavers bank, and if
// anyone remains the next card is drawn. Idempotent: the frozen snapshot is
// consumed on the first call, so racing a defensive re-entry against the
// reveal timer is safe.
func (r *Registry) resolveTurn(room *Room) {
	round := room.round
	if round == nil || round.RevealDecisions == nil {
		return
	}

	decisions := round.RevealDecisions
	r.sched.cancelReveal(room.code)

	var parts []string
	var leavers []string
	for _, id := range room.playerOrder {
		d, ok := decisions[id]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", room.players[id].Name, d))
		if d == DecisionLeave {
			leavers = append(leavers, id)
		}
	}
	if len(parts) > 0 {
		room.addLog("Decisions locked: " + strings.Join(parts, " | "))
	}

	round.clearDecisionState()

	if len(leavers) > 0 {
		r.bankAndExit(room, leavers, "voluntary retreat")
	}

	if len(room.activePlayerIDs()) == 0 {
		r.endRound(room, reasonAllLeft, "")
		return
	}

	r.drawCard(room)
}
