package game

import (
	"fmt"
	"strings"

	"github.com/templegold/server/internal/deck"
)

// Settlement: payout splits, artifact awards, and round/game-end bookkeeping.
// All methods require the room lock.

// bankAndExit settles a group leaving the temple together. The loose-gem pool
// splits evenly among the group with the remainder staying pooled for a later
// exit. A sole leaver additionally claims every artifact on the path.
func (r *Registry) bankAndExit(room *Room, leaverIDs []string, reason string) {
	round := room.round
	if round == nil || len(leaverIDs) == 0 {
		return
	}

	share := round.LooseGems / len(leaverIDs)
	round.LooseGems %= len(leaverIDs)

	for _, id := range leaverIDs {
		p := room.players[id]
		p.BankedGems += p.RoundGems + share
		p.RoundGems = 0
		p.InTemple = false
		p.HasLeftRound = true
	}

	if len(leaverIDs) == 1 && round.ArtifactsOnPath > 0 {
		p := room.players[leaverIDs[0]]
		gained := r.awardArtifacts(room, p, round.ArtifactsOnPath)
		room.addLog(fmt.Sprintf("%s claimed %d artifact(s) worth %d points.", p.Name, round.ArtifactsOnPath, gained))
		round.ArtifactsOnPath = 0
	}

	names := make([]string, len(leaverIDs))
	for i, id := range leaverIDs {
		names[i] = room.players[id].Name
	}
	room.addLog(fmt.Sprintf("%s left the temple (%s).", strings.Join(names, ", "), reason))
}

// awardArtifacts consumes count claims from the escalating award sequence and
// permanently removes the claimed artifacts from the game. Returns the points
// gained.
func (r *Registry) awardArtifacts(room *Room, p *Player, count int) int {
	points := 0
	for i := 0; i < count; i++ {
		room.artifactsClaimed++
		value := artifactValues[len(artifactValues)-1]
		if room.artifactsClaimed <= len(artifactValues) {
			value = artifactValues[room.artifactsClaimed-1]
		}
		p.ArtifactPoints += value
		p.Artifacts++
		room.artifactsRemoved++
		points += value
	}
	return points
}

// endRound closes the current expedition: on a bust the remaining players
// lose their round gems and one copy of the hazard leaves the game for good;
// unclaimed path artifacts are lost; the loose pool is discarded. After the
// final round the game finishes, otherwise the next round is scheduled.
func (r *Registry) endRound(room *Room, reason endReason, hazard deck.HazardKind) {
	round := room.round
	if round == nil {
		return
	}

	r.sched.cancelReveal(room.code)
	round.clearDecisionState()

	if reason == reasonHazardBust && hazard != "" {
		for _, id := range room.activePlayerIDs() {
			p := room.players[id]
			p.RoundGems = 0
			p.InTemple = false
			p.HasLeftRound = true
		}
		room.removedHazards[hazard]++
		room.addLog(fmt.Sprintf("Second %s card! Expedition busts and one %s card is removed from the game.", hazard, hazard))
	}

	if round.ArtifactsOnPath > 0 {
		room.artifactsRemoved += round.ArtifactsOnPath
		room.addLog(fmt.Sprintf("%d unclaimed artifact(s) were lost forever.", round.ArtifactsOnPath))
		round.ArtifactsOnPath = 0
	}

	round.LooseGems = 0

	r.logger.Info("round ended", "room", room.code, "round", room.roundNumber, "reason", reason)

	if room.roundNumber >= TotalRounds {
		r.finalizeGame(room)
		return
	}

	room.phase = PhaseRoundEnd
	room.transitionEndsAt = r.clock.Now().Add(r.cfg.TransitionDelay)
	room.startPlayerIndex = (room.startPlayerIndex + 1) % len(room.playerOrder)

	room.addLog(fmt.Sprintf("Round %d ended (%s).", room.roundNumber, reason))
	room.touch(r.clock.Now())

	code := room.code
	r.sched.scheduleTransition(code, r.cfg.TransitionDelay, func() {
		r.fireTransition(code)
	})
}

// finalizeGame computes the winner set: highest total (banked gems plus
// artifact points) wins, artifact count breaks ties, and a full tie reports
// every tied player.
func (r *Registry) finalizeGame(room *Room) {
	room.phase = PhaseFinished
	room.transitionEndsAt = zeroTime

	bestTotal := -1
	bestArtifacts := -1
	winners := []string{}

	for _, id := range room.playerOrder {
		p := room.players[id]
		total := p.total()

		switch {
		case total > bestTotal:
			bestTotal = total
			bestArtifacts = p.Artifacts
			winners = []string{id}
		case total == bestTotal && p.Artifacts > bestArtifacts:
			bestArtifacts = p.Artifacts
			winners = []string{id}
		case total == bestTotal && p.Artifacts == bestArtifacts:
			winners = append(winners, id)
		}
	}

	room.winnerIDs = winners
	room.addLog("Final scores revealed.")
	room.touch(r.clock.Now())
	r.logger.Info("game finished", "room", room.code, "winners", winners)
}
