package deck

import (
	rand "math/rand/v2"
)

// Deck holds the undrawn cards for a single round. Draw order is simply "pop
// from the shuffled sequence"; there is no other ordering guarantee.
type Deck struct {
	cards []Card
}

// Build constructs a shuffled deck for one round: one card per treasure face
// value, HazardCopies of each hazard kind minus permanently removed copies,
// and ArtifactCount artifacts minus those already claimed or lost. Removal
// counts never drive a card count below zero.
func Build(removedHazards map[HazardKind]int, artifactsRemoved int, rng *rand.Rand) *Deck {
	cards := make([]Card, 0, len(TreasureValues)+HazardCopies*len(HazardKinds)+ArtifactCount)

	for _, value := range TreasureValues {
		cards = append(cards, Treasure(value))
	}

	for _, kind := range HazardKinds {
		remaining := HazardCopies - removedHazards[kind]
		for i := 0; i < remaining; i++ {
			cards = append(cards, Hazard(kind))
		}
	}

	artifacts := ArtifactCount - artifactsRemoved
	for i := 0; i < artifacts; i++ {
		cards = append(cards, Artifact())
	}

	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Deck{cards: cards}
}

// From wraps an explicit card sequence as a deck. The last card is drawn
// first.
func From(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw removes and returns the next card. The second return is false when the
// deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// Len returns the number of undrawn cards.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.cards)
}

// Empty reports whether no cards remain.
func (d *Deck) Empty() bool {
	return d.Len() == 0
}

// Composition summarises the undrawn deck by card kind. It is the only view
// of deck contents the engine ever exposes; card identities and order stay
// hidden.
type Composition struct {
	Total    int                `json:"total"`
	Treasure int                `json:"treasure"`
	Artifact int                `json:"artifact"`
	Hazards  map[HazardKind]int `json:"hazards"`
}

// Composition counts the undrawn cards by kind.
func (d *Deck) Composition() Composition {
	comp := Composition{Hazards: NewHazardCounts()}
	if d == nil {
		return comp
	}
	comp.Total = len(d.cards)
	for _, card := range d.cards {
		switch card.Kind {
		case KindTreasure:
			comp.Treasure++
		case KindArtifact:
			comp.Artifact++
		case KindHazard:
			comp.Hazards[card.Hazard]++
		}
	}
	return comp
}
