package deck

// Kind discriminates the card variants that make up an expedition deck.
type Kind string

const (
	KindTreasure Kind = "treasure"
	KindHazard   Kind = "hazard"
	KindArtifact Kind = "artifact"
)

// HazardKind is one of the five printed hazard card types.
type HazardKind string

const (
	Spiders  HazardKind = "spiders"
	Snakes   HazardKind = "snakes"
	Mummy    HazardKind = "mummy"
	Fire     HazardKind = "fire"
	Rockfall HazardKind = "rockfall"
)

// HazardKinds lists every hazard in a fixed order, used wherever the engine
// iterates hazard counts deterministically.
var HazardKinds = []HazardKind{Spiders, Snakes, Mummy, Fire, Rockfall}

// TreasureValues are the face values of the treasure cards. Each value appears
// exactly once in a freshly built round deck.
var TreasureValues = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

const (
	// HazardCopies is the printed count of each hazard kind before any
	// permanent removals.
	HazardCopies = 3

	// ArtifactCount is the number of artifact cards in the game before any
	// are claimed or lost.
	ArtifactCount = 5
)

// Card is a tagged variant: exactly one of the constructors below produces it.
// Value is meaningful only for treasure cards, Hazard only for hazard cards.
type Card struct {
	Kind   Kind
	Value  int
	Hazard HazardKind
}

// Treasure returns a treasure card with the given face value.
func Treasure(value int) Card {
	return Card{Kind: KindTreasure, Value: value}
}

// Hazard returns a hazard card of the given kind.
func Hazard(kind HazardKind) Card {
	return Card{Kind: KindHazard, Hazard: kind}
}

// Artifact returns an artifact card.
func Artifact() Card {
	return Card{Kind: KindArtifact}
}

// NewHazardCounts returns a zeroed count map covering every hazard kind.
func NewHazardCounts() map[HazardKind]int {
	counts := make(map[HazardKind]int, len(HazardKinds))
	for _, kind := range HazardKinds {
		counts[kind] = 0
	}
	return counts
}
