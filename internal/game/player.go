package game

// Player is one participant's per-room state. RoundGems are at risk until the
// player banks them by leaving the round; a bust loses them. InTemple and
// HasLeftRound are never both true once a round has begun.
type Player struct {
	ID             string
	Name           string
	Color          string
	BankedGems     int
	RoundGems      int
	Artifacts      int
	ArtifactPoints int
	InTemple       bool
	HasLeftRound   bool
}

func newPlayer(id, name, color string) *Player {
	return &Player{ID: id, Name: name, Color: color}
}

// resetForNewGame zeroes everything a fresh expedition starts from.
func (p *Player) resetForNewGame() {
	p.BankedGems = 0
	p.RoundGems = 0
	p.Artifacts = 0
	p.ArtifactPoints = 0
	p.InTemple = false
	p.HasLeftRound = false
}

// total is the final score: banked gems plus artifact points.
func (p *Player) total() int {
	return p.BankedGems + p.ArtifactPoints
}
