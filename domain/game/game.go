package game

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyClosed = errors.New("game already closed")
	ErrGameStillOpen = errors.New("most recent game is still open")
)

// Phase is the lifecycle state of a game record
type Phase string

const (
	// PhaseAwaitingGather is a game whose end screen was just found
	PhaseAwaitingGather Phase = "awaiting_gather"

	// PhaseGathering is a game being enriched from in-match frames
	PhaseGathering Phase = "gathering"

	// PhaseClosed is a game whose start is known
	PhaseClosed Phase = "closed"
)

// Player is a roster entry. The detection pipeline never fills it.
type Player struct {
	ID   int
	Name string
}

// Team holds what is known about one side of a game
type Team struct {
	Name    string
	Score   Optional
	Samples []string
	Players []Player
}

// HasName reports whether the canonical team name was resolved
func (t *Team) HasName() bool {
	return t.Name != ""
}

// AddSample records one raw OCR reading of the team name
func (t *Team) AddSample(name string) {
	t.Samples = append(t.Samples, name)
}

// ResolveName sets Name to the most frequent sample, once.
// It returns false when the name was already set or there are no samples.
func (t *Team) ResolveName() bool {
	if t.HasName() || len(t.Samples) == 0 {
		return false
	}
	t.Name = MostFrequent(t.Samples)
	return t.Name != ""
}

// End is the score-screen information of a game
type End struct {
	// Time is the video position of the score screen, in seconds
	Time int

	// Elapsed is the in-match duration read on the score screen, in seconds
	Elapsed Optional
}

// Game is one match session found in the video
type Game struct {
	End        End
	Map        string
	OrangeTeam Team
	BlueTeam   Team

	phase         Phase
	start         int
	fastForwarded bool
}

// New creates a game from its score screen
func New(end End) *Game {
	return &Game{
		End:   end,
		phase: PhaseAwaitingGather,
	}
}

// Phase returns the lifecycle state
func (g *Game) Phase() Phase {
	return g.phase
}

// IsOpen reports whether the start of the game is still unknown
func (g *Game) IsOpen() bool {
	return g.phase != PhaseClosed
}

// Start returns the start time in seconds, if known
func (g *Game) Start() (int, bool) {
	if g.phase != PhaseClosed {
		return 0, false
	}
	return g.start, true
}

// Gather moves an awaiting game into the gathering phase
func (g *Game) Gather() {
	if g.phase == PhaseAwaitingGather {
		g.phase = PhaseGathering
	}
}

// Close records the start time and ends the lifecycle
func (g *Game) Close(start int) error {
	if g.phase == PhaseClosed {
		return fmt.Errorf("%w: start already at %ds", ErrAlreadyClosed, g.start)
	}
	g.start = start
	g.phase = PhaseClosed
	return nil
}

// Identified reports whether map and both team names are resolved
func (g *Game) Identified() bool {
	return g.Map != "" && g.OrangeTeam.HasName() && g.BlueTeam.HasName()
}

// FastForwarded reports whether the clock-based skip already ran for this game
func (g *Game) FastForwarded() bool {
	return g.fastForwarded
}

// MarkFastForwarded records that the clock-based skip ran
func (g *Game) MarkFastForwarded() {
	g.fastForwarded = true
}
