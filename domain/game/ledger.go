package game

import "slices"

// Ledger is the ordered list of games, most recently created first.
// Since games are created while scanning backward, that is also video order.
type Ledger struct {
	games []*Game
}

// NewLedger returns an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Len returns the number of games
func (l *Ledger) Len() int {
	return len(l.games)
}

// Front returns the most recently created game, or nil
func (l *Ledger) Front() *Game {
	if len(l.games) == 0 {
		return nil
	}
	return l.games[0]
}

// CanOpen reports whether a new game may be created
func (l *Ledger) CanOpen() bool {
	front := l.Front()
	return front == nil || !front.IsOpen()
}

// Open pushes a new game to the front of the ledger
func (l *Ledger) Open(g *Game) error {
	if !l.CanOpen() {
		return ErrGameStillOpen
	}
	l.games = append([]*Game{g}, l.games...)
	return nil
}

// Games returns the games most recently created first
func (l *Ledger) Games() []*Game {
	out := make([]*Game, len(l.games))
	copy(out, l.games)
	return out
}

// Chronological returns the games ordered by end time
func (l *Ledger) Chronological() []*Game {
	out := l.Games()
	slices.SortStableFunc(out, func(a, b *Game) int {
		return a.End.Time - b.End.Time
	})
	return out
}
