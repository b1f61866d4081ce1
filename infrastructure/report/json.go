package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"ebp-replay-analyzer/domain/game"

	json "github.com/goccy/go-json"
)

// ErrNoGameList is returned when input holds no JSON array
var ErrNoGameList = errors.New("no game list found")

// Unset is written for numeric fields that were never read
const Unset = -1

// Game is the serialized form of a detected game
type Game struct {
	Start      int    `json:"start"`
	End        End    `json:"end"`
	Map        string `json:"map"`
	OrangeTeam Team   `json:"orangeTeam"`
	BlueTeam   Team   `json:"blueTeam"`
}

// End is the serialized end of a game
type End struct {
	Time    int `json:"time"`
	Elapsed int `json:"elapsed"`
}

// Team is the serialized team of a game
type Team struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type progressLine struct {
	Percent int `json:"percent"`
}

type fastForwardLine struct {
	NbGames int `json:"nbGames"`
}

// FromGame converts a domain game, writing Unset for missing values
func FromGame(g *game.Game) Game {
	start, ok := g.Start()
	if !ok {
		start = Unset
	}
	return Game{
		Start: start,
		End: End{
			Time:    g.End.Time,
			Elapsed: g.End.Elapsed.Or(Unset),
		},
		Map:        g.Map,
		OrangeTeam: fromTeam(g.OrangeTeam),
		BlueTeam:   fromTeam(g.BlueTeam),
	}
}

func fromTeam(t game.Team) Team {
	return Team{Name: t.Name, Score: t.Score.Or(Unset)}
}

// Closed reports whether the game has both bounds
func (g Game) Closed() bool {
	return g.Start != Unset && g.End.Time > g.Start
}

// Writer emits JSON lines for a caller reading stdout
type Writer struct {
	out io.Writer
	err error
}

// NewWriter creates a writer on out
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Progress writes {"percent":N}
func (w *Writer) Progress(percent int) {
	w.line(progressLine{Percent: percent})
}

// FastForward writes {"nbGames":N}
func (w *Writer) FastForward(games int) {
	w.line(fastForwardLine{NbGames: games})
}

// WriteGames writes the game list as one JSON array
func (w *Writer) WriteGames(games []*game.Game) error {
	out := make([]Game, 0, len(games))
	for _, g := range games {
		out = append(out, FromGame(g))
	}
	w.line(out)
	return w.Err()
}

// Err returns the first write error, if any
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) line(v any) {
	if w.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to encode output: %w", err)
		return
	}
	if _, err := w.out.Write(append(data, '\n')); err != nil {
		w.err = fmt.Errorf("failed to write output: %w", err)
	}
}

// ReadGames parses a game list written by WriteGames.
// The last line holding a JSON array is used, so a full analyze
// transcript with progress lines is accepted too.
func ReadGames(data []byte) ([]Game, error) {
	var games []Game
	lines := bytes.Split(data, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if !bytes.HasPrefix(line, []byte("[")) {
			continue
		}
		if err := json.Unmarshal(line, &games); err != nil {
			return nil, fmt.Errorf("failed to parse game list: %w", err)
		}
		return games, nil
	}
	return nil, ErrNoGameList
}

// ReadGamesFile reads a game list from path
func ReadGamesFile(path string) ([]Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read games file: %w", err)
	}
	return ReadGames(data)
}
