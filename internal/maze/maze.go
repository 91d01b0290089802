package maze

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Maze struct {
	Params
	Start Point
	Stats Stats
	Grid  *Grid
}

// New builds a grid for params and carves it with r.
func New(params Params, r *rand.Rand) (*Maze, error) {
	return NewWithBuilder(params, NewBuilder(r))
}

// Generate is New with the generator derived from params.Seed.
func Generate(params Params) (*Maze, error) {
	return New(params, NewRand(params.Seed))
}

func NewWithBuilder(params Params, b *Builder) (m *Maze, err error) {
	defer func() {
		var ae AssertionError
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.As(e, &ae) {
				m, err = nil, ae
				return
			}
			panic(r)
		}
	}()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewGrid(params.Width, params.Height)
	if err != nil {
		return nil, err
	}

	start, stats := b.Carve(grid)

	Log.WithFields(logrus.Fields{
		"params": params.String(),
		"start":  start.String(),
		"pushes": stats.Pushes,
		"pops":   stats.Pops,
		"carved": stats.Carved,
	}).Debug("maze carved")

	m = &Maze{
		Params: params,
		Start:  start,
		Stats:  stats,
		Grid:   grid,
	}
	return m, nil
}

func (m Maze) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeMaze(buf []byte) (*Maze, error) {
	var m Maze
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&m); err != nil {
		return nil, err
	}
	if m.Grid == nil {
		return nil, fmt.Errorf("decode maze: missing grid")
	}
	return &m, nil
}

type gridSnapshot struct {
	Width, Height int
	Open          []bool /* arena order */
	Visited       []bool /* row-major */
}

// [*Grid] implements [gob.GobEncoder]
func (g *Grid) GobEncode() ([]byte, error) {
	snap := gridSnapshot{
		Width:   g.width,
		Height:  g.height,
		Open:    make([]bool, len(g.walls)),
		Visited: make([]bool, len(g.cells)),
	}
	for i, w := range g.walls {
		snap.Open[i] = w.Open
	}
	for i, c := range g.cells {
		snap.Visited[i] = c.visited
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// [*Grid] implements [gob.GobDecoder]
func (g *Grid) GobDecode(data []byte) error {
	var snap gridSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return err
	}
	fresh, err := NewGrid(snap.Width, snap.Height)
	if err != nil {
		return err
	}
	if len(snap.Open) != len(fresh.walls) || len(snap.Visited) != len(fresh.cells) {
		return fmt.Errorf(
			"decode grid: snapshot does not match %dx%d", snap.Width, snap.Height,
		)
	}
	for i, open := range snap.Open {
		fresh.walls[i].Open = open
	}
	for i, visited := range snap.Visited {
		fresh.cells[i].visited = visited
	}
	*g = *fresh
	return nil
}
