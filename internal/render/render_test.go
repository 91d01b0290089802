package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/maze-server/internal/maze"
)

func TestImageWalls(t *testing.T) {
	m, err := maze.Generate(maze.Params{Width: 6, Height: 4, Seed: 11})
	require.NoError(t, err)

	opts := DefaultOptions()
	cs := opts.CellSize
	img, err := Image(m.Grid, opts)
	require.NoError(t, err)

	assert.Equal(t, 6*cs+1, img.Bounds().Dx())
	assert.Equal(t, 4*cs+1, img.Bounds().Dy())

	for _, w := range m.Grid.Walls() {
		a := w.Edge.A
		x, y := a.X*cs+cs/2, a.Y*cs+cs
		if w.Edge.Vertical() {
			x, y = a.X*cs+cs, a.Y*cs+cs/2
		}
		if w.Open {
			assert.NotEqual(t, Ink, img.RGBAAt(x, y), "open wall %s", w.Edge)
		} else {
			assert.Equal(t, Ink, img.RGBAAt(x, y), "closed wall %s", w.Edge)
		}
	}

	assert.Equal(t, Ink, img.RGBAAt(0, cs/2))
	assert.Equal(t, Ink, img.RGBAAt(6*cs, cs/2))
	assert.Equal(t, StartColor, img.RGBAAt(cs/2, cs/2))
	assert.Equal(t, EndColor, img.RGBAAt(5*cs+cs/2, 3*cs+cs/2))
}

func TestImagePath(t *testing.T) {
	m, err := maze.Generate(maze.Params{Width: 5, Height: 5, Seed: 3})
	require.NoError(t, err)

	path, err := m.Grid.Solve(maze.Point{X: 0, Y: 0}, maze.Point{X: 4, Y: 4})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Path = path
	img, err := Image(m.Grid, opts)
	require.NoError(t, err)

	cs := opts.CellSize
	for _, p := range path[1 : len(path)-1] {
		assert.Equal(t, PathColor, img.RGBAAt(p.X*cs+cs/2, p.Y*cs+cs/2), "path cell %s", p)
	}
}

func TestEncode(t *testing.T) {
	m, err := maze.Generate(maze.Params{Width: 3, Height: 7, Seed: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m.Grid, Options{CellSize: 8, Stroke: 1}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3*8+1, img.Bounds().Dx())
	assert.Equal(t, 7*8+1, img.Bounds().Dy())
}

func TestBadOptions(t *testing.T) {
	g, err := maze.NewGrid(2, 2)
	require.NoError(t, err)

	for _, opts := range []Options{{}, {CellSize: 10}, {CellSize: 2, Stroke: 1}, {CellSize: 10, Stroke: -1}} {
		_, err := Image(g, opts)
		assert.ErrorIs(t, err, ErrBadOptions)
	}
}
