package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/maze-server/internal/render"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		out      string
		i, count int
		expected string
	}{
		{"maze.png", 0, 1, "maze.png"},
		{"maze.png", 0, 3, "maze-0.png"},
		{"maze.png", 2, 3, "maze-2.png"},
		{"out/run.v2.png", 1, 2, "out/run.v2-1.png"},
		{"maze", 4, 5, "maze-4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, outputPath(tt.out, tt.i, tt.count))
	}
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	o := &options{
		width:    7,
		height:   5,
		seed:     42,
		count:    3,
		out:      filepath.Join(dir, "maze.png"),
		render:   render.DefaultOptions(),
		solution: true,
	}

	results, err := generateAll(o)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, uint64(42+i), res.maze.Seed)
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("maze-%d.png", i)), res.path)
		assert.NotEmpty(t, res.size)

		f, err := os.Open(res.path)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 7*10+1, img.Bounds().Dx())
		assert.Equal(t, 5*10+1, img.Bounds().Dy())
	}
}

func TestGenerateAllBadRender(t *testing.T) {
	o := &options{
		width:  3,
		height: 3,
		seed:   1,
		count:  1,
		out:    filepath.Join(t.TempDir(), "maze.png"),
		render: render.Options{CellSize: 1, Stroke: 1},
	}
	_, err := generateAll(o)
	assert.ErrorIs(t, err, render.ErrBadOptions)
}
