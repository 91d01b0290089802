// Package render rasterizes carved mazes.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/vancomm/maze-server/internal/maze"
)

var ErrBadOptions = errors.New("invalid render options")

var (
	Background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Ink        = color.RGBA{0x00, 0x00, 0x00, 0xff}
	StartColor = color.RGBA{0xff, 0x00, 0x00, 0xff}
	EndColor   = color.RGBA{0x00, 0x00, 0xff, 0xff}
	PathColor  = color.RGBA{0x2e, 0xa0, 0x43, 0xff}
)

type Options struct {
	CellSize int
	Stroke   int
	Path     []maze.Point // drawn under the start and end markers
}

func DefaultOptions() Options {
	return Options{CellSize: 10, Stroke: 3}
}

func (o Options) validate() error {
	if o.CellSize <= 0 || o.Stroke <= 0 {
		return fmt.Errorf("%w: cell size %d, stroke %d", ErrBadOptions, o.CellSize, o.Stroke)
	}
	if o.CellSize < 3 {
		return fmt.Errorf("%w: cell size %d is below 3", ErrBadOptions, o.CellSize)
	}
	return nil
}

// Image draws g as black walls on white. Cell (0,0) gets the start marker and
// the opposite corner the end marker.
func Image(g *maze.Grid, opts Options) (*image.RGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cs := opts.CellSize
	w, h := g.Width()*cs, g.Height()*cs
	img := image.NewRGBA(image.Rect(0, 0, w+1, h+1))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	for _, p := range opts.Path {
		fillCell(img, p, cs, PathColor)
	}

	for _, wall := range g.Walls() {
		if wall.Open {
			continue
		}
		a := wall.Edge.A
		if wall.Edge.Vertical() {
			x := a.X*cs + cs
			vline(img, x, a.Y*cs, a.Y*cs+cs, opts.Stroke)
		} else {
			y := a.Y*cs + cs
			hline(img, a.X*cs, a.X*cs+cs, y, opts.Stroke)
		}
	}

	hline(img, 0, w, 0, opts.Stroke)
	hline(img, 0, w, h, opts.Stroke)
	vline(img, 0, 0, h, opts.Stroke)
	vline(img, w, 0, h, opts.Stroke)

	fillCell(img, maze.Point{X: 0, Y: 0}, cs, StartColor)
	fillCell(img, maze.Point{X: g.Width() - 1, Y: g.Height() - 1}, cs, EndColor)

	return img, nil
}

func Encode(w io.Writer, g *maze.Grid, opts Options) error {
	img, err := Image(g, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// fillCell paints the interior of a cell, leaving a one pixel gap to the
// walls on every side.
func fillCell(img *image.RGBA, p maze.Point, cs int, c color.Color) {
	x, y := p.X*cs, p.Y*cs
	fill(img, image.Rect(x+1, y+1, x+cs, y+cs), c)
}

func hline(img *image.RGBA, x0, x1, y, stroke int) {
	off := stroke / 2
	fill(img, image.Rect(x0-off, y-off, x1+stroke-off, y+stroke-off), Ink)
}

func vline(img *image.RGBA, x, y0, y1, stroke int) {
	off := stroke / 2
	fill(img, image.Rect(x-off, y0-off, x+stroke-off, y1+stroke-off), Ink)
}
