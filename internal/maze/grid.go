package maze

import (
	"fmt"
)

type link struct {
	to   Point
	edge EdgeKey
}

type Cell struct {
	pos     Point
	visited bool
	links   []link /* populated once by NewGrid */
}

func (c *Cell) Pos() Point {
	return c.pos
}

func (c *Cell) Visited() bool {
	return c.visited
}

func (c *Cell) Neighbors() []Point {
	ns := make([]Point, len(c.links))
	for i, l := range c.links {
		ns[i] = l.to
	}
	return ns
}

// Wall returns the key of the wall this cell shares with n.
func (c *Cell) Wall(n Point) (EdgeKey, bool) {
	for _, l := range c.links {
		if l.to == n {
			return l.edge, true
		}
	}
	return EdgeKey{}, false
}

type Wall struct {
	Edge EdgeKey
	Open bool
}

// Grid is a width x height array of cells. Every pair of adjacent cells
// references a single Wall in the arena through its EdgeKey.
type Grid struct {
	width, height int
	cells         []Cell
	walls         []Wall
	index         map[EdgeKey]int
}

func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	nwalls := width*(height-1) + height*(width-1)
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		walls:  make([]Wall, 0, nwalls),
		index:  make(map[EdgeKey]int, nwalls),
	}

	for y := range height {
		for x := range width {
			g.cells[y*width+x].pos = Point{x, y}
		}
	}

	/*
	 * Only south and east links are created from each cell, so every
	 * adjacency gets exactly one wall.
	 */
	for y := range height {
		for x := range width {
			p := Point{x, y}
			if y < height-1 {
				g.link(p, Point{x, y + 1})
			}
			if x < width-1 {
				g.link(p, Point{x + 1, y})
			}
		}
	}

	return g, nil
}

func (g *Grid) link(p, q Point) {
	edge := newEdgeKey(p, q)
	g.index[edge] = len(g.walls)
	g.walls = append(g.walls, Wall{Edge: edge, Open: false})

	a, b := g.cell(p), g.cell(q)
	a.links = append(a.links, link{to: q, edge: edge})
	b.links = append(b.links, link{to: p, edge: edge})
}

func (g *Grid) cell(p Point) *Cell {
	return &g.cells[p.Y*g.width+p.X]
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Size() int   { return g.width * g.height }

func (g *Grid) InBounds(p Point) bool {
	return 0 <= p.X && p.X < g.width && 0 <= p.Y && p.Y < g.height
}

func (g *Grid) Cell(p Point) (*Cell, error) {
	if !g.InBounds(p) {
		return nil, fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, p, g.width, g.height)
	}
	return g.cell(p), nil
}

func (g *Grid) Neighbors(p Point) ([]Point, error) {
	c, err := g.Cell(p)
	if err != nil {
		return nil, err
	}
	return c.Neighbors(), nil
}

func (g *Grid) Visited(p Point) (bool, error) {
	c, err := g.Cell(p)
	if err != nil {
		return false, err
	}
	return c.visited, nil
}

// Edge resolves the wall between a and b through a's own wall mapping.
func (g *Grid) Edge(a, b Point) (EdgeKey, error) {
	c, err := g.Cell(a)
	if err != nil {
		return EdgeKey{}, err
	}
	edge, ok := c.Wall(b)
	if !ok {
		return EdgeKey{}, fmt.Errorf("%w: %s and %s", ErrNoSuchAdjacency, a, b)
	}
	return edge, nil
}

func (g *Grid) IsOpen(a, b Point) (bool, error) {
	edge, err := g.Edge(a, b)
	if err != nil {
		return false, err
	}
	return g.walls[g.index[edge]].Open, nil
}

// Walls returns a copy of the wall arena in construction order.
func (g *Grid) Walls() []Wall {
	walls := make([]Wall, len(g.walls))
	copy(walls, g.walls)
	return walls
}

func (g *Grid) OpenWalls() (count int) {
	for _, w := range g.walls {
		if w.Open {
			count++
		}
	}
	return
}

// panics [AssertionError]
func (g *Grid) open(edge EdgeKey) {
	i, ok := g.index[edge]
	if !ok {
		panic(AssertionError{"open: unknown edge " + edge.String()})
	}
	if g.walls[i].Open {
		panic(AssertionError{"open: wall already open " + edge.String()})
	}
	g.walls[i].Open = true
}
