package maze

import "strings"

func (g *Grid) String() string {
	var b strings.Builder

	b.WriteString("+" + strings.Repeat("---+", g.width) + "\n")

	for y := range g.height {
		b.WriteString("|")
		for x := range g.width {
			if x < g.width-1 && g.openBetween(Point{x, y}, Point{x + 1, y}) {
				b.WriteString("    ")
			} else {
				b.WriteString("   |")
			}
		}
		b.WriteString("\n+")
		for x := range g.width {
			if y < g.height-1 && g.openBetween(Point{x, y}, Point{x, y + 1}) {
				b.WriteString("   +")
			} else {
				b.WriteString("---+")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// openBetween is IsOpen for points already known to be adjacent.
func (g *Grid) openBetween(p, q Point) bool {
	return g.walls[g.index[newEdgeKey(p, q)]].Open
}
