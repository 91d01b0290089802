package maze

import "fmt"

// Point addresses a cell: X is the column, Y is the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

// EdgeKey names the boundary between two adjacent cells. A always precedes B
// in row-major order, so both cells of a pair compute the same key.
type EdgeKey struct {
	A, B Point
}

func newEdgeKey(p, q Point) EdgeKey {
	if q.Y < p.Y || (q.Y == p.Y && q.X < p.X) {
		p, q = q, p
	}
	return EdgeKey{A: p, B: q}
}

// Vertical reports whether the boundary separates two cells of the same row.
func (k EdgeKey) Vertical() bool {
	return k.A.Y == k.B.Y
}

func (k EdgeKey) String() string {
	return k.A.String() + "-" + k.B.String()
}
