package maze

import (
	"math/rand/v2"

	"github.com/gammazero/deque"
)

type StepKind int8

const (
	StepStart StepKind = iota
	StepCarve
	StepBacktrack
)

func (k StepKind) String() string {
	switch k {
	case StepStart:
		return "start"
	case StepCarve:
		return "carve"
	case StepBacktrack:
		return "backtrack"
	default:
		return "unknown"
	}
}

// [StepKind] implements [encoding.TextMarshaler]
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Step is one move of the traversal. For a backtrack, From is the cell
// leaving the path and To is the cell on top of the stack afterwards (equal
// to From once the stack is empty).
type Step struct {
	Kind StepKind `json:"kind"`
	From Point    `json:"from"`
	To   Point    `json:"to"`
}

type Stats struct {
	Pushes int `json:"pushes"`
	Pops   int `json:"pops"`
	Carved int `json:"carved"`
}

// Builder carves passages with a randomized depth-first traversal. A Builder
// is not safe for concurrent use.
type Builder struct {
	rnd     *rand.Rand
	observe func(Step)
}

func NewBuilder(r *rand.Rand) *Builder {
	return &Builder{rnd: r}
}

// Observe registers f to be called synchronously for every step of the
// following Carve calls.
func (b *Builder) Observe(f func(Step)) {
	b.observe = f
}

func (b *Builder) emit(s Step) {
	if b.observe != nil {
		b.observe(s)
	}
}

// Carve turns a freshly built, fully walled grid into a perfect maze and
// returns the starting cell. Each cell is pushed and popped exactly once, so
// the loop performs 2*Size() stack operations and opens Size()-1 walls.
//
// panics [AssertionError]
func (b *Builder) Carve(g *Grid) (start Point, stats Stats) {
	start = Point{b.rnd.IntN(g.width), b.rnd.IntN(g.height)}

	var stack deque.Deque[*Cell]

	current := g.cell(start)
	current.visited = true
	stack.PushBack(current)
	stats.Pushes++
	b.emit(Step{Kind: StepStart, From: start, To: start})

	unvisited := make([]link, 0, 4)
	for stack.Len() > 0 {
		current = stack.Back()

		unvisited = unvisited[:0]
		for _, l := range current.links {
			if !g.cell(l.to).visited {
				unvisited = append(unvisited, l)
			}
		}

		if len(unvisited) > 0 {
			l := unvisited[b.rnd.IntN(len(unvisited))]
			next := g.cell(l.to)
			next.visited = true
			g.open(l.edge)
			stack.PushBack(next)
			stats.Pushes++
			stats.Carved++
			b.emit(Step{Kind: StepCarve, From: current.pos, To: next.pos})
			continue
		}

		/* dead end: retreat one step along the path */
		stack.PopBack()
		stats.Pops++
		to := current.pos
		if stack.Len() > 0 {
			to = stack.Back().pos
		}
		b.emit(Step{Kind: StepBacktrack, From: current.pos, To: to})
	}

	return start, stats
}
