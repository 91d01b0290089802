package maze

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"strings"
)

type Params struct {
	Width, Height int
	Seed          uint64
}

func (p Params) Unpack() (w int, h int, seed uint64) {
	return p.Width, p.Height, p.Seed
}

func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	return nil
}

// String returns the "width:height:seed" form accepted by [ParseParams].
func (p Params) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.Seed)
}

func ParseParams(s string) (*Params, error) {
	p := &Params{}
	ss := strings.ReplaceAll(s, ":", " ")
	n, err := fmt.Sscanf(ss, "%d %d %d", &p.Width, &p.Height, &p.Seed)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid maze params (ss = "%s", n = %d, err = %w)`, ss, n, err,
		)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewRand returns a generator that yields the same sequence for equal seeds.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropySeed draws a nonzero seed from runtime entropy.
func NewEntropySeed() uint64 {
	for {
		if s := new(maphash.Hash).Sum64(); s != 0 {
			return s
		}
	}
}
