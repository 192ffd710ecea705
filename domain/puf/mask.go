package puf

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// Mask marks which array positions survived stability screening. Computed
// once at enrollment and immutable afterward; length always equals the
// array size it was screened from.
type Mask []bool

// AllTrue returns a mask selecting every position, used when screening is
// skipped.
func AllTrue(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Count returns the number of selected positions.
func (m Mask) Count() int {
	n := 0
	for _, b := range m {
		if b {
			n++
		}
	}
	return n
}

// Apply extracts the selected positions of v in index order.
func (m Mask) Apply(v bitvec.Vector) (bitvec.Vector, error) {
	if len(v) != len(m) {
		return nil, core.NewLengthMismatchError(len(m), len(v))
	}
	out := make(bitvec.Vector, 0, m.Count())
	for i, keep := range m {
		if keep {
			out = append(out, v[i])
		}
	}
	return out, nil
}
