package sram

import (
	"fmt"
	"math/rand"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// Array is an ordered sequence of cells sharing one randomness stream.
// Index order is fixed for the array's lifetime and defines bit position
// semantics for everything downstream, so every stochastic draw happens
// sequentially in index order to keep runs reproducible under a fixed seed.
type Array struct {
	cells []*Cell
	rng   *rand.Rand
}

// NewArray manufactures n cells from the stream seeded with seed.
func NewArray(n int, seed int64) (*Array, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: array size must be positive, got %d", core.ErrConfiguration, n)
	}
	rng := rand.New(rand.NewSource(seed))
	cells := make([]*Cell, n)
	for i := range cells {
		cells[i] = NewCell(rng)
	}
	return &Array{cells: cells, rng: rng}, nil
}

// NewArrayFromCells wraps pre-built cells, for fixtures with controlled
// stability parameters. The stream seeds power-up draws only.
func NewArrayFromCells(cells []*Cell, seed int64) (*Array, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: array size must be positive, got 0", core.ErrConfiguration)
	}
	return &Array{cells: cells, rng: rand.New(rand.NewSource(seed))}, nil
}

// Size returns the number of cells.
func (a *Array) Size() int {
	return len(a.cells)
}

// Cell returns the cell at index i.
func (a *Array) Cell(i int) *Cell {
	return a.cells[i]
}

// PowerUpAll powers up every cell under identical conditions and returns the
// concatenated values in index order.
func (a *Array) PowerUpAll(cond Conditions) bitvec.Vector {
	out := make(bitvec.Vector, len(a.cells))
	for i, c := range a.cells {
		out[i] = byte(c.PowerUp(a.rng, cond))
	}
	return out
}

// ReadAll returns the currently latched values without mutating any state.
func (a *Array) ReadAll() bitvec.Vector {
	out := make(bitvec.Vector, len(a.cells))
	for i, c := range a.cells {
		out[i] = byte(c.Read())
	}
	return out
}

// Age advances every cell's cycle counter by the same amount without
// powering up. Negative deltas are ignored; age only increases.
func (a *Array) Age(cycles int) {
	if cycles <= 0 {
		return
	}
	for _, c := range a.cells {
		c.addAge(cycles)
	}
}

// Stabilities returns the per-cell stability parameters in index order,
// for distribution analysis.
func (a *Array) Stabilities() []float64 {
	out := make([]float64, len(a.cells))
	for i, c := range a.cells {
		out[i] = c.Stability()
	}
	return out
}
