// Package analysis provides population quality metrics for simulated
// arrays: stability censuses over repeated power-ups, uniqueness and
// uniformity across devices, and entropy accounting for enrolled secrets.
package analysis

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
)

// StabilityCensus records how often each cell disagreed with a reference
// read across repeated power-ups under fixed conditions.
type StabilityCensus struct {
	Cells          int     `json:"cells"`
	Runs           int     `json:"runs"`
	StableCells    int     `json:"stable_cells"`
	StableFraction float64 `json:"stable_fraction"`
	FlipCounts     []int   `json:"flip_counts"` // per cell, 0..Runs
	Histogram      []int   `json:"histogram"`   // index = flip count, value = cells
}

// RunStabilityCensus powers the array up once for a reference read, then
// runs times more, counting per-cell disagreements. A cell is stable when
// it never flipped. Every power-up ages the array as usual.
func RunStabilityCensus(array *sram.Array, cond sram.Conditions, runs int) (*StabilityCensus, error) {
	if runs < 1 {
		return nil, core.NewConfigurationError("stability census needs at least one run")
	}

	ref := array.PowerUpAll(cond)
	flips := make([]int, array.Size())
	for r := 0; r < runs; r++ {
		current := array.PowerUpAll(cond)
		for i := range current {
			if current[i] != ref[i] {
				flips[i]++
			}
		}
	}

	census := &StabilityCensus{
		Cells:      array.Size(),
		Runs:       runs,
		FlipCounts: flips,
		Histogram:  make([]int, runs+1),
	}
	for _, count := range flips {
		census.Histogram[count]++
		if count == 0 {
			census.StableCells++
		}
	}
	census.StableFraction = float64(census.StableCells) / float64(census.Cells)
	return census, nil
}
