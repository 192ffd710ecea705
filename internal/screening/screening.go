// Package screening implements enrollment-time burn-in: repeated stressed
// power-ups that classify each cell stable or unstable before any secret is
// derived from it.
package screening

import (
	"fmt"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
)

// Config sets the stress profile for burn-in. Zero rounds skips screening
// entirely and accepts every cell.
type Config struct {
	Rounds       int
	Temperature  float64
	VoltageRatio float64
	Pattern      sram.StoragePattern
	AntiAging    bool
}

// Result carries the mask, the nominal capture used as the golden candidate,
// and the per-cell stressed bit sums for census analysis.
type Result struct {
	Mask    puf.Mask
	Nominal bitvec.Vector
	BitSums []int
	Rounds  int
}

func (c Config) validate() error {
	if c.Rounds < 0 {
		return fmt.Errorf("%w: burn-in rounds must be non-negative, got %d", core.ErrConfiguration, c.Rounds)
	}
	return nil
}

// Run performs Rounds stressed power-ups followed by one nominal power-up.
// A cell is kept only if it never flipped under stress and its stressed
// value matches its nominal value. An empty mask is an enrollment failure,
// not a degraded success.
func Run(array *sram.Array, cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	n := array.Size()

	nominalCond := sram.Conditions{
		Temperature:  sram.NominalTemperature,
		VoltageRatio: sram.NominalVoltageRatio,
		Pattern:      cfg.Pattern,
		AntiAging:    cfg.AntiAging,
	}
	if nominalCond.Pattern == "" {
		nominalCond.Pattern = sram.PatternStatic
	}

	if cfg.Rounds == 0 {
		return Result{
			Mask:    puf.AllTrue(n),
			Nominal: array.PowerUpAll(nominalCond),
			BitSums: make([]int, n),
		}, nil
	}

	stressCond := sram.Conditions{
		Temperature:  cfg.Temperature,
		VoltageRatio: cfg.VoltageRatio,
		Pattern:      nominalCond.Pattern,
		AntiAging:    cfg.AntiAging,
	}

	sums := make([]int, n)
	for round := 0; round < cfg.Rounds; round++ {
		v := array.PowerUpAll(stressCond)
		for i, bit := range v {
			sums[i] += int(bit)
		}
	}

	nominal := array.PowerUpAll(nominalCond)

	mask := make(puf.Mask, n)
	for i := range mask {
		stable := sums[i] == 0 || sums[i] == cfg.Rounds
		if !stable {
			continue
		}
		stressedValue := byte(0)
		if sums[i] == cfg.Rounds {
			stressedValue = 1
		}
		mask[i] = stressedValue == nominal[i]
	}

	if mask.Count() == 0 {
		return Result{}, core.NewEnrollmentError(
			fmt.Sprintf("burn-in over %d rounds left zero usable cells of %d", cfg.Rounds, n))
	}

	return Result{
		Mask:    mask,
		Nominal: nominal,
		BitSums: sums,
		Rounds:  cfg.Rounds,
	}, nil
}
