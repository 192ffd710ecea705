// Package testkit provides deterministic array fixtures shared by tests and
// the demo tooling.
package testkit

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/adapters/rng"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/ports"
)

// Kit builds arrays with forced stability profiles. Profile arrays behave
// deterministically under anti-aging nominal conditions: stability-1.0
// cells never flip there, at any age, and stability-0.0 cells are fair
// coins. Preferred values alternate 0101... by cell index.
type Kit struct {
	seed int64
}

// New creates a kit whose arrays share one base seed.
func New(seed int64) *Kit {
	return &Kit{seed: seed}
}

// RNGAdapter returns the production stream adapter.
func (k *Kit) RNGAdapter() ports.RNGPort {
	return rng.NewHashStreamAdapter()
}

// StableArray builds cells that always power up to their preferred value
// under anti-aging nominal conditions.
func (k *Kit) StableArray(size int) (*sram.Array, error) {
	return k.profileArray(size, func(int) float64 { return 1.0 })
}

// CoinArray builds cells with no preference at all.
func (k *Kit) CoinArray(size int) (*sram.Array, error) {
	return k.profileArray(size, func(int) float64 { return 0.0 })
}

// MixedArray builds a stable array with coin cells at the given positions.
func (k *Kit) MixedArray(size int, coinPositions ...int) (*sram.Array, error) {
	coins := make(map[int]bool, len(coinPositions))
	for _, p := range coinPositions {
		coins[p] = true
	}
	return k.profileArray(size, func(i int) float64 {
		if coins[i] {
			return 0.0
		}
		return 1.0
	})
}

// FreshArray samples manufacturing-realistic stabilities instead of forcing
// a profile.
func (k *Kit) FreshArray(size int) (*sram.Array, error) {
	return sram.NewArray(size, k.seed)
}

// AntiAgingNominal returns the conditions under which profile arrays are
// deterministic.
func AntiAgingNominal() sram.Conditions {
	return sram.Conditions{
		Temperature:  sram.NominalTemperature,
		VoltageRatio: sram.NominalVoltageRatio,
		AntiAging:    true,
	}
}

func (k *Kit) profileArray(size int, stabilityAt func(int) float64) (*sram.Array, error) {
	cells := make([]*sram.Cell, size)
	for i := range cells {
		cell, err := sram.NewCellWith(i%2, stabilityAt(i))
		if err != nil {
			return nil, err
		}
		cells[i] = cell
	}
	return sram.NewArrayFromCells(cells, k.seed)
}
