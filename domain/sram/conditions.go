package sram

import (
	"fmt"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// StoragePattern selects what a cell holds between power-ups, which determines
// how recoverable NBTI stress accumulates against the permanent component.
type StoragePattern string

const (
	// PatternStatic holds the preferred value, keeping one PMOS under
	// sustained negative bias. Worst case for stability over time.
	PatternStatic StoragePattern = "static"
	// PatternRandom alternates stored values; recoverable NBTI averages out
	// but switching adds HCI damage.
	PatternRandom StoragePattern = "random"
	// PatternOptimized stores the inverse value so recoverable stress widens
	// the threshold mismatch. Stability improves with age.
	PatternOptimized StoragePattern = "optimized"
)

// ParsePattern validates a pattern name from configuration input.
func ParsePattern(s string) (StoragePattern, error) {
	switch StoragePattern(s) {
	case PatternStatic, PatternRandom, PatternOptimized:
		return StoragePattern(s), nil
	default:
		return "", fmt.Errorf("%w: unknown storage pattern %q", core.ErrConfiguration, s)
	}
}

// Conditions are the environmental and usage parameters for a power-up.
type Conditions struct {
	Temperature  float64 // degrees Celsius
	VoltageRatio float64 // 1.0 = nominal supply
	Pattern      StoragePattern
	AntiAging    bool // forces the optimized-pattern aging branch
}

// Nominal returns room-temperature conditions at nominal voltage.
func Nominal() Conditions {
	return Conditions{
		Temperature:  NominalTemperature,
		VoltageRatio: NominalVoltageRatio,
		Pattern:      PatternStatic,
	}
}

const (
	NominalTemperature  = 25.0
	NominalVoltageRatio = 1.0
)
