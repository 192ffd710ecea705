package sram

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// Aging model coefficients. All degradation terms follow the NBTI
// sqrt(time) law, with age measured in power-up cycles.
const (
	// permanentAgingCoeff scales the irreversible NBTI component,
	// roughly 20-40% of total damage.
	permanentAgingCoeff = 0.03
	// antiAgingRecoveryCoeff scales the stability gain when the inverse
	// value is stored: recoverable stress widens the Vth mismatch.
	antiAgingRecoveryCoeff = 0.05
	// hciDamageCoeff scales hot-carrier damage from frequent switching
	// under the random storage pattern.
	hciDamageCoeff = 0.02
	// staticStressCoeff scales recoverable NBTI under sustained bias,
	// the largest degradation term.
	staticStressCoeff = 0.07

	// tempDegradationScale normalizes temperature excursion into a
	// stability penalty per degree away from nominal.
	tempDegradationScale = 500.0
	// voltDegradationScale converts supply deviation into oxide stress.
	voltDegradationScale = 0.3

	agingTimeConstant = 1000.0
)

// Beta(8,2) models the threshold-voltage mismatch distribution across a die:
// most cells power up reliably, a thin left tail does not.
var stabilityDist = distuv.Beta{Alpha: 8, Beta: 2}

// Cell models one bistable memory cell. The preferred value and stability
// parameter are fixed at manufacture; age and the latched value mutate with
// every power-up.
type Cell struct {
	preferred byte
	stability float64
	age       int
	value     byte
}

// NewCell manufactures a cell with random process variation drawn from rng.
// The preferred value is a fair coin; stability is Beta(8,2) sampled by
// inverse CDF so the cell consumes exactly two draws from the stream.
func NewCell(rng *rand.Rand) *Cell {
	preferred := byte(rng.Intn(2))
	stability := stabilityDist.Quantile(rng.Float64())
	return &Cell{
		preferred: preferred,
		stability: stability,
		value:     preferred,
	}
}

// NewCellWith manufactures a cell with explicit parameters, for screening
// fixtures and corner-case analysis. Stability is clamped to [0,1].
func NewCellWith(preferred int, stability float64) (*Cell, error) {
	if preferred != 0 && preferred != 1 {
		return nil, core.NewInvalidValueError(preferred)
	}
	s := clamp01(stability)
	return &Cell{
		preferred: byte(preferred),
		stability: s,
		value:     byte(preferred),
	}, nil
}

// PowerUp latches a new value under the given conditions and advances the
// cell's age by one cycle. The flip probability is computed from effective
// stability after aging and environmental degradation:
//
//	flip = (1 - effective_stability) * 0.5
//
// so a fully exhausted cell is an unbiased coin, never worse than random.
// A pristine cell (stability 1, age 0) under nominal conditions never flips.
func (c *Cell) PowerUp(rng *rand.Rand, cond Conditions) int {
	sqrtAge := math.Sqrt(float64(c.age) / agingTimeConstant)
	permanent := permanentAgingCoeff * sqrtAge

	var effective float64
	switch {
	case cond.Pattern == PatternOptimized || cond.AntiAging:
		recovery := antiAgingRecoveryCoeff * sqrtAge
		effective = math.Min(1.0, c.stability+recovery-permanent)
	case cond.Pattern == PatternRandom:
		hci := hciDamageCoeff * sqrtAge
		effective = math.Max(0.0, c.stability-permanent-hci)
	default:
		recoverable := staticStressCoeff * sqrtAge
		effective = math.Max(0.0, c.stability-permanent-recoverable)
	}

	tempPenalty := math.Abs(cond.Temperature-NominalTemperature) / tempDegradationScale
	voltPenalty := math.Abs(cond.VoltageRatio-NominalVoltageRatio) * voltDegradationScale
	effective = clamp01(effective - tempPenalty - voltPenalty)

	flipProb := (1 - effective) * 0.5
	if rng.Float64() < flipProb {
		c.value = 1 - c.preferred
	} else {
		c.value = c.preferred
	}
	c.age++
	return int(c.value)
}

// Read returns the currently latched value without touching cell state.
func (c *Cell) Read() int {
	return int(c.value)
}

// Write latches an explicit value.
func (c *Cell) Write(v int) error {
	if v != 0 && v != 1 {
		return core.NewInvalidValueError(v)
	}
	c.value = byte(v)
	return nil
}

// Preferred returns the manufacturing-time power-up bias.
func (c *Cell) Preferred() int {
	return int(c.preferred)
}

// Stability returns the process-variation parameter in [0,1].
func (c *Cell) Stability() float64 {
	return c.stability
}

// Age returns the accumulated power-up-equivalent cycle count.
func (c *Cell) Age() int {
	return c.age
}

// addAge advances the age counter without a power-up, used by lifetime
// simulation where elapsed time maps to equivalent cycles.
func (c *Cell) addAge(cycles int) {
	c.age += cycles
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
