package analysis

import (
	"github.com/montanaflynn/stats"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// UniquenessReport summarizes pairwise fractional Hamming distance across
// device responses. The ideal population sits at 0.5: any two devices
// disagree on half their bits.
type UniquenessReport struct {
	Devices      int     `json:"devices"`
	Comparisons  int     `json:"comparisons"`
	MeanDistance float64 `json:"mean_distance"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

// Uniqueness compares every pair of responses. All responses must share one
// length; anything else is a length mismatch.
func Uniqueness(responses []bitvec.Vector) (*UniquenessReport, error) {
	if len(responses) < 2 {
		return nil, core.NewConfigurationError("uniqueness needs at least two devices")
	}
	width := len(responses[0])
	if width == 0 {
		return nil, core.NewConfigurationError("uniqueness needs non-empty responses")
	}

	var distances []float64
	for i := 0; i < len(responses); i++ {
		for j := i + 1; j < len(responses); j++ {
			d, err := bitvec.HammingDistance(responses[i], responses[j])
			if err != nil {
				return nil, err
			}
			distances = append(distances, float64(d)/float64(width))
		}
	}

	mean, _ := stats.Mean(distances)
	stdDev, _ := stats.StandardDeviation(distances)
	min, _ := stats.Min(distances)
	max, _ := stats.Max(distances)
	return &UniquenessReport{
		Devices:      len(responses),
		Comparisons:  len(distances),
		MeanDistance: mean,
		StdDev:       stdDev,
		Min:          min,
		Max:          max,
	}, nil
}

// UniformityReport summarizes the ones balance of device responses. The
// ideal population sits at 0.5 per device.
type UniformityReport struct {
	Devices   int       `json:"devices"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
	PerDevice []float64 `json:"per_device"`
}

// Uniformity measures the ones fraction of each response.
func Uniformity(responses []bitvec.Vector) (*UniformityReport, error) {
	if len(responses) == 0 {
		return nil, core.NewConfigurationError("uniformity needs at least one device")
	}
	fractions := make([]float64, len(responses))
	for i, response := range responses {
		if len(response) == 0 {
			return nil, core.NewConfigurationError("uniformity needs non-empty responses")
		}
		fractions[i] = response.OnesFraction()
	}
	mean, _ := stats.Mean(fractions)
	stdDev, _ := stats.StandardDeviation(fractions)
	return &UniformityReport{
		Devices:   len(responses),
		Mean:      mean,
		StdDev:    stdDev,
		PerDevice: fractions,
	}, nil
}
