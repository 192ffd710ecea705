package analysis

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
)

// EntropyReport accounts for the entropy of an enrolled secret after the
// public helper data is taken into consideration. Helper bits are public, so
// each one removes up to one bit from the extractable key material.
type EntropyReport struct {
	SecretBits         int     `json:"secret_bits"`
	HelperBits         int     `json:"helper_bits"`
	PerBitEntropy      float64 `json:"per_bit_entropy"`
	ReductionPerBit    float64 `json:"reduction_per_bit"`
	EffectivePerBit    float64 `json:"effective_per_bit"`
	TotalEffectiveBits float64 `json:"total_effective_bits"`
}

// EntropyAccounting evaluates an enrollment record.
func EntropyAccounting(record *puf.EnrollmentRecord) (*EntropyReport, error) {
	if record == nil || len(record.GoldenResponse) == 0 {
		return nil, core.ErrNotEnrolled
	}
	secretBits := len(record.GoldenResponse)
	helperBits := record.Helper.SizeBits()
	perBit := record.GoldenResponse.ShannonEntropy()
	reduction := float64(helperBits) / float64(secretBits)
	effective := perBit - reduction
	if effective < 0 {
		effective = 0
	}
	return &EntropyReport{
		SecretBits:         secretBits,
		HelperBits:         helperBits,
		PerBitEntropy:      perBit,
		ReductionPerBit:    reduction,
		EffectivePerBit:    effective,
		TotalEffectiveBits: record.EffectiveEntropyBits(),
	}, nil
}
