package puf

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// EnrollmentRecord is the one-time capture produced by enrollment: the golden
// response (secret), the stability mask, the public helper data, and the ECC
// configuration that sized the engine. Read-only after creation and owned
// exclusively by the extractor that enrolled it.
type EnrollmentRecord struct {
	ID             core.EnrollmentID
	Device         core.DeviceID
	GoldenResponse bitvec.Vector
	Mask           Mask
	Helper         HelperData
	ECC            ECCConfig
	Fingerprint    core.ResponseFingerprint
	EnrolledAt     core.Timestamp
}

// SecretBits returns the golden response length, the raw secret size before
// leakage accounting.
func (r EnrollmentRecord) SecretBits() int {
	return len(r.GoldenResponse)
}

// EffectiveEntropyBits estimates usable entropy: per-bit Shannon entropy of
// the golden response scaled to its length, minus the public helper size,
// clamped at zero. Helper data is assumed fully known to an attacker.
func (r EnrollmentRecord) EffectiveEntropyBits() float64 {
	raw := r.GoldenResponse.ShannonEntropy() * float64(len(r.GoldenResponse))
	eff := raw - float64(r.Helper.SizeBits())
	if eff < 0 {
		return 0
	}
	return eff
}
