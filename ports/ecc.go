package ports

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
)

// ECCPort is the error-correction capability consumed by the fuzzy extractor.
// Engines are constructed for a fixed data length; both operations reject
// inputs of any other length.
type ECCPort interface {
	// Scheme identifies the correction variant backing this engine.
	Scheme() puf.ECCScheme

	// DataLen returns the configured secret length in bits.
	DataLen() int

	// HelperSizeBits returns the public helper size this engine emits.
	HelperSizeBits() int

	// GenerateHelperData derives public redundancy from the enrollment-time
	// secret. The helper alone must not reveal the secret.
	GenerateHelperData(secret bitvec.Vector) (puf.HelperData, error)

	// CorrectData repairs a noisy re-reading using the stored helper. When
	// the error count exceeds the engine's capability the result is
	// best-effort and may still be wrong; callers verify independently.
	CorrectData(noisy bitvec.Vector, helper puf.HelperData) (bitvec.Vector, error)
}
