package puf

import (
	"fmt"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// ECCScheme tags the error-correction variant used by an enrollment.
type ECCScheme string

const (
	// SchemeNone disables correction; reconstruction returns raw masked bits.
	SchemeNone ECCScheme = "none"
	// SchemeHamming corrects a single flipped bit per response.
	SchemeHamming ECCScheme = "hamming"
	// SchemeBCH corrects up to T flipped bits in a GF(2^m) codeword.
	SchemeBCH ECCScheme = "bch"
)

// ParseECCScheme validates a scheme name from configuration input.
func ParseECCScheme(s string) (ECCScheme, error) {
	switch ECCScheme(s) {
	case SchemeNone, SchemeHamming, SchemeBCH:
		return ECCScheme(s), nil
	default:
		return "", fmt.Errorf("%w: unknown ecc scheme %q", core.ErrConfiguration, s)
	}
}

// ECCConfig selects the correction scheme and its parameters. T and M apply
// to the BCH scheme only: T is the correctable bit count, M the Galois field
// order (0 = derive the smallest field that fits the data length).
type ECCConfig struct {
	Scheme ECCScheme
	T      int
	M      int
}

// Validate checks scheme-parameter consistency before any engine is built.
func (c ECCConfig) Validate() error {
	switch c.Scheme {
	case SchemeNone, SchemeHamming:
		if c.T != 0 || c.M != 0 {
			return fmt.Errorf("%w: scheme %q takes no t/m parameters", core.ErrConfiguration, c.Scheme)
		}
		return nil
	case SchemeBCH:
		if c.T < 1 {
			return fmt.Errorf("%w: bch requires t >= 1, got %d", core.ErrConfiguration, c.T)
		}
		if c.M < 0 {
			return fmt.Errorf("%w: bch field order must be non-negative, got %d", core.ErrConfiguration, c.M)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown ecc scheme %q", core.ErrConfiguration, c.Scheme)
	}
}
