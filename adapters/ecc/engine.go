// Package ecc provides the error-correction engines behind the extractor's
// ECC port: a passthrough, a single-error Hamming code, and a BCH adapter
// wrapping the Galois-field codec.
package ecc

import (
	"fmt"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/ports"
)

// New builds the engine selected by cfg, sized for dataLen secret bits.
// Configuration and capacity problems surface here, never at use time.
func New(cfg puf.ECCConfig, dataLen int) (ports.ECCPort, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dataLen < 1 {
		return nil, fmt.Errorf("%w: ecc data length must be positive, got %d", core.ErrConfiguration, dataLen)
	}
	switch cfg.Scheme {
	case puf.SchemeNone:
		return newNone(dataLen), nil
	case puf.SchemeHamming:
		return newHamming(dataLen), nil
	case puf.SchemeBCH:
		return newBCH(dataLen, cfg.T, cfg.M)
	default:
		return nil, fmt.Errorf("%w: unknown ecc scheme %q", core.ErrConfiguration, cfg.Scheme)
	}
}

func checkHelper(h puf.HelperData, want puf.ECCScheme) error {
	if h.Scheme != want {
		return fmt.Errorf("%w: helper data carries scheme %q, engine is %q", core.ErrConfiguration, h.Scheme, want)
	}
	return nil
}
