// Package rng provides the deterministic random stream adapter used by
// simulation services. Streams are derived from a base seed plus a name, so
// any component can be replayed in isolation given the same inputs.
package rng

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// HashStreamAdapter implements ports.RNGPort by hashing stream names into
// independent seeds. Two streams with different names never share state even
// when built from the same base seed.
type HashStreamAdapter struct{}

// NewHashStreamAdapter creates the adapter.
func NewHashStreamAdapter() *HashStreamAdapter {
	return &HashStreamAdapter{}
}

// SeededStream creates a deterministic random number generator for a named operation.
func (a *HashStreamAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: stream name cannot be empty", core.ErrConfiguration)
	}
	return rand.New(rand.NewSource(core.DeriveStreamSeed(seed, name))), nil
}

// DeviceStream creates the RNG stream for one simulated device within a sweep.
func (a *HashStreamAdapter) DeviceStream(ctx context.Context, sweepName string, deviceIndex int, baseSeed int64) (*rand.Rand, error) {
	if deviceIndex < 0 {
		return nil, fmt.Errorf("%w: device index cannot be negative, got %d", core.ErrConfiguration, deviceIndex)
	}
	return rand.New(rand.NewSource(a.DeviceSeed(sweepName, deviceIndex, baseSeed))), nil
}

// DeviceSeed returns the seed DeviceStream derives its generator from.
func (a *HashStreamAdapter) DeviceSeed(sweepName string, deviceIndex int, baseSeed int64) int64 {
	return core.DeriveStreamSeed(baseSeed, fmt.Sprintf("%s/device-%d", sweepName, deviceIndex))
}
