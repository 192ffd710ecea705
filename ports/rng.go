package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic simulation
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// DeviceStream creates a deterministic RNG stream for one simulated device
	// within a sweep. Streams for distinct devices are independent, so sweep
	// cells can run in parallel without sharing generator state.
	DeviceStream(ctx context.Context, sweepName string, deviceIndex int, baseSeed int64) (*rand.Rand, error)

	// DeviceSeed returns the seed a DeviceStream would be built from, for
	// components that own their generator but need reproducible placement.
	DeviceSeed(sweepName string, deviceIndex int, baseSeed int64) int64
}
