package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/ports"
)

// SweepService evaluates enrollment and reconstruction quality over a grid
// of environmental conditions, storage patterns, and ECC configurations.
// Each grid point simulates fresh devices from independent derived seeds, so
// points can run in parallel without sharing generator state.
type SweepService struct {
	rng ports.RNGPort
	log *internal.Logger
	sem *semaphore.Weighted
}

// NewSweepService creates a sweep service bounded to the given parallelism.
func NewSweepService(rng ports.RNGPort, logger *internal.Logger, parallelism int64) *SweepService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &SweepService{
		rng: rng,
		log: logger,
		sem: semaphore.NewWeighted(parallelism),
	}
}

// SweepRequest defines the evaluation grid and per-device workload.
type SweepRequest struct {
	SweepID core.SweepID // generated if empty
	Seed    int64

	NumCells int
	Devices  int // devices simulated per grid point
	Samples  int // reconstructions measured per device

	BurnInRounds       int
	BurnInTemperature  float64
	BurnInVoltageRatio float64

	Temperatures  []float64
	VoltageRatios []float64
	Patterns      []sram.StoragePattern
	ECCs          []puf.ECCConfig

	// Optional aging applied to every device before sampling.
	AgingHours       float64
	AgingTemperature float64
}

func (r SweepRequest) validate() error {
	if r.NumCells < 1 {
		return fmt.Errorf("%w: sweep needs a positive cell count, got %d", core.ErrConfiguration, r.NumCells)
	}
	if r.Devices < 1 {
		return fmt.Errorf("%w: sweep needs at least one device per point, got %d", core.ErrConfiguration, r.Devices)
	}
	if r.Samples < 1 {
		return fmt.Errorf("%w: sweep needs at least one sample per device, got %d", core.ErrConfiguration, r.Samples)
	}
	if len(r.Temperatures) == 0 || len(r.VoltageRatios) == 0 || len(r.Patterns) == 0 || len(r.ECCs) == 0 {
		return fmt.Errorf("%w: sweep grid has an empty axis", core.ErrConfiguration)
	}
	return nil
}

// SweepPoint aggregates one grid point across its devices.
type SweepPoint struct {
	Temperature  float64             `json:"temperature"`
	VoltageRatio float64             `json:"voltage_ratio"`
	Pattern      sram.StoragePattern `json:"storage_pattern"`
	ECC          puf.ECCConfig       `json:"ecc"`

	Devices        int `json:"devices"`
	EnrollFailures int `json:"enroll_failures"`
	ECCFailures    int `json:"ecc_failures"`

	AvgStableFraction float64 `json:"avg_stable_fraction"`
	AvgCorrectedBER   float64 `json:"avg_corrected_ber"`
	Reliability       float64 `json:"reliability"`
	ExactRecoveryRate float64 `json:"exact_recovery_rate"`
	AvgEffectiveBits  float64 `json:"avg_effective_entropy_bits"`
	AvgHelperSizeBits float64 `json:"avg_helper_size_bits"`
	AvgSecretBits     float64 `json:"avg_secret_bits"`
}

// SweepReport is the complete outcome of one sweep run.
type SweepReport struct {
	ID        core.SweepID   `json:"sweep_id"`
	Seed      int64          `json:"seed"`
	NumCells  int            `json:"num_cells"`
	StartedAt core.Timestamp `json:"started_at"`
	RuntimeMs int64          `json:"runtime_ms"`
	Points    []SweepPoint   `json:"points"`
}

// Run executes the full grid. Grid points run concurrently under the
// service's semaphore; the returned point order matches the grid expansion
// order regardless of scheduling.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepReport, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	sweepID := req.SweepID
	if sweepID == "" {
		sweepID = core.SweepID(core.NewID())
	}
	start := time.Now()

	type gridPoint struct {
		temp    float64
		volt    float64
		pattern sram.StoragePattern
		ecc     puf.ECCConfig
	}
	var grid []gridPoint
	for _, temp := range req.Temperatures {
		for _, volt := range req.VoltageRatios {
			for _, pattern := range req.Patterns {
				for _, eccCfg := range req.ECCs {
					grid = append(grid, gridPoint{temp, volt, pattern, eccCfg})
				}
			}
		}
	}
	s.log.Info("sweep %s: %d grid points, %d devices each, %d cells",
		sweepID, len(grid), req.Devices, req.NumCells)

	points := make([]SweepPoint, len(grid))
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for idx, gp := range grid {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(idx int, gp gridPoint) {
			defer wg.Done()
			defer s.sem.Release(1)
			point, err := s.evaluatePoint(req, sweepID, idx, gp.temp, gp.volt, gp.pattern, gp.ecc)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			points[idx] = point
		}(idx, gp)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	return &SweepReport{
		ID:        sweepID,
		Seed:      req.Seed,
		NumCells:  req.NumCells,
		StartedAt: core.NewTimestamp(start),
		RuntimeMs: time.Since(start).Milliseconds(),
		Points:    points,
	}, nil
}

// evaluatePoint simulates req.Devices fresh devices at one grid point and
// averages their metrics. Enrollment failures count against the point
// rather than aborting the sweep: a harsh grid corner that screens out
// every cell is a result, not an error.
func (s *SweepService) evaluatePoint(req SweepRequest, sweepID core.SweepID, idx int,
	temp, volt float64, pattern sram.StoragePattern, eccCfg puf.ECCConfig) (SweepPoint, error) {

	point := SweepPoint{
		Temperature:  temp,
		VoltageRatio: volt,
		Pattern:      pattern,
		ECC:          eccCfg,
		Devices:      req.Devices,
	}

	cond := sram.Conditions{
		Temperature:  temp,
		VoltageRatio: volt,
		Pattern:      pattern,
		AntiAging:    pattern == sram.PatternOptimized,
	}

	var (
		stableSum    float64
		berSum       float64
		exactSum     float64
		entropySum   float64
		helperSum    float64
		goldenSum    float64
		measuredDevs int
	)

	for d := 0; d < req.Devices; d++ {
		deviceIndex := idx*req.Devices + d
		seed := s.rng.DeviceSeed(sweepID.String(), deviceIndex, req.Seed)
		array, err := sram.NewArray(req.NumCells, seed)
		if err != nil {
			return SweepPoint{}, err
		}
		extractor := NewFuzzyExtractor(array, s.log)
		record, err := extractor.Enroll(EnrollmentConfig{
			ECC:                eccCfg,
			BurnInRounds:       req.BurnInRounds,
			BurnInTemperature:  req.BurnInTemperature,
			BurnInVoltageRatio: req.BurnInVoltageRatio,
			Pattern:            pattern,
			AntiAging:          cond.AntiAging,
		})
		if err != nil {
			switch {
			case core.IsEnrollmentError(err):
				point.EnrollFailures++
				continue
			case core.IsECCConstructionError(err):
				point.ECCFailures++
				continue
			default:
				return SweepPoint{}, err
			}
		}

		if req.AgingHours > 0 {
			extractor.SimulateAging(req.AgingHours, req.AgingTemperature)
		}

		var devErrors, devBits, devExact int
		for sample := 0; sample < req.Samples; sample++ {
			response, err := extractor.Reconstruct(cond)
			if err != nil {
				return SweepPoint{}, err
			}
			mismatches, err := bitvec.HammingDistance(response, record.GoldenResponse)
			if err != nil {
				return SweepPoint{}, err
			}
			devErrors += mismatches
			devBits += len(record.GoldenResponse)
			if mismatches == 0 {
				devExact++
			}
		}

		stableSum += float64(record.Mask.Count()) / float64(req.NumCells)
		berSum += float64(devErrors) / float64(devBits)
		exactSum += float64(devExact) / float64(req.Samples)
		entropySum += record.EffectiveEntropyBits()
		helperSum += float64(record.Helper.SizeBits())
		goldenSum += float64(len(record.GoldenResponse))
		measuredDevs++
	}

	if measuredDevs > 0 {
		n := float64(measuredDevs)
		point.AvgStableFraction = stableSum / n
		point.AvgCorrectedBER = berSum / n
		point.Reliability = 1 - point.AvgCorrectedBER
		point.ExactRecoveryRate = exactSum / n
		point.AvgEffectiveBits = entropySum / n
		point.AvgHelperSizeBits = helperSum / n
		point.AvgSecretBits = goldenSum / n
	}
	return point, nil
}
