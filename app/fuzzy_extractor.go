package app

import (
	"fmt"
	"math"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/adapters/ecc"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/screening"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/ports"
)

// Automotive-grade enrollment defaults: stressed screening at the top of the
// operating range with 20% overvoltage.
const (
	DefaultBurnInRounds       = 20
	DefaultBurnInTemperature  = 125.0
	DefaultBurnInVoltageRatio = 1.2
	DefaultECCCapability      = 10
)

// EnrollmentConfig carries the one-time enrollment parameters. Conditions
// are taken as given; zero burn-in rounds skips screening and accepts every
// cell.
type EnrollmentConfig struct {
	Device             core.DeviceID
	ECC                puf.ECCConfig
	BurnInRounds       int
	BurnInTemperature  float64
	BurnInVoltageRatio float64
	Pattern            sram.StoragePattern
	AntiAging          bool
}

// DefaultEnrollmentConfig returns the automotive profile: strict burn-in and
// a BCH engine sized for ten correctable bits.
func DefaultEnrollmentConfig() EnrollmentConfig {
	return EnrollmentConfig{
		ECC:                puf.ECCConfig{Scheme: puf.SchemeBCH, T: DefaultECCCapability},
		BurnInRounds:       DefaultBurnInRounds,
		BurnInTemperature:  DefaultBurnInTemperature,
		BurnInVoltageRatio: DefaultBurnInVoltageRatio,
		AntiAging:          true,
	}
}

// FuzzyExtractor turns one array's noisy power-up fingerprint into a
// reproducible secret. Its lifecycle is Unenrolled to Enrolled, terminal:
// the enrollment record is created once and owned here for the lifetime of
// the extractor.
type FuzzyExtractor struct {
	array    *sram.Array
	log      *internal.Logger
	engine   ports.ECCPort
	record   *puf.EnrollmentRecord
	ageHours float64
}

// NewFuzzyExtractor wraps an array in an unenrolled extractor.
func NewFuzzyExtractor(array *sram.Array, logger *internal.Logger) *FuzzyExtractor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FuzzyExtractor{array: array, log: logger}
}

// Enroll screens the array, captures the masked nominal response as the
// golden secret, sizes the ECC engine to it, and derives public helper
// data. Fails with ErrEnrollment when screening keeps zero cells and with
// ErrConfiguration or ErrCapacityExceeded when the ECC cannot be built for
// the surviving length; a second call fails with ErrAlreadyEnrolled.
func (f *FuzzyExtractor) Enroll(cfg EnrollmentConfig) (*puf.EnrollmentRecord, error) {
	if f.record != nil {
		return nil, core.ErrAlreadyEnrolled
	}

	screenCfg := screening.Config{
		Rounds:       cfg.BurnInRounds,
		Temperature:  cfg.BurnInTemperature,
		VoltageRatio: cfg.BurnInVoltageRatio,
		Pattern:      cfg.Pattern,
		AntiAging:    cfg.AntiAging,
	}
	result, err := screening.Run(f.array, screenCfg)
	if err != nil {
		f.log.Error("enrollment screening failed: %v", err)
		return nil, err
	}

	golden, err := result.Mask.Apply(result.Nominal)
	if err != nil {
		return nil, err
	}

	engine, err := ecc.New(cfg.ECC, len(golden))
	if err != nil {
		f.log.Error("ecc construction failed for %d stable bits: %v", len(golden), err)
		return nil, err
	}
	helper, err := engine.GenerateHelperData(golden)
	if err != nil {
		return nil, err
	}

	device := cfg.Device
	if device == "" {
		device = core.DeviceID(core.NewID())
	}
	record := &puf.EnrollmentRecord{
		ID:             core.EnrollmentID(core.NewID()),
		Device:         device,
		GoldenResponse: golden,
		Mask:           result.Mask,
		Helper:         helper,
		ECC:            cfg.ECC,
		Fingerprint:    core.NewResponseFingerprint(golden),
		EnrolledAt:     core.Now(),
	}
	f.engine = engine
	f.record = record

	f.log.Info("enrolled device %s: %d of %d cells usable, scheme=%s, helper=%d bits",
		device, len(golden), f.array.Size(), cfg.ECC.Scheme, helper.SizeBits())
	return record, nil
}

// Reconstruct powers up the array under the given conditions, masks the
// reading, and repairs it with the stored helper data. Equality with the
// golden response is not guaranteed once the true error count exceeds the
// engine's capability; use MatchesGolden to verify.
func (f *FuzzyExtractor) Reconstruct(cond sram.Conditions) (bitvec.Vector, error) {
	if f.record == nil {
		return nil, core.ErrNotEnrolled
	}
	raw := f.array.PowerUpAll(cond)
	masked, err := f.record.Mask.Apply(raw)
	if err != nil {
		return nil, err
	}
	corrected, err := f.engine.CorrectData(masked, f.record.Helper)
	if err != nil {
		return nil, err
	}
	f.log.Debug("reconstructed %d bits at %.0fC voltage %.2f", len(corrected), cond.Temperature, cond.VoltageRatio)
	return corrected, nil
}

// MatchesGolden reports whether bits reproduce the enrolled secret, compared
// by fingerprint.
func (f *FuzzyExtractor) MatchesGolden(bits bitvec.Vector) bool {
	if f.record == nil {
		return false
	}
	return core.NewResponseFingerprint(bits) == f.record.Fingerprint
}

// SimulateAging advances every cell's age by the cycle count equivalent to
// the elapsed hours at the given temperature profile. The acceleration is
// Arrhenius-style: each 20C above nominal doubles the aging rate. No
// power-up happens; only age state moves, and repeated calls accumulate.
func (f *FuzzyExtractor) SimulateAging(hours, temperatureProfile float64) {
	if hours <= 0 {
		return
	}
	factor := math.Pow(2, (temperatureProfile-sram.NominalTemperature)/20.0)
	cycles := int(hours * factor)
	f.array.Age(cycles)
	f.ageHours += hours
	f.log.Debug("aged %.0f hours at %.0fC profile: +%d cycles", hours, temperatureProfile, cycles)
}

// CheckHealth runs one uncorrected nominal power-up and classifies the raw
// bit error rate against the golden response. Stateless: nothing is stored,
// each call reflects the array as it is now.
func (f *FuzzyExtractor) CheckHealth() (puf.HealthReport, error) {
	if f.record == nil {
		return puf.HealthReport{}, core.ErrNotEnrolled
	}
	current := f.array.PowerUpAll(sram.Nominal())
	masked, err := f.record.Mask.Apply(current)
	if err != nil {
		return puf.HealthReport{}, err
	}
	mismatches, err := bitvec.HammingDistance(masked, f.record.GoldenResponse)
	if err != nil {
		return puf.HealthReport{}, err
	}
	ber := float64(mismatches) / float64(len(f.record.GoldenResponse))
	report := puf.HealthReport{
		BitErrorRate: ber,
		Mismatches:   mismatches,
		Status:       puf.ClassifyHealth(ber),
		AgeHours:     f.ageHours,
	}
	if report.Status != puf.HealthOK {
		f.log.Warn("health check: ber=%.4f status=%s after %.0f hours", ber, report.Status, f.ageHours)
	}
	return report, nil
}

// Record returns the enrollment record, or ErrNotEnrolled before Enroll.
func (f *FuzzyExtractor) Record() (*puf.EnrollmentRecord, error) {
	if f.record == nil {
		return nil, core.ErrNotEnrolled
	}
	return f.record, nil
}

// Enrolled reports whether enrollment has completed.
func (f *FuzzyExtractor) Enrolled() bool {
	return f.record != nil
}

// AgeHours returns the accumulated simulated lifetime.
func (f *FuzzyExtractor) AgeHours() float64 {
	return f.ageHours
}

// EffectiveEntropyBits returns the leakage-adjusted entropy of the enrolled
// secret.
func (f *FuzzyExtractor) EffectiveEntropyBits() (float64, error) {
	if f.record == nil {
		return 0, core.ErrNotEnrolled
	}
	return f.record.EffectiveEntropyBits(), nil
}

// Array exposes the underlying array for analysis tooling.
func (f *FuzzyExtractor) Array() *sram.Array {
	return f.array
}

func (f *FuzzyExtractor) String() string {
	if f.record == nil {
		return fmt.Sprintf("FuzzyExtractor(unenrolled, %d cells)", f.array.Size())
	}
	return fmt.Sprintf("FuzzyExtractor(%s, %d/%d bits, %s)",
		f.record.Device, len(f.record.GoldenResponse), f.array.Size(), f.record.ECC.Scheme)
}
