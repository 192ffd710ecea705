package app

import (
	"errors"
	"testing"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/testkit"
)

func stableArray(t *testing.T, size int, seed int64) *sram.Array {
	t.Helper()
	array, err := testkit.New(seed).StableArray(size)
	if err != nil {
		t.Fatalf("StableArray failed: %v", err)
	}
	return array
}

func deterministicEnrollment(scheme puf.ECCScheme, t int) EnrollmentConfig {
	return EnrollmentConfig{
		ECC:                puf.ECCConfig{Scheme: scheme, T: t},
		BurnInRounds:       5,
		BurnInTemperature:  sram.NominalTemperature,
		BurnInVoltageRatio: sram.NominalVoltageRatio,
		AntiAging:          true,
	}
}

func TestEnrollCapturesGoldenAndHelper(t *testing.T) {
	ext := NewFuzzyExtractor(stableArray(t, 16, 42), nil)

	record, err := ext.Enroll(deterministicEnrollment(puf.SchemeHamming, 0))
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if !ext.Enrolled() {
		t.Fatal("extractor should report enrolled")
	}
	if record.ID == "" || record.Device == "" {
		t.Fatal("enrollment record is missing identifiers")
	}
	if record.EnrolledAt.IsZero() {
		t.Fatal("enrollment timestamp not set")
	}
	if got, want := record.Mask.Count(), 16; got != want {
		t.Fatalf("expected all %d cells usable, got %d", want, got)
	}
	if got, want := len(record.GoldenResponse), record.Mask.Count(); got != want {
		t.Fatalf("golden length %d does not match mask count %d", got, want)
	}
	if got, want := record.GoldenResponse.String(), "0101010101010101"; got != want {
		t.Fatalf("golden response %s, want %s", got, want)
	}
	// 16 data bits need 5 redundant bits.
	if got, want := record.Helper.SizeBits(), 5; got != want {
		t.Fatalf("helper size %d bits, want %d", got, want)
	}

	response, err := ext.Reconstruct(testkit.AntiAgingNominal())
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if !response.Equal(record.GoldenResponse) {
		t.Fatalf("reconstruction %s differs from golden %s", response, record.GoldenResponse)
	}
	if !ext.MatchesGolden(response) {
		t.Fatal("fingerprint comparison rejected an exact reconstruction")
	}
}

func TestEnrollTwiceFails(t *testing.T) {
	ext := NewFuzzyExtractor(stableArray(t, 16, 42), nil)
	if _, err := ext.Enroll(deterministicEnrollment(puf.SchemeNone, 0)); err != nil {
		t.Fatalf("first Enroll failed: %v", err)
	}
	_, err := ext.Enroll(deterministicEnrollment(puf.SchemeNone, 0))
	if !errors.Is(err, core.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestOperationsBeforeEnrollment(t *testing.T) {
	ext := NewFuzzyExtractor(stableArray(t, 16, 42), nil)

	if _, err := ext.Reconstruct(testkit.AntiAgingNominal()); !errors.Is(err, core.ErrNotEnrolled) {
		t.Fatalf("Reconstruct: expected ErrNotEnrolled, got %v", err)
	}
	if _, err := ext.CheckHealth(); !errors.Is(err, core.ErrNotEnrolled) {
		t.Fatalf("CheckHealth: expected ErrNotEnrolled, got %v", err)
	}
	if _, err := ext.Record(); !errors.Is(err, core.ErrNotEnrolled) {
		t.Fatalf("Record: expected ErrNotEnrolled, got %v", err)
	}
	if _, err := ext.EffectiveEntropyBits(); !errors.Is(err, core.ErrNotEnrolled) {
		t.Fatalf("EffectiveEntropyBits: expected ErrNotEnrolled, got %v", err)
	}
	if ext.MatchesGolden(bitvec.MustFromInts([]int{0, 1})) {
		t.Fatal("MatchesGolden should be false before enrollment")
	}
}

func TestEnrollRejectsArrayWithNoStableCells(t *testing.T) {
	array, err := testkit.New(7).CoinArray(4)
	if err != nil {
		t.Fatalf("CoinArray failed: %v", err)
	}

	ext := NewFuzzyExtractor(array, nil)
	cfg := deterministicEnrollment(puf.SchemeNone, 0)
	cfg.BurnInRounds = 25
	_, err = ext.Enroll(cfg)
	if !core.IsEnrollmentError(err) {
		t.Fatalf("expected enrollment error for zero stable cells, got %v", err)
	}
	if ext.Enrolled() {
		t.Fatal("extractor must stay unenrolled after a failed enrollment")
	}
}

func TestEnrollStaysUnenrolledWhenECCCannotBeBuilt(t *testing.T) {
	// 8 surviving bits are below the smallest supported BCH field.
	ext := NewFuzzyExtractor(stableArray(t, 8, 42), nil)
	_, err := ext.Enroll(deterministicEnrollment(puf.SchemeBCH, 1))
	if !core.IsECCConstructionError(err) {
		t.Fatalf("expected ECC construction error, got %v", err)
	}
	if ext.Enrolled() {
		t.Fatal("extractor must stay unenrolled after an ECC failure")
	}
	if _, err := ext.Enroll(deterministicEnrollment(puf.SchemeNone, 0)); err != nil {
		t.Fatalf("retry with a feasible scheme should succeed, got %v", err)
	}
}

// Sixty stable cells plus four coin-flip cells: reconstruction sees at most
// four errors, always within a t=4 BCH capability, so recovery must be exact
// on every attempt.
func TestReconstructRepairsNoisyCells(t *testing.T) {
	array, err := testkit.New(99).MixedArray(64, 5, 20, 40, 60)
	if err != nil {
		t.Fatalf("MixedArray failed: %v", err)
	}

	ext := NewFuzzyExtractor(array, nil)
	cfg := deterministicEnrollment(puf.SchemeBCH, 4)
	cfg.BurnInRounds = 0 // keep the coin cells in the mask
	record, err := ext.Enroll(cfg)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if got, want := record.Mask.Count(), 64; got != want {
		t.Fatalf("zero burn-in rounds should keep all %d cells, kept %d", want, got)
	}

	for trial := 0; trial < 20; trial++ {
		response, err := ext.Reconstruct(testkit.AntiAgingNominal())
		if err != nil {
			t.Fatalf("trial %d: Reconstruct failed: %v", trial, err)
		}
		if !response.Equal(record.GoldenResponse) {
			t.Fatalf("trial %d: correction left errors: %s vs %s", trial, response, record.GoldenResponse)
		}
		if !ext.MatchesGolden(response) {
			t.Fatalf("trial %d: fingerprint mismatch on exact response", trial)
		}
	}
}

// Same construction with a single coin cell under Hamming cover.
func TestReconstructRepairsSingleNoisyCellWithHamming(t *testing.T) {
	array, err := testkit.New(3).MixedArray(16, 9)
	if err != nil {
		t.Fatalf("MixedArray failed: %v", err)
	}

	ext := NewFuzzyExtractor(array, nil)
	cfg := deterministicEnrollment(puf.SchemeHamming, 0)
	cfg.BurnInRounds = 0
	record, err := ext.Enroll(cfg)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	for trial := 0; trial < 20; trial++ {
		response, err := ext.Reconstruct(testkit.AntiAgingNominal())
		if err != nil {
			t.Fatalf("trial %d: Reconstruct failed: %v", trial, err)
		}
		if !response.Equal(record.GoldenResponse) {
			t.Fatalf("trial %d: single-error repair failed", trial)
		}
	}
}

func TestSimulateAgingAccumulatesAcceleratedCycles(t *testing.T) {
	array := stableArray(t, 4, 42)
	ext := NewFuzzyExtractor(array, nil)

	ext.SimulateAging(100, 25) // 2^0: 100 cycles
	ext.SimulateAging(50, 45)  // 2^1: 100 cycles
	ext.SimulateAging(10, 5)   // 2^-1: 5 cycles

	for i := 0; i < array.Size(); i++ {
		if got, want := array.Cell(i).Age(), 205; got != want {
			t.Fatalf("cell %d age %d, want %d", i, got, want)
		}
	}
	if got, want := ext.AgeHours(), 160.0; got != want {
		t.Fatalf("AgeHours %v, want %v", got, want)
	}

	ext.SimulateAging(0, 85)
	ext.SimulateAging(-5, 85)
	if got := array.Cell(0).Age(); got != 205 {
		t.Fatalf("non-positive hours must not age cells, age now %d", got)
	}
	if got := ext.AgeHours(); got != 160.0 {
		t.Fatalf("non-positive hours must not accumulate, AgeHours %v", got)
	}
}

// Health classification follows raw degradation under the static nominal
// read-out. The cells here are fully stable, so the flip probability is a
// pure function of age and the expected band at each checkpoint is separated
// from its thresholds by several sigma.
func TestHealthDegradesThroughBands(t *testing.T) {
	ext := NewFuzzyExtractor(stableArray(t, 1000, 42), nil)
	if _, err := ext.Enroll(deterministicEnrollment(puf.SchemeNone, 0)); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	fresh, err := ext.CheckHealth()
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if fresh.Status != puf.HealthOK {
		t.Fatalf("fresh array status %s (ber %.4f), want OK", fresh.Status, fresh.BitErrorRate)
	}
	if !fresh.Passed() {
		t.Fatal("OK status must pass")
	}
	if fresh.AgeHours != 0 {
		t.Fatalf("fresh report age %v hours, want 0", fresh.AgeHours)
	}

	// Flip probability 0.05*sqrt(age/1000) reaches 0.175 mid-WARNING here.
	ext.SimulateAging(12243, 25)
	worn, err := ext.CheckHealth()
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if worn.Status != puf.HealthWarning {
		t.Fatalf("worn array status %s (ber %.4f), want WARNING", worn.Status, worn.BitErrorRate)
	}
	if worn.Passed() {
		t.Fatal("WARNING status must not pass")
	}

	// And 0.35 deep in CRITICAL.
	ext.SimulateAging(36749, 25)
	dead, err := ext.CheckHealth()
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if dead.Status != puf.HealthCritical {
		t.Fatalf("aged array status %s (ber %.4f), want CRITICAL", dead.Status, dead.BitErrorRate)
	}
	if dead.AgeHours != 48992.0 {
		t.Fatalf("accumulated age %v hours, want 48992", dead.AgeHours)
	}

	if !(fresh.BitErrorRate < worn.BitErrorRate && worn.BitErrorRate < dead.BitErrorRate) {
		t.Fatalf("bit error rate should grow with age: %.4f, %.4f, %.4f",
			fresh.BitErrorRate, worn.BitErrorRate, dead.BitErrorRate)
	}
}

func TestEffectiveEntropyOfBalancedSecret(t *testing.T) {
	ext := NewFuzzyExtractor(stableArray(t, 16, 42), nil)
	if _, err := ext.Enroll(deterministicEnrollment(puf.SchemeHamming, 0)); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	// Balanced 16-bit secret carries 16 Shannon bits; the 5 public helper
	// bits come off the top.
	got, err := ext.EffectiveEntropyBits()
	if err != nil {
		t.Fatalf("EffectiveEntropyBits failed: %v", err)
	}
	if got != 11.0 {
		t.Fatalf("effective entropy %v bits, want 11", got)
	}
}

func TestDefaultEnrollmentConfigIsAutomotiveProfile(t *testing.T) {
	cfg := DefaultEnrollmentConfig()
	if cfg.ECC.Scheme != puf.SchemeBCH || cfg.ECC.T != DefaultECCCapability {
		t.Fatalf("unexpected default ECC %+v", cfg.ECC)
	}
	if cfg.BurnInRounds != 20 || cfg.BurnInTemperature != 125.0 || cfg.BurnInVoltageRatio != 1.2 {
		t.Fatalf("unexpected burn-in profile %+v", cfg)
	}
	if !cfg.AntiAging {
		t.Fatal("default profile should enable anti-aging storage")
	}
}
