package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/adapters/rng"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/app"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/analysis"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/config"
	apperrors "github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/errors"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "pufsim",
		Short: "SRAM PUF simulator for enrollment, key recovery, and lifetime studies",
	}

	rootCmd.AddCommand(
		newDemoCmd(),
		newEvaluateCmd(),
		newStabilityCmd(),
		newEntropyCmd(),
		newHealthCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDemoCmd() *cobra.Command {
	var seed int64
	var numCells int
	var eccT int
	var burnInRounds int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the automotive lifecycle demo",
		Long: `Enroll one device with burn-in screening, recover its key across the
automotive temperature range, then age it through a 15-year service
life with periodic health checks.

Example: pufsim demo --cells 511 --ecc-t 15 --burn-in-rounds 10 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(seed, numCells, eccT, burnInRounds)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&numCells, "cells", 511, "SRAM array size in cells")
	cmd.Flags().IntVar(&eccT, "ecc-t", 15, "BCH correction capability in bits")
	cmd.Flags().IntVar(&burnInRounds, "burn-in-rounds", 10, "Stressed power-up rounds during enrollment")

	return cmd
}

func runDemo(seed int64, numCells, eccT, burnInRounds int) error {
	fmt.Println("=== Automotive SRAM PUF Demo ===")

	array, err := sram.NewArray(numCells, seed)
	if err != nil {
		return fmt.Errorf("failed to build array: %w", err)
	}
	extractor := app.NewFuzzyExtractor(array, internal.DefaultLogger)

	fmt.Printf("\n1. Enrolling device (%d cells, BCH t=%d, %d burn-in rounds)...\n",
		numCells, eccT, burnInRounds)

	cfg := app.DefaultEnrollmentConfig()
	cfg.Device = core.DeviceID(fmt.Sprintf("demo-device-%d", seed))
	cfg.ECC.T = eccT
	cfg.BurnInRounds = burnInRounds

	record, err := extractor.Enroll(cfg)
	if err != nil {
		return fmt.Errorf("enrollment failed: %w", err)
	}

	fmt.Printf("   Golden key: %d bits (%d unstable cells masked)\n",
		record.SecretBits(), numCells-record.SecretBits())
	fmt.Printf("   Helper data: %d bits (public)\n", record.Helper.SizeBits())
	fmt.Printf("   Effective entropy: %.1f bits\n", record.EffectiveEntropyBits())

	fmt.Println("\n2. Recovering the key across the automotive temperature range...")
	failures := 0
	for _, temp := range []float64{-40, 0, 25, 85, 125, 150} {
		recovered, err := recoverKey(extractor, temp)
		if err != nil {
			return fmt.Errorf("reconstruction at %.0f°C failed: %w", temp, err)
		}
		if recovered {
			fmt.Printf("   %+4.0f°C: key recovered\n", temp)
		} else {
			fmt.Printf("   %+4.0f°C: KEY MISMATCH\n", temp)
			failures++
		}
	}
	if failures == 0 {
		fmt.Println("   -> passed all temperature checks")
	} else {
		fmt.Printf("   -> %d temperature checks failed\n", failures)
	}

	fmt.Println("\n3. Aging through a 15-year service life at 85°C...")
	for _, year := range []int{1, 5, 10, 15} {
		extractor.SimulateAging(float64(year)*8760-extractor.AgeHours(), 85)

		health, err := extractor.CheckHealth()
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Printf("   Year %2d: BER %.4f (%d bit errors), status %s\n",
			year, health.BitErrorRate, health.Mismatches, health.Status)

		recovered, err := recoverKey(extractor, 125)
		if err != nil {
			return fmt.Errorf("reconstruction at 125°C failed: %w", err)
		}
		if recovered {
			fmt.Println("           key recovery at 125°C: OK")
		} else {
			fmt.Println("           key recovery at 125°C: FAILED")
		}
	}

	fmt.Println("\n=== Demo Complete ===")
	return nil
}

// recoverKey attempts a corrected reconstruction at the given temperature.
// Correction is best-effort beyond the code's capability, so failure shows
// up as a fingerprint mismatch rather than an error.
func recoverKey(extractor *app.FuzzyExtractor, temperature float64) (bool, error) {
	response, err := extractor.Reconstruct(sram.Conditions{
		Temperature:  temperature,
		VoltageRatio: sram.NominalVoltageRatio,
		Pattern:      sram.PatternStatic,
		AntiAging:    true,
	})
	if err != nil {
		return false, err
	}
	return extractor.MatchesGolden(response), nil
}

func newEvaluateCmd() *cobra.Command {
	var seed int64
	var devices, samples int
	var parallelism int64
	var temps, volts, patterns, schemes string
	var agingHours, agingTemp float64
	var outBase string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run an evaluation sweep and write CSV/XLSX reports",
		Long: `Sweep a grid of temperature, voltage, storage pattern, and ECC scheme
over freshly enrolled devices, measuring reliability, exact key recovery,
and effective entropy per grid point. Results are written as CSV and XLSX.

Array size, burn-in profile, and bch parameters come from PUFSIM_* environment
variables (see internal/config).

Example: pufsim evaluate --devices 5 --samples 25 --schemes none,bch --out reports/sweep`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), seed, devices, samples, parallelism,
				temps, volts, patterns, schemes, agingHours, agingTemp, outBase)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&devices, "devices", 0, "Devices per grid point (0 = PUFSIM_SWEEP_DEVICES)")
	cmd.Flags().IntVar(&samples, "samples", 0, "Reconstructions per device (0 = PUFSIM_SWEEP_SAMPLES)")
	cmd.Flags().Int64Var(&parallelism, "parallelism", 0, "Concurrent grid points (0 = PUFSIM_SWEEP_PARALLELISM)")
	cmd.Flags().StringVar(&temps, "temps", "-40,0,25,85,125", "Comma-separated operating temperatures")
	cmd.Flags().StringVar(&volts, "volts", "0.9,1.0,1.1", "Comma-separated supply voltage ratios")
	cmd.Flags().StringVar(&patterns, "patterns", "static,optimized", "Comma-separated storage patterns")
	cmd.Flags().StringVar(&schemes, "schemes", "none,bch", "Comma-separated ECC schemes")
	cmd.Flags().Float64Var(&agingHours, "aging-hours", 0, "Hours of aging applied before sampling")
	cmd.Flags().Float64Var(&agingTemp, "aging-temp", 85, "Temperature profile during aging")
	cmd.Flags().StringVar(&outBase, "out", "", "Report path without extension (default PUFSIM_OUTPUT_DIR/puf_sweep)")

	return cmd
}

func runEvaluate(ctx context.Context, seed int64, devices, samples int, parallelism int64,
	tempsArg, voltsArg, patternsArg, schemesArg string, agingHours, agingTemp float64, outBase string) error {

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	temps, err := parseFloatList(tempsArg)
	if err != nil {
		return fmt.Errorf("invalid --temps: %w", err)
	}
	volts, err := parseFloatList(voltsArg)
	if err != nil {
		return fmt.Errorf("invalid --volts: %w", err)
	}
	patterns, err := parsePatternList(patternsArg)
	if err != nil {
		return fmt.Errorf("invalid --patterns: %w", err)
	}
	eccs, err := parseSchemeList(schemesArg, cfg)
	if err != nil {
		return fmt.Errorf("invalid --schemes: %w", err)
	}

	if devices < 1 {
		devices = cfg.Sweep.Devices
	}
	if samples < 1 {
		samples = cfg.Sweep.Samples
	}
	if parallelism < 1 {
		parallelism = int64(cfg.Sweep.Parallelism)
	}

	req := app.SweepRequest{
		Seed:               seed,
		NumCells:           cfg.Simulation.NumCells,
		Devices:            devices,
		Samples:            samples,
		BurnInRounds:       cfg.BurnIn.Rounds,
		BurnInTemperature:  cfg.BurnIn.Temperature,
		BurnInVoltageRatio: cfg.BurnIn.VoltageRatio,
		Temperatures:       temps,
		VoltageRatios:      volts,
		Patterns:           patterns,
		ECCs:               eccs,
		AgingHours:         agingHours,
		AgingTemperature:   agingTemp,
	}

	gridPoints := len(temps) * len(volts) * len(patterns) * len(eccs)
	fmt.Printf("Running evaluation sweep: %d grid points, %d devices each, %d samples per device...\n",
		gridPoints, devices, samples)

	svc := app.NewSweepService(rng.NewHashStreamAdapter(), internal.DefaultLogger, parallelism)
	rep, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("\n=== SWEEP RESULTS ===\n")
	fmt.Printf("Sweep ID: %s\n", rep.ID)
	fmt.Printf("Runtime: %d ms\n", rep.RuntimeMs)
	fmt.Printf("Cells per device: %d\n\n", rep.NumCells)
	for _, p := range rep.Points {
		fmt.Printf("%+6.1f°C V=%.2f %-9s %-9s reliability=%.4f exact=%.4f entropy=%.1f\n",
			p.Temperature, p.VoltageRatio, string(p.Pattern), schemeLabel(p.ECC),
			p.Reliability, p.ExactRecoveryRate, p.AvgEffectiveBits)
	}

	if outBase == "" {
		outBase = filepath.Join(cfg.Output.Dir, "puf_sweep")
	}
	csvPath := outBase + ".csv"
	if err := report.WriteCSV(csvPath, rep); err != nil {
		return apperrors.ReportError(csvPath, err)
	}
	xlsxPath := outBase + ".xlsx"
	if err := report.WriteXLSX(xlsxPath, rep); err != nil {
		return apperrors.ReportError(xlsxPath, err)
	}

	fmt.Printf("\nReports written: %s, %s\n", csvPath, xlsxPath)
	return nil
}

func newStabilityCmd() *cobra.Command {
	var seed int64
	var numCells, runs int
	var temperature, voltageRatio float64
	var pattern string
	var antiAging bool

	cmd := &cobra.Command{
		Use:   "stability",
		Short: "Run a repeated power-up stability census",
		Long: `Power an array up repeatedly under fixed conditions and count per-cell
flips against the first read, reporting the stable-cell fraction and a
flip-count histogram.

Example: pufsim stability --cells 1024 --runs 50 --temperature 85`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStability(seed, numCells, runs, temperature, voltageRatio, pattern, antiAging)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&numCells, "cells", 1024, "SRAM array size in cells")
	cmd.Flags().IntVar(&runs, "runs", 50, "Number of power-up rounds")
	cmd.Flags().Float64Var(&temperature, "temperature", 25, "Operating temperature in Celsius")
	cmd.Flags().Float64Var(&voltageRatio, "voltage", 1.0, "Supply voltage ratio (1.0 = nominal)")
	cmd.Flags().StringVar(&pattern, "pattern", "static", "Storage pattern: static, random, or optimized")
	cmd.Flags().BoolVar(&antiAging, "anti-aging", false, "Enable anti-aging countermeasures")

	return cmd
}

func runStability(seed int64, numCells, runs int, temperature, voltageRatio float64,
	patternArg string, antiAging bool) error {

	pattern, err := sram.ParsePattern(patternArg)
	if err != nil {
		return err
	}
	array, err := sram.NewArray(numCells, seed)
	if err != nil {
		return fmt.Errorf("failed to build array: %w", err)
	}
	cond := sram.Conditions{
		Temperature:  temperature,
		VoltageRatio: voltageRatio,
		Pattern:      pattern,
		AntiAging:    antiAging,
	}

	census, err := analysis.RunStabilityCensus(array, cond, runs)
	if err != nil {
		return fmt.Errorf("stability census failed: %w", err)
	}

	fmt.Printf("=== STABILITY CENSUS ===\n")
	fmt.Printf("Cells: %d | Runs: %d | %.1f°C V=%.2f pattern=%s\n",
		census.Cells, census.Runs, temperature, voltageRatio, pattern)
	fmt.Printf("Stable cells: %d (%.1f%%)\n\n", census.StableCells, census.StableFraction*100)
	fmt.Println("Flip-count histogram:")
	for flips, count := range census.Histogram {
		if count == 0 {
			continue
		}
		fmt.Printf("  %3d flips: %d cells\n", flips, count)
	}
	return nil
}

func newEntropyCmd() *cobra.Command {
	var seed int64
	var devices int

	cmd := &cobra.Command{
		Use:   "entropy",
		Short: "Report entropy accounting and population metrics",
		Long: `Enroll one device and report its entropy budget (secret size, helper
leakage, effective bits), then measure uniqueness and uniformity across a
population of independently manufactured devices.

Example: pufsim entropy --devices 20 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntropy(seed, devices)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&devices, "devices", 20, "Population size for uniqueness metrics")

	return cmd
}

func runEntropy(seed int64, devices int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	array, err := sram.NewArray(cfg.Simulation.NumCells, seed)
	if err != nil {
		return fmt.Errorf("failed to build array: %w", err)
	}
	extractor := app.NewFuzzyExtractor(array, internal.DefaultLogger)

	record, err := extractor.Enroll(enrollmentFromConfig(cfg, fmt.Sprintf("entropy-device-%d", seed)))
	if err != nil {
		return fmt.Errorf("enrollment failed: %w", err)
	}

	account, err := analysis.EntropyAccounting(record)
	if err != nil {
		return fmt.Errorf("entropy accounting failed: %w", err)
	}

	fmt.Printf("=== ENTROPY ACCOUNTING ===\n")
	fmt.Printf("Secret: %d bits | Helper: %d bits (public)\n", account.SecretBits, account.HelperBits)
	fmt.Printf("Per-bit entropy: %.4f | Helper leakage per bit: %.4f\n",
		account.PerBitEntropy, account.ReductionPerBit)
	fmt.Printf("Effective entropy: %.1f bits (%.4f per bit)\n",
		account.TotalEffectiveBits, account.EffectivePerBit)

	responses := make([]bitvec.Vector, 0, devices)
	for d := 0; d < devices; d++ {
		devArray, err := sram.NewArray(cfg.Simulation.NumCells, seed+int64(d)+1)
		if err != nil {
			return fmt.Errorf("failed to build device %d: %w", d, err)
		}
		responses = append(responses, devArray.PowerUpAll(sram.Nominal()))
	}

	unique, err := analysis.Uniqueness(responses)
	if err != nil {
		return fmt.Errorf("uniqueness analysis failed: %w", err)
	}
	uniform, err := analysis.Uniformity(responses)
	if err != nil {
		return fmt.Errorf("uniformity analysis failed: %w", err)
	}

	fmt.Printf("\n=== POPULATION (%d devices, raw responses) ===\n", devices)
	fmt.Printf("Uniqueness: mean fractional HD %.4f (ideal 0.5), std %.4f, range [%.4f, %.4f]\n",
		unique.MeanDistance, unique.StdDev, unique.Min, unique.Max)
	fmt.Printf("Uniformity: mean ones fraction %.4f (ideal 0.5), std %.4f\n",
		uniform.Mean, uniform.StdDev)
	return nil
}

func newHealthCmd() *cobra.Command {
	var seed int64
	var ageYears int
	var ageTemp float64

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Enroll a device and track health through simulated aging",
		Long: `Enroll one device, then age it year by year at the given temperature
profile, running the built-in health check after each step.

Exits non-zero if the device degrades past the critical BER threshold.

Example: pufsim health --age-years 15 --age-temp 85 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(seed, ageYears, ageTemp)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic operations")
	cmd.Flags().IntVar(&ageYears, "age-years", 15, "Service life to simulate in years")
	cmd.Flags().Float64Var(&ageTemp, "age-temp", 85, "Average operating temperature during aging")

	return cmd
}

func runHealth(seed int64, ageYears int, ageTemp float64) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	array, err := sram.NewArray(cfg.Simulation.NumCells, seed)
	if err != nil {
		return fmt.Errorf("failed to build array: %w", err)
	}
	extractor := app.NewFuzzyExtractor(array, internal.DefaultLogger)

	record, err := extractor.Enroll(enrollmentFromConfig(cfg, fmt.Sprintf("health-device-%d", seed)))
	if err != nil {
		return fmt.Errorf("enrollment failed: %w", err)
	}
	fmt.Printf("Enrolled %d-bit key (%s, %d cells)\n",
		record.SecretBits(), schemeLabel(record.ECC), cfg.Simulation.NumCells)

	var last puf.HealthReport
	for year := 1; year <= ageYears; year++ {
		extractor.SimulateAging(float64(year)*8760-extractor.AgeHours(), ageTemp)
		last, err = extractor.CheckHealth()
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Printf("Year %2d: BER %.4f (%3d bit errors), status %s\n",
			year, last.BitErrorRate, last.Mismatches, last.Status)
	}

	if !last.Passed() {
		return fmt.Errorf("device unhealthy after %d years: BER %.4f exceeds the critical threshold",
			ageYears, last.BitErrorRate)
	}
	fmt.Printf("Device healthy after %d years (%.0f hours)\n", ageYears, extractor.AgeHours())
	return nil
}

func enrollmentFromConfig(cfg *config.Config, device string) app.EnrollmentConfig {
	return app.EnrollmentConfig{
		Device:             core.DeviceID(device),
		ECC:                cfg.DomainECC(),
		BurnInRounds:       cfg.BurnIn.Rounds,
		BurnInTemperature:  cfg.BurnIn.Temperature,
		BurnInVoltageRatio: cfg.BurnIn.VoltageRatio,
		Pattern:            cfg.DomainPattern(),
		AntiAging:          cfg.BurnIn.AntiAging,
	}
}

func schemeLabel(e puf.ECCConfig) string {
	if e.Scheme == puf.SchemeBCH {
		return fmt.Sprintf("bch(t=%d)", e.T)
	}
	return string(e.Scheme)
}

func parseFloatList(arg string) ([]float64, error) {
	parts := strings.Split(arg, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

func parsePatternList(arg string) ([]sram.StoragePattern, error) {
	parts := strings.Split(arg, ",")
	out := make([]sram.StoragePattern, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pattern, err := sram.ParsePattern(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pattern)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

// parseSchemeList expands scheme names into ECC configurations; bch picks up
// its t and m parameters from the loaded configuration.
func parseSchemeList(arg string, cfg *config.Config) ([]puf.ECCConfig, error) {
	parts := strings.Split(arg, ",")
	out := make([]puf.ECCConfig, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		scheme, err := puf.ParseECCScheme(p)
		if err != nil {
			return nil, err
		}
		if scheme == puf.SchemeBCH {
			out = append(out, puf.ECCConfig{Scheme: scheme, T: cfg.ECC.T, M: cfg.ECC.M})
		} else {
			out = append(out, puf.ECCConfig{Scheme: scheme})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
