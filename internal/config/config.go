package config

import (
	"os"
	"strconv"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/sram"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/errors"
)

// Config represents the complete simulator configuration
type Config struct {
	Simulation SimulationConfig
	BurnIn     BurnInConfig
	ECC        ECCConfig
	Sweep      SweepConfig
	Output     OutputConfig
}

// SimulationConfig holds array construction settings
type SimulationConfig struct {
	NumCells int
	Seed     int64
}

// BurnInConfig holds enrollment screening settings
type BurnInConfig struct {
	Rounds       int
	Temperature  float64
	VoltageRatio float64
	Pattern      string
	AntiAging    bool
}

// ECCConfig holds error correction settings
type ECCConfig struct {
	Scheme string
	T      int
	M      int
}

// SweepConfig holds evaluation sweep settings
type SweepConfig struct {
	Devices     int
	Samples     int
	Parallelism int
}

// OutputConfig holds report destination settings
type OutputConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Simulation: loadSimulationConfig(),
		BurnIn:     loadBurnInConfig(),
		ECC:        loadECCConfig(),
		Sweep:      loadSweepConfig(),
		Output:     loadOutputConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		NumCells: getEnvIntOrDefault("PUFSIM_NUM_CELLS", 512),
		Seed:     getEnvInt64OrDefault("PUFSIM_SEED", 42),
	}
}

func loadBurnInConfig() BurnInConfig {
	return BurnInConfig{
		Rounds:       getEnvIntOrDefault("PUFSIM_BURNIN_ROUNDS", 20),
		Temperature:  getEnvFloatOrDefault("PUFSIM_BURNIN_TEMPERATURE", 125),
		VoltageRatio: getEnvFloatOrDefault("PUFSIM_BURNIN_VOLTAGE", 1.2),
		Pattern:      getEnvOrDefault("PUFSIM_PATTERN", string(sram.PatternStatic)),
		AntiAging:    getEnvBoolOrDefault("PUFSIM_ANTI_AGING", true),
	}
}

func loadECCConfig() ECCConfig {
	return ECCConfig{
		Scheme: getEnvOrDefault("PUFSIM_ECC_SCHEME", string(puf.SchemeBCH)),
		T:      getEnvIntOrDefault("PUFSIM_ECC_T", 10),
		M:      getEnvIntOrDefault("PUFSIM_ECC_M", 0),
	}
}

func loadSweepConfig() SweepConfig {
	return SweepConfig{
		Devices:     getEnvIntOrDefault("PUFSIM_SWEEP_DEVICES", 5),
		Samples:     getEnvIntOrDefault("PUFSIM_SWEEP_SAMPLES", 25),
		Parallelism: getEnvIntOrDefault("PUFSIM_SWEEP_PARALLELISM", 4),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		Dir: getEnvOrDefault("PUFSIM_OUTPUT_DIR", "."),
	}
}

func validateConfig(config *Config) error {
	if config.Simulation.NumCells < 1 {
		return errors.ConfigInvalid("PUFSIM_NUM_CELLS must be at least 1")
	}
	if config.BurnIn.Rounds < 0 {
		return errors.ConfigInvalid("PUFSIM_BURNIN_ROUNDS cannot be negative")
	}
	if config.BurnIn.VoltageRatio <= 0 {
		return errors.ConfigInvalid("PUFSIM_BURNIN_VOLTAGE must be positive")
	}
	if _, err := sram.ParsePattern(config.BurnIn.Pattern); err != nil {
		return errors.ConfigInvalid("PUFSIM_PATTERN must be static, random, or optimized")
	}
	scheme, err := puf.ParseECCScheme(config.ECC.Scheme)
	if err != nil {
		return errors.ConfigInvalid("PUFSIM_ECC_SCHEME must be none, hamming, or bch")
	}
	if scheme == puf.SchemeBCH && config.ECC.T < 1 {
		return errors.ConfigInvalid("PUFSIM_ECC_T must be at least 1 for the bch scheme")
	}
	if config.Sweep.Devices < 1 || config.Sweep.Samples < 1 || config.Sweep.Parallelism < 1 {
		return errors.ConfigInvalid("sweep devices, samples, and parallelism must be at least 1")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("PUFSIM_OUTPUT_DIR cannot be empty")
	}
	return nil
}

// DomainECC converts the ECC settings into the domain configuration. T and M
// apply to the bch scheme only; for other schemes the defaults are ignored.
func (c *Config) DomainECC() puf.ECCConfig {
	scheme := puf.ECCScheme(c.ECC.Scheme)
	if scheme != puf.SchemeBCH {
		return puf.ECCConfig{Scheme: scheme}
	}
	return puf.ECCConfig{
		Scheme: scheme,
		T:      c.ECC.T,
		M:      c.ECC.M,
	}
}

// DomainPattern converts the burn-in pattern into the domain type.
func (c *Config) DomainPattern() sram.StoragePattern {
	return sram.StoragePattern(c.BurnIn.Pattern)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
