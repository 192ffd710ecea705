package puf

// HealthStatus classifies a device's raw bit error rate against its golden
// response.
type HealthStatus string

const (
	HealthOK       HealthStatus = "OK"
	HealthWarning  HealthStatus = "WARNING"
	HealthCritical HealthStatus = "CRITICAL"
)

// BER thresholds. Above the warning level the ECC margin is shrinking;
// above the critical level correction capacity is likely exceeded.
const (
	WarningBERThreshold  = 0.10
	CriticalBERThreshold = 0.25
)

// ClassifyHealth maps a bit error rate onto a status band.
func ClassifyHealth(ber float64) HealthStatus {
	switch {
	case ber > CriticalBERThreshold:
		return HealthCritical
	case ber > WarningBERThreshold:
		return HealthWarning
	default:
		return HealthOK
	}
}

// HealthReport is a point-in-time self-test result, recomputed on demand
// from one uncorrected nominal power-up. Never persisted.
type HealthReport struct {
	BitErrorRate float64
	Mismatches   int
	Status       HealthStatus
	AgeHours     float64
}

// Passed reports whether the device is still inside its correction margin.
func (r HealthReport) Passed() bool {
	return r.Status != HealthCritical
}
