package thingspeak

import (
	"time"

	"github.com/smart-office/dashboard/backend/internal/model"
)

// IsRecent reports whether the sample is at most threshold old. The boundary is inclusive.
func IsRecent(sample model.TelemetrySample, now time.Time, threshold time.Duration) bool {
	return sample.Age(now) <= threshold
}

// Effective folds a fetch result into a boolean signal. Failures and stale
// samples always read as false.
func Effective(sample model.TelemetrySample, err error, now time.Time, threshold time.Duration) bool {
	if err != nil {
		return false
	}
	return sample.Value > 0 && IsRecent(sample, now, threshold)
}
