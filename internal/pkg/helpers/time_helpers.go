package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseClock parses a "HH:MM" time-of-day string.
func ParseClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}

// ClockBefore reports whether time-of-day a is strictly before b.
// Both values must be "HH:MM" strings already validated by ParseClock.
func ClockBefore(a, b string) bool {
	ta, errA := ParseClock(a)
	tb, errB := ParseClock(b)
	if errA != nil || errB != nil {
		return false
	}
	return ta.Before(tb)
}
