// Package sorting orders mirrors by a sequence of sort keys. Keys are
// applied in the given order; later keys only break ties of earlier ones.
// The sort is stable, so mirrors that compare equal keep their feed order.
package sorting

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/mirror"
)

// Supported sort keys.
const (
	KeyURL            = "url"
	KeyProtocol       = "protocol"
	KeyLastSync       = "last_sync"
	KeyCompletionPct  = "completion_pct"
	KeyDelay          = "delay"
	KeyDurationAvg    = "duration_avg"
	KeyDurationStddev = "duration_stddev"
	KeyScore          = "score"
	KeyCountry        = "country"
	KeyCountryCode    = "country_code"
	KeyAge            = "age"
)

// validKeys holds every supported sort key.
var validKeys = map[string]bool{
	KeyURL:            true,
	KeyProtocol:       true,
	KeyLastSync:       true,
	KeyCompletionPct:  true,
	KeyDelay:          true,
	KeyDurationAvg:    true,
	KeyDurationStddev: true,
	KeyScore:          true,
	KeyCountry:        true,
	KeyCountryCode:    true,
	KeyAge:            true,
}

// Keys returns the supported sort keys in alphabetical order.
func Keys() []string {
	keys := make([]string, 0, len(validKeys))
	for key := range validKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsValidKey reports whether key is a supported sort key.
func IsValidKey(key string) bool {
	return validKeys[key]
}

// Sorter sorts mirrors by a fixed sequence of keys.
type Sorter struct {
	keys    []string
	reverse bool
}

// New creates a Sorter for the given keys. Keys are lowercased; unknown keys
// are skipped with a warning each. Reverse flips the overall order.
func New(keys []string, reverse bool, logger *logging.Logger) *Sorter {
	if logger == nil {
		logger = logging.NopLogger()
	}

	valid := make([]string, 0, len(keys))
	warned := make(map[string]bool)

	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if !IsValidKey(key) {
			if !warned[key] {
				logger.Warn("invalid sorting key", "key", key)
				warned[key] = true
			}
			continue
		}
		valid = append(valid, key)
	}

	return &Sorter{
		keys:    valid,
		reverse: reverse,
	}
}

// Keys returns the effective sort keys after unknown ones were dropped.
func (s *Sorter) Keys() []string {
	return s.keys
}

// Sort orders mirrors in place. Ages are measured relative to now.
// Without any effective keys, Sort leaves the order untouched.
func (s *Sorter) Sort(mirrors []mirror.Mirror, now time.Time) {
	if len(s.keys) == 0 {
		return
	}

	sort.SliceStable(mirrors, func(i, j int) bool {
		if s.reverse {
			i, j = j, i
		}
		return s.less(&mirrors[i], &mirrors[j], now)
	})
}

// less compares two mirrors key by key.
func (s *Sorter) less(a, b *mirror.Mirror, now time.Time) bool {
	for _, key := range s.keys {
		if c := compare(a, b, key, now); c != 0 {
			return c < 0
		}
	}
	return false
}

// compare returns -1, 0, or 1 ordering a against b by a single key.
// Values the feed could not measure sort last, except completion, where no
// data counts as 0% and therefore sorts first.
func compare(a, b *mirror.Mirror, key string, now time.Time) int {
	switch key {
	case KeyURL:
		return strings.Compare(a.URL, b.URL)
	case KeyProtocol:
		return strings.Compare(a.Protocol, b.Protocol)
	case KeyLastSync:
		return compareTimes(a.LastSync, b.LastSync)
	case KeyCompletionPct:
		return compareFloats(floatOr(a.CompletionPct, 0), floatOr(b.CompletionPct, 0))
	case KeyDelay:
		return compareFloats(delay(a), delay(b))
	case KeyDurationAvg:
		return compareFloats(floatOr(a.DurationAvg, math.Inf(1)), floatOr(b.DurationAvg, math.Inf(1)))
	case KeyDurationStddev:
		return compareFloats(floatOr(a.DurationStddev, math.Inf(1)), floatOr(b.DurationStddev, math.Inf(1)))
	case KeyScore:
		return compareFloats(floatOr(a.Score, math.Inf(1)), floatOr(b.Score, math.Inf(1)))
	case KeyCountry:
		return compareStringsEmptyLast(a.Country, b.Country)
	case KeyCountryCode:
		return compareStringsEmptyLast(a.CountryCode, b.CountryCode)
	case KeyAge:
		return compareDurations(a.Age(now), b.Age(now))
	}
	return 0
}

// compareTimes orders times ascending with nil sorting last.
func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

// compareStringsEmptyLast orders strings ascending, except that mirrors the
// feed reports no country for go last instead of first.
func compareStringsEmptyLast(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareDurations(a, b time.Duration) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func delay(m *mirror.Mirror) float64 {
	if m.Delay == nil {
		return math.Inf(1)
	}
	return float64(*m.Delay)
}
