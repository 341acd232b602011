package sorting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/mirror"
)

var testNow = time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func urls(mirrors []mirror.Mirror) []string {
	out := make([]string, len(mirrors))
	for i, m := range mirrors {
		out[i] = m.URL
	}
	return out
}

func assertOrder(t *testing.T, mirrors []mirror.Mirror, want []string) {
	t.Helper()

	got := urls(mirrors)
	if len(got) != len(want) {
		t.Fatalf("got %d mirrors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()

	want := []string{
		"age", "completion_pct", "country", "country_code", "delay",
		"duration_avg", "duration_stddev", "last_sync", "protocol",
		"score", "url",
	}

	if len(keys) != len(want) {
		t.Fatalf("len(Keys()) = %d, want %d", len(keys), len(want))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], key)
		}
	}
}

func TestIsValidKey(t *testing.T) {
	if !IsValidKey("score") {
		t.Error(`IsValidKey("score") = false, want true`)
	}
	if IsValidKey("rating") {
		t.Error(`IsValidKey("rating") = true, want false`)
	}
}

func TestNewDropsUnknownKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, logging.LevelWarn)

	s := New([]string{"score", "rating", "URL", "rating", " country "}, false, logger)

	want := []string{"score", "url", "country"}
	if len(s.Keys()) != len(want) {
		t.Fatalf("Keys() = %v, want %v", s.Keys(), want)
	}
	for i, key := range want {
		if s.Keys()[i] != key {
			t.Errorf("Keys()[%d] = %q, want %q", i, s.Keys()[i], key)
		}
	}

	// One warning per distinct unknown key.
	warnings := strings.Count(buf.String(), "invalid sorting key")
	if warnings != 1 {
		t.Errorf("got %d warnings, want 1: %s", warnings, buf.String())
	}
}

func TestSortByScore(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "c", Score: ptr(3.0)},
		{URL: "broken"},
		{URL: "a", Score: ptr(1.0)},
		{URL: "b", Score: ptr(2.0)},
	}

	New([]string{"score"}, false, nil).Sort(mirrors, testNow)

	// Mirrors without a score sort last.
	assertOrder(t, mirrors, []string{"a", "b", "c", "broken"})
}

func TestSortByCompletionPct(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "full", CompletionPct: ptr(1.0)},
		{URL: "partial", CompletionPct: ptr(0.5)},
		{URL: "unknown"},
	}

	New([]string{"completion_pct"}, false, nil).Sort(mirrors, testNow)

	// Missing completion data counts as 0%, so it sorts first.
	assertOrder(t, mirrors, []string{"unknown", "partial", "full"})
}

func TestSortByLastSync(t *testing.T) {
	older := testNow.Add(-24 * time.Hour)
	newer := testNow.Add(-time.Hour)

	mirrors := []mirror.Mirror{
		{URL: "new", LastSync: &newer},
		{URL: "never"},
		{URL: "old", LastSync: &older},
	}

	New([]string{"last_sync"}, false, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"old", "new", "never"})
}

func TestSortByDelay(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "slow", Delay: ptr(7200)},
		{URL: "unknown"},
		{URL: "fast", Delay: ptr(600)},
	}

	New([]string{"delay"}, false, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"fast", "slow", "unknown"})
}

func TestSortByAge(t *testing.T) {
	fresh := testNow.Add(-30 * time.Minute)
	stale := testNow.Add(-48 * time.Hour)

	mirrors := []mirror.Mirror{
		{URL: "stale", LastSync: &stale},
		{URL: "never"},
		{URL: "fresh", LastSync: &fresh},
	}

	New([]string{"age"}, false, nil).Sort(mirrors, testNow)

	// A mirror that never synced is ancient and ends up last.
	assertOrder(t, mirrors, []string{"fresh", "stale", "never"})
}

func TestSortByCountry(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "de", Country: "Germany"},
		{URL: "au", Country: "Australia"},
		{URL: "us", Country: "United States"},
	}

	New([]string{"country"}, false, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"au", "de", "us"})
}

func TestSortEmptyCountryLast(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "nowhere", Country: ""},
		{URL: "de", Country: "Germany"},
		{URL: "au", Country: "Australia"},
	}

	New([]string{"country"}, false, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"au", "de", "nowhere"})
}

func TestSortMultiKey(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "de-slow", Country: "Germany", Score: ptr(5.0)},
		{URL: "au", Country: "Australia", Score: ptr(9.0)},
		{URL: "de-fast", Country: "Germany", Score: ptr(1.0)},
	}

	New([]string{"country", "score"}, false, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"au", "de-fast", "de-slow"})
}

func TestSortStability(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "first", Protocol: "https"},
		{URL: "second", Protocol: "https"},
		{URL: "third", Protocol: "https"},
	}

	New([]string{"protocol"}, false, nil).Sort(mirrors, testNow)

	// All equal under the sort key: feed order must survive.
	assertOrder(t, mirrors, []string{"first", "second", "third"})
}

func TestSortReverse(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "b", Score: ptr(2.0)},
		{URL: "a", Score: ptr(1.0)},
		{URL: "c", Score: ptr(3.0)},
	}

	New([]string{"score"}, true, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"c", "b", "a"})
}

func TestSortReverseKeepsTieOrder(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "first", Score: ptr(1.0)},
		{URL: "second", Score: ptr(1.0)},
		{URL: "last", Score: ptr(0.5)},
	}

	New([]string{"score"}, true, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"first", "second", "last"})
}

func TestSortNoKeys(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "c"},
		{URL: "a"},
		{URL: "b"},
	}

	New(nil, false, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"c", "a", "b"})
}

func TestSortOnlyUnknownKeys(t *testing.T) {
	mirrors := []mirror.Mirror{
		{URL: "c"},
		{URL: "a"},
	}

	New([]string{"bogus"}, false, nil).Sort(mirrors, testNow)

	assertOrder(t, mirrors, []string{"c", "a"})
}
