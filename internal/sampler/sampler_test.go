package sampler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher returns canned IDs per query and records every query issued.
type fakeSearcher struct {
	results map[string][]string
	queries []string
	err     error
}

func (f *fakeSearcher) ListMessageIDs(q string, maxResults int64) ([]string, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	ids := f.results[q]
	if maxResults > 0 && int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%03d", prefix, i)
	}
	return out
}

func TestPoolDeduplicates(t *testing.T) {
	pool := NewPool()

	assert.True(t, pool.Add("a"))
	assert.True(t, pool.Add("b"))
	assert.False(t, pool.Add("a"))
	assert.True(t, pool.Add("c"))
	assert.False(t, pool.Add("c"))

	assert.Equal(t, []string{"a", "b", "c"}, pool.IDs())
	assert.Equal(t, 3, pool.Len())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Mode
		wantError bool
	}{
		{name: "recent", input: "recent", want: ModeRecent},
		{name: "old", input: "old", want: ModeOld},
		{name: "very-old", input: "very-old", want: ModeVeryOld},
		{name: "empty defaults to recent", input: "", want: ModeRecent},
		{name: "unknown", input: "ancient", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodsForHasThreePeriodsPerMode(t *testing.T) {
	for _, mode := range Modes {
		assert.Len(t, PeriodsFor(mode), 3, "mode %s", mode)
	}
}

func TestPeriodQueryContents(t *testing.T) {
	p := Period{Name: "newer", Age: "newer_than:1m"}

	primary := periodQuery(p, "me@example.com", true)
	assert.Contains(t, primary, "in:inbox")
	assert.Contains(t, primary, "newer_than:1m")
	assert.Contains(t, primary, "-from:me@example.com")
	assert.Contains(t, primary, `subject:"unsubscribe"`)
	assert.Contains(t, primary, "list-unsubscribe:*")
	assert.Contains(t, primary, `"opt out"`)

	broader := periodQuery(p, "me@example.com", false)
	assert.Contains(t, broader, "in:inbox")
	assert.Contains(t, broader, "-from:me@example.com")
	assert.NotContains(t, broader, "unsubscribe")
}

func TestRunPoolsAndDeduplicatesAcrossPeriods(t *testing.T) {
	gw := &fakeSearcher{results: map[string][]string{}}
	cfg := Config{PerPeriodCap: 167, FallbackThreshold: 1}

	// Two periods return overlapping IDs; the threshold of 1 keeps the
	// fallback quiet once the first period lands anything.
	periods := PeriodsFor(ModeRecent)
	gw.results[periodQuery(periods[0], "me@example.com", true)] = []string{"m1", "m2", "m3"}
	gw.results[periodQuery(periods[1], "me@example.com", true)] = []string{"m2", "m4"}
	gw.results[periodQuery(periods[2], "me@example.com", true)] = []string{"m1", "m5"}
	// Fallback fires only for the first period, while the pool is empty.
	gw.results[periodQuery(periods[0], "me@example.com", false)] = nil

	s := New(gw, cfg, nil)
	ids, err := s.Run(context.Background(), ModeRecent, "me@example.com")

	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, ids)
}

func TestRunIssuesFallbackBelowThreshold(t *testing.T) {
	gw := &fakeSearcher{results: map[string][]string{}}
	cfg := Config{PerPeriodCap: 167, FallbackThreshold: 100}

	periods := PeriodsFor(ModeRecent)
	// Primary query for the first period returns 40 refs, well below the
	// fallback threshold of 100; the broader query must be issued and its
	// results merged with dedup.
	primary := seq("m", 40)
	broader := append(seq("m", 10), "extra-1", "extra-2")
	gw.results[periodQuery(periods[0], "me@example.com", true)] = primary
	gw.results[periodQuery(periods[0], "me@example.com", false)] = broader

	s := New(gw, cfg, nil)
	ids, err := s.Run(context.Background(), ModeRecent, "me@example.com")

	require.NoError(t, err)
	assert.Len(t, ids, 42, "40 primary + 2 new from fallback, overlap deduped")
	assert.Contains(t, ids, "extra-1")
	assert.Contains(t, ids, "extra-2")

	// Every period issued both a primary and a fallback query here since
	// the pool never reached the threshold.
	assert.Len(t, gw.queries, 6)
}

func TestRunSkipsFallbackAboveThreshold(t *testing.T) {
	gw := &fakeSearcher{results: map[string][]string{}}
	cfg := Config{PerPeriodCap: 167, FallbackThreshold: 5}

	periods := PeriodsFor(ModeRecent)
	gw.results[periodQuery(periods[0], "me@example.com", true)] = seq("a", 10)
	gw.results[periodQuery(periods[1], "me@example.com", true)] = seq("b", 3)
	gw.results[periodQuery(periods[2], "me@example.com", true)] = seq("c", 3)

	s := New(gw, cfg, nil)
	_, err := s.Run(context.Background(), ModeRecent, "me@example.com")

	require.NoError(t, err)
	// Pool is past the threshold after the first period: three primary
	// queries, no fallbacks.
	assert.Len(t, gw.queries, 3)
	for _, q := range gw.queries {
		assert.True(t, strings.Contains(q, "unsubscribe"), "expected primary query, got %q", q)
	}
}

func TestRunEmptyPoolIsNotAnError(t *testing.T) {
	gw := &fakeSearcher{results: map[string][]string{}}

	s := New(gw, DefaultConfig(), nil)
	ids, err := s.Run(context.Background(), ModeVeryOld, "me@example.com")

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRunPropagatesSearchError(t *testing.T) {
	gw := &fakeSearcher{err: assert.AnError}

	s := New(gw, DefaultConfig(), nil)
	_, err := s.Run(context.Background(), ModeRecent, "me@example.com")

	assert.Error(t, err)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	gw := &fakeSearcher{results: map[string][]string{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(gw, DefaultConfig(), nil)
	_, err := s.Run(ctx, ModeRecent, "me@example.com")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gw.queries)
}
