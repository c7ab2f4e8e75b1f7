package sweep_tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/mailsweep/internal/senders"
)

func TestGetAccountFromArgs(t *testing.T) {
	assert.Equal(t, "default", getAccountFromArgs(map[string]interface{}{}))
	assert.Equal(t, "default", getAccountFromArgs(map[string]interface{}{"account": ""}))
	assert.Equal(t, "default", getAccountFromArgs(map[string]interface{}{"account": 7}))
	assert.Equal(t, "work", getAccountFromArgs(map[string]interface{}{"account": "work"}))
}

func TestFormatRanked(t *testing.T) {
	ranked := []senders.Ranked{
		{Rank: 1, Sender: "Deals <deals@shop.example.com>", Count: 48, Percent: 9.6},
		{Rank: 2, Sender: "news@example.com", Count: 12, Percent: 2.4},
	}

	out := formatRanked("recent", 431, ranked)

	assert.Contains(t, out, "recent sample, 431 messages pooled")
	assert.Contains(t, out, " 1. Deals <deals@shop.example.com> — 48 messages (9.6% of sample)")
	assert.Contains(t, out, " 2. news@example.com — 12 messages (2.4% of sample)")

	// Rank order is preserved line by line.
	first := strings.Index(out, "deals@shop.example.com")
	second := strings.Index(out, "news@example.com")
	assert.Less(t, first, second)
}

func TestFormatRankedEmpty(t *testing.T) {
	out := formatRanked("old", 0, nil)
	assert.Contains(t, out, "No senders found")
	assert.Contains(t, out, "old")
}

func TestPickSamples(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	picked := pickSamples(ids, 3)
	require.Len(t, picked, 3)
	seen := map[string]bool{}
	for _, id := range picked {
		assert.Contains(t, ids, id)
		assert.False(t, seen[id], "sample %s picked twice", id)
		seen[id] = true
	}

	// Fewer IDs than requested: everything comes back.
	assert.Equal(t, []string{"a", "b"}, pickSamples([]string{"a", "b"}, 3))
	assert.Empty(t, pickSamples(nil, 3))
}
