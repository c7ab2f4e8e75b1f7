package senders

import "sort"

// Ranking policy constants. The nominal sample size is a display heuristic:
// percentages are always computed against 500 regardless of how many messages
// the pool actually holds.
const (
	DefaultTopN              = 10
	DefaultNominalSampleSize = 500
)

// Ranked is one entry of the top-senders table.
type Ranked struct {
	Rank    int
	Sender  string
	Count   int
	Percent float64
	// MessageIDs carries the sampled IDs so a selection can be previewed
	// without re-fetching.
	MessageIDs []string
}

// Rank orders records by sampled volume descending and truncates to topN.
// Ties keep first-seen order (stable sort over the aggregation order).
// Percent is count out of the fixed nominal sample size, not the actual pool
// size.
func Rank(records []Record, topN, nominalSampleSize int) []Ranked {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if nominalSampleSize <= 0 {
		nominalSampleSize = DefaultNominalSampleSize
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count() > sorted[j].Count()
	})

	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	out := make([]Ranked, len(sorted))
	for i, r := range sorted {
		out[i] = Ranked{
			Rank:       i + 1,
			Sender:     r.Sender,
			Count:      r.Count(),
			Percent:    float64(r.Count()) / float64(nominalSampleSize) * 100,
			MessageIDs: r.MessageIDs,
		}
	}
	return out
}
