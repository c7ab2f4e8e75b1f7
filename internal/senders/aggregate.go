package senders

import (
	"context"

	"github.com/teemow/mailsweep/internal/logging"
)

// Metadata header names the aggregator fetches. Limiting the fetch to these
// two headers keeps the per-message payload minimal.
const (
	HeaderFrom            = "From"
	HeaderListUnsubscribe = "List-Unsubscribe"
)

// MetadataFetcher is the single mailbox primitive the aggregator depends on:
// a metadata-only header fetch for one message.
type MetadataFetcher interface {
	MessageHeaders(id string, headers []string) (map[string]string, error)
}

// Record groups the pooled message IDs of one sender. The key is the raw From
// header value, so "Name <a@x.com>" and "a@x.com" are distinct senders.
type Record struct {
	Sender     string
	MessageIDs []string
}

// Count returns the number of sampled messages for this sender.
func (r Record) Count() int {
	return len(r.MessageIDs)
}

// Options holds the aggregation policy.
type Options struct {
	// ChunkSize partitions the pool for fetching; 50 matches the Gmail
	// batch-request limit.
	ChunkSize int

	// RequireListUnsubscribe counts only senders whose messages carry a
	// List-Unsubscribe header. The default counts every sender with a From
	// header; both behaviors are intentional analysis variants.
	RequireListUnsubscribe bool
}

// DefaultOptions returns the production aggregation policy.
func DefaultOptions() Options {
	return Options{ChunkSize: 50}
}

// Aggregator fetches sender metadata for a sample pool and groups message IDs
// by sender.
type Aggregator struct {
	gw   MetadataFetcher
	opts Options
	log  logging.Logger
}

// NewAggregator creates an Aggregator over the given metadata fetcher.
func NewAggregator(gw MetadataFetcher, opts Options, log logging.Logger) *Aggregator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Aggregator{gw: gw, opts: opts, log: log}
}

// Aggregate partitions the pool into chunks, fetches the From and
// List-Unsubscribe headers per message, and groups IDs by raw sender header.
// Records come back in first-seen order.
//
// A failed fetch drops that single message from the analysis; it neither
// aborts the chunk nor surfaces as an error. Messages without a From header
// are likewise skipped.
func (a *Aggregator) Aggregate(ctx context.Context, pool []string) ([]Record, error) {
	bySender := make(map[string]int) // sender -> index into records
	var records []Record
	dropped := 0

	headers := []string{HeaderFrom, HeaderListUnsubscribe}

	for start := 0; start < len(pool); start += a.opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + a.opts.ChunkSize
		if end > len(pool) {
			end = len(pool)
		}

		for _, id := range pool[start:end] {
			hdrs, err := a.gw.MessageHeaders(id, headers)
			if err != nil {
				// Per-item faults are invisible to the caller; the
				// message simply does not contribute to any sender.
				dropped++
				continue
			}

			from, ok := hdrs[HeaderFrom]
			if !ok || from == "" {
				dropped++
				continue
			}

			if a.opts.RequireListUnsubscribe {
				if _, ok := hdrs[HeaderListUnsubscribe]; !ok {
					dropped++
					continue
				}
			}

			idx, ok := bySender[from]
			if !ok {
				idx = len(records)
				bySender[from] = idx
				records = append(records, Record{Sender: from})
			}
			records[idx].MessageIDs = append(records[idx].MessageIDs, id)
		}
	}

	a.log.Info("sender aggregation complete",
		"pool_size", len(pool),
		"senders", len(records),
		"dropped", dropped,
	)

	return records, nil
}
