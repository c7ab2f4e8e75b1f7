package sampler

import (
	"context"
	"fmt"

	"github.com/teemow/mailsweep/internal/logging"
)

// Searcher is the single mailbox primitive the sampler depends on: a capped,
// unpaginated message-ID search.
type Searcher interface {
	ListMessageIDs(q string, maxResults int64) ([]string, error)
}

// Config holds the sampling policy constants. The defaults reproduce the
// production behavior; tests use smaller values.
type Config struct {
	// PerPeriodCap is the result cap per period query, roughly a third of
	// the nominal 500-message sample.
	PerPeriodCap int64

	// FallbackThreshold triggers the broader no-filter query: if the pool
	// holds fewer than this many IDs after a period's primary query, the
	// same period is queried again without the unsubscribe signal.
	FallbackThreshold int
}

// DefaultConfig returns the production sampling policy.
func DefaultConfig() Config {
	return Config{
		PerPeriodCap:      167,
		FallbackThreshold: 100,
	}
}

// Pool is a deduplicated, insertion-ordered set of message IDs collected
// across all periods of one sampling run.
type Pool struct {
	ids  []string
	seen map[string]struct{}
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{seen: make(map[string]struct{})}
}

// Add inserts an ID unless it is already pooled. Reports whether the ID was
// added.
func (p *Pool) Add(id string) bool {
	if _, ok := p.seen[id]; ok {
		return false
	}
	p.seen[id] = struct{}{}
	p.ids = append(p.ids, id)
	return true
}

// IDs returns the pooled IDs in first-seen order.
func (p *Pool) IDs() []string {
	return p.ids
}

// Len returns the number of unique pooled IDs.
func (p *Pool) Len() int {
	return len(p.ids)
}

// Sampler issues the time-stratified, content-filtered searches of one
// analysis run and collects the deduplicated sample pool.
type Sampler struct {
	gw  Searcher
	cfg Config
	log logging.Logger
}

// New creates a Sampler over the given mailbox searcher.
func New(gw Searcher, cfg Config, log logging.Logger) *Sampler {
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Sampler{gw: gw, cfg: cfg, log: log}
}

// Run samples the mailbox for one mode and returns the pooled message IDs.
// self is the authenticated address, excluded as sender from every query.
//
// An empty pool is a normal outcome meaning there is nothing to analyze, not
// an error. Sampling is read-only and re-entrant; every call builds a fresh
// pool.
func (s *Sampler) Run(ctx context.Context, mode Mode, self string) ([]string, error) {
	pool := NewPool()

	for _, period := range PeriodsFor(mode) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.log.Debug("sampling period",
			logging.KeyMode, string(mode),
			logging.KeyPeriod, period.Name,
		)

		ids, err := s.gw.ListMessageIDs(periodQuery(period, self, true), s.cfg.PerPeriodCap)
		if err != nil {
			return nil, fmt.Errorf("sampling period %s: %w", period.Name, err)
		}
		for _, id := range ids {
			pool.Add(id)
		}

		// Newsletter heuristics miss mailboxes whose top senders are not
		// bulk mail. If the pool is still thin, re-run the period without
		// the content filter and merge.
		if pool.Len() < s.cfg.FallbackThreshold {
			broader, err := s.gw.ListMessageIDs(periodQuery(period, self, false), s.cfg.PerPeriodCap)
			if err != nil {
				return nil, fmt.Errorf("fallback sampling period %s: %w", period.Name, err)
			}
			for _, id := range broader {
				pool.Add(id)
			}
		}
	}

	s.log.Info("sampling complete",
		logging.KeyMode, string(mode),
		"pool_size", pool.Len(),
	)

	return pool.IDs(), nil
}
