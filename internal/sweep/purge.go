package sweep

import (
	"context"

	"github.com/teemow/mailsweep/internal/instrumentation"
	"github.com/teemow/mailsweep/internal/logging"
)

// Deleter is the permanent-delete primitive the purger depends on. The
// underlying API deletes one message per call; there is no bulk permanent
// delete.
type Deleter interface {
	DeleteMessage(id string) error
}

// DefaultPurgeChunkSize is the number of deletions between progress reports.
const DefaultPurgeChunkSize = 25

// PurgeResult reports the outcome of a trash purge. Failed deletions are
// counted, never fatal: the sweep always visits every ref.
type PurgeResult struct {
	Deleted int
	Failed  int
	Total   int
}

// Purger permanently deletes messages. No batch-size adaptation: deletes are
// single-item calls, so there is nothing to tune, only progress to chunk.
type Purger struct {
	gw        Deleter
	chunkSize int
	log       logging.Logger
	metrics   *instrumentation.Metrics
}

// NewPurger creates a Purger over the given deleter.
func NewPurger(gw Deleter, chunkSize int, log logging.Logger) *Purger {
	if chunkSize <= 0 {
		chunkSize = DefaultPurgeChunkSize
	}
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Purger{gw: gw, chunkSize: chunkSize, log: log}
}

// SetMetrics attaches a metrics recorder. Safe to leave unset.
func (p *Purger) SetMetrics(metrics *instrumentation.Metrics) {
	p.metrics = metrics
}

// Run permanently deletes every ref. This is irreversible; confirmation
// belongs to the caller, before Run is ever reached. A per-item failure is
// logged and counted and the sweep moves on; a cancelled context stops it
// between chunks.
func (p *Purger) Run(ctx context.Context, refs []string) PurgeResult {
	res := PurgeResult{Total: len(refs)}

	for start := 0; start < len(refs); start += p.chunkSize {
		if ctx.Err() != nil {
			p.log.Warn("purge cancelled",
				logging.KeyProcessed, res.Deleted,
				logging.KeyTotal, res.Total,
			)
			return res
		}

		end := start + p.chunkSize
		if end > len(refs) {
			end = len(refs)
		}

		for _, id := range refs[start:end] {
			err := p.gw.DeleteMessage(id)
			if p.metrics != nil {
				p.metrics.RecordPurgeDeletion(ctx, err)
			}
			if err != nil {
				res.Failed++
				p.log.Warn("failed to delete message",
					"message_id", id,
					logging.KeyError, err.Error(),
				)
				continue
			}
			res.Deleted++
		}

		p.log.Debug("purge progress",
			logging.KeyProcessed, res.Deleted+res.Failed,
			logging.KeyTotal, res.Total,
		)
	}

	p.log.Info("purge finished",
		"deleted", res.Deleted,
		"failed", res.Failed,
		logging.KeyTotal, res.Total,
	)
	return res
}
