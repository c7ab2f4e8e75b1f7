package sweep

import (
	"context"

	"github.com/teemow/mailsweep/internal/instrumentation"
	"github.com/teemow/mailsweep/internal/logging"
)

// Modifier is the bulk label-mutation primitive the mutator depends on. One
// call either applies the mutation to every listed message or fails as a
// whole.
type Modifier interface {
	BatchModify(ids []string, addLabels, removeLabels []string) error
}

// Mutation describes a bulk label change. Label add and remove are idempotent
// at the gateway, which is what makes retrying a partially applied batch safe.
type Mutation struct {
	Name         string
	AddLabels    []string
	RemoveLabels []string
}

// TrashMutation moves messages to the trash.
func TrashMutation() Mutation {
	return Mutation{Name: "trash", AddLabels: []string{"TRASH"}}
}

// ArchiveMutation archives messages by removing the inbox label.
func ArchiveMutation() Mutation {
	return Mutation{Name: "archive", RemoveLabels: []string{"INBOX"}}
}

// Result reports the terminal outcome of a mutation job. Aborted means the
// consecutive-failure ceiling was hit at the minimum batch size; the partial
// processed count is still valid. A Result is always returned: transient
// gateway faults never escape the mutator.
type Result struct {
	Processed int
	Total     int
	Aborted   bool
}

// Complete reports whether every ref was processed.
func (r Result) Complete() bool {
	return r.Processed == r.Total
}

// Mutator applies a bulk label mutation to an arbitrarily large ref list,
// resizing batches based on observed call outcomes.
type Mutator struct {
	gw      Modifier
	sizing  Sizing
	log     logging.Logger
	metrics *instrumentation.Metrics
}

// NewMutator creates a Mutator over the given modifier.
func NewMutator(gw Modifier, sizing Sizing, log logging.Logger) *Mutator {
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Mutator{gw: gw, sizing: sizing, log: log}
}

// SetMetrics attaches a metrics recorder. Safe to leave unset.
func (m *Mutator) SetMetrics(metrics *instrumentation.Metrics) {
	m.metrics = metrics
}

// Run applies the mutation to every ref, batching sequentially so each
// call's outcome can size the next batch. Batches are never issued in
// parallel; the gateway's rate limits are the reason the sizing adapts at
// all.
//
// The job ends either complete or aborted; a cancelled context also stops it
// between batches. Interrupting a job mid-way leaves some refs mutated and
// some not, which is safe because the mutation is idempotent and callers
// re-derive their input from a fresh search before retrying.
func (m *Mutator) Run(ctx context.Context, refs []string, mut Mutation) Result {
	total := len(refs)
	st := NewState(m.sizing)

	for st.Processed < total && !st.Aborted {
		if ctx.Err() != nil {
			m.log.Warn("mutation job cancelled",
				logging.KeyMutation, mut.Name,
				logging.KeyProcessed, st.Processed,
				logging.KeyTotal, total,
			)
			break
		}

		end := st.Processed + st.BatchSize
		if end > total {
			end = total
		}
		batch := refs[st.Processed:end]

		err := m.gw.BatchModify(batch, mut.AddLabels, mut.RemoveLabels)
		if m.metrics != nil {
			m.metrics.RecordSweepBatch(ctx, mut.Name, len(batch), err)
		}

		prev := st.BatchSize
		st = m.sizing.Step(st, len(batch), err != nil)

		if err != nil {
			m.log.Warn("batch failed, shrinking",
				logging.KeyMutation, mut.Name,
				"failed_batch_size", prev,
				logging.KeyBatchSize, st.BatchSize,
				logging.KeyError, err.Error(),
			)
			continue
		}

		m.log.Debug("batch applied",
			logging.KeyMutation, mut.Name,
			logging.KeyBatchSize, st.BatchSize,
			logging.KeyProcessed, st.Processed,
			logging.KeyTotal, total,
		)
	}

	res := Result{Processed: st.Processed, Total: total, Aborted: st.Aborted}
	if st.Aborted {
		m.log.Error("too many failures at minimum batch size, giving up",
			logging.KeyMutation, mut.Name,
			logging.KeyProcessed, res.Processed,
			logging.KeyTotal, res.Total,
		)
	} else {
		m.log.Info("mutation job finished",
			logging.KeyMutation, mut.Name,
			logging.KeyProcessed, res.Processed,
			logging.KeyTotal, res.Total,
		)
	}
	if m.metrics != nil {
		m.metrics.RecordSweepResult(ctx, mut.Name, res.Processed, res.Aborted)
	}
	return res
}
