package sweep

// Sizing holds the batch-size policy for an adaptive mutation job. The
// defaults reproduce the production behavior; tests use smaller values.
type Sizing struct {
	// Initial is the batch size a job starts with.
	Initial int

	// Min is the floor below which failures no longer shrink the batch.
	Min int

	// Max is the ceiling above which successes no longer grow the batch.
	Max int

	// GrowthThreshold is the consecutive-success count that doubles the
	// batch size.
	GrowthThreshold int

	// FailureLimit aborts the job once this many consecutive failures
	// occur with the batch size at the floor.
	FailureLimit int
}

// DefaultSizing returns the production batch-size policy: start aggressive at
// 500, shrink to no less than 50, grow to at most 1000.
func DefaultSizing() Sizing {
	return Sizing{
		Initial:         500,
		Min:             50,
		Max:             1000,
		GrowthThreshold: 3,
		FailureLimit:    3,
	}
}

// State is the in-flight state of one adaptive mutation job. It is a plain
// value transitioned by Step; nothing here touches the gateway, which keeps
// the sizing behavior deterministic under test.
type State struct {
	// BatchSize is the size the next batch will be drawn at.
	BatchSize int

	// Processed counts refs the gateway has confirmed mutated. A failed
	// batch does not advance it; those refs are retried at the new size.
	Processed int

	// ConsecSuccess and ConsecFailure track the current streak; each
	// outcome resets the opposite counter.
	ConsecSuccess int
	ConsecFailure int

	// Aborted is terminal: the failure limit was hit at the floor size.
	Aborted bool
}

// NewState returns the starting state for a job under the given sizing.
func NewState(s Sizing) State {
	return State{BatchSize: s.Initial}
}

// Step returns the state after one bulk-call outcome. batchLen is the number
// of refs in the attempted batch; failed reports whether the call faulted.
// Success and failure are judged per call, not per message: a partial in-batch
// fault surfaces as a call-level error and counts as a full-batch failure.
func (z Sizing) Step(s State, batchLen int, failed bool) State {
	if failed {
		s.ConsecFailure++
		s.ConsecSuccess = 0
		s.BatchSize = s.BatchSize / 2
		if s.BatchSize < z.Min {
			s.BatchSize = z.Min
		}
		// The failed refs stay unprocessed and are retried at the
		// reduced size, unless the job has exhausted its failure budget
		// at the floor.
		if s.ConsecFailure >= z.FailureLimit && s.BatchSize == z.Min {
			s.Aborted = true
		}
		return s
	}

	s.Processed += batchLen
	s.ConsecSuccess++
	s.ConsecFailure = 0
	if s.ConsecSuccess >= z.GrowthThreshold && s.BatchSize < z.Max {
		s.BatchSize *= 2
		if s.BatchSize > z.Max {
			s.BatchSize = z.Max
		}
	}
	return s
}
