package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSizing(t *testing.T) {
	z := DefaultSizing()

	assert.Equal(t, 500, z.Initial)
	assert.Equal(t, 50, z.Min)
	assert.Equal(t, 1000, z.Max)
	assert.Equal(t, 3, z.GrowthThreshold)
	assert.Equal(t, 3, z.FailureLimit)
}

func TestStepFailureHalvesBatchSize(t *testing.T) {
	z := DefaultSizing()
	st := NewState(z)

	st = z.Step(st, 500, true)

	assert.Equal(t, 250, st.BatchSize)
	assert.Equal(t, 0, st.Processed)
	assert.Equal(t, 1, st.ConsecFailure)
	assert.False(t, st.Aborted)
}

func TestStepFailureFloorsAtMin(t *testing.T) {
	z := DefaultSizing()
	st := State{BatchSize: 62}

	st = z.Step(st, 62, true)

	assert.Equal(t, 50, st.BatchSize)
	assert.False(t, st.Aborted)
}

func TestStepSuccessGrowsAfterThreshold(t *testing.T) {
	z := DefaultSizing()
	st := NewState(z)

	st = z.Step(st, 500, false)
	st = z.Step(st, 500, false)
	assert.Equal(t, 500, st.BatchSize)

	st = z.Step(st, 500, false)
	assert.Equal(t, 1000, st.BatchSize)
	assert.Equal(t, 1500, st.Processed)
}

func TestStepSuccessCapsAtMax(t *testing.T) {
	z := DefaultSizing()
	st := State{BatchSize: 1000, ConsecSuccess: 5}

	st = z.Step(st, 1000, false)

	assert.Equal(t, 1000, st.BatchSize)
}

func TestStepGrowthCapsMidDouble(t *testing.T) {
	z := Sizing{Initial: 600, Min: 50, Max: 1000, GrowthThreshold: 3, FailureLimit: 3}
	st := State{BatchSize: 600, ConsecSuccess: 2}

	st = z.Step(st, 600, false)

	assert.Equal(t, 1000, st.BatchSize)
}

func TestStepFailureResetsSuccessStreak(t *testing.T) {
	z := DefaultSizing()
	st := State{BatchSize: 500, ConsecSuccess: 2}

	st = z.Step(st, 500, true)

	assert.Equal(t, 0, st.ConsecSuccess)
	assert.Equal(t, 1, st.ConsecFailure)
}

func TestStepSuccessResetsFailureStreak(t *testing.T) {
	z := DefaultSizing()
	st := State{BatchSize: 50, ConsecFailure: 2}

	st = z.Step(st, 50, false)

	assert.Equal(t, 0, st.ConsecFailure)
	assert.Equal(t, 1, st.ConsecSuccess)
}

func TestStepAbortsAfterFailureLimitAtFloor(t *testing.T) {
	// Starting already at the floor, the third consecutive failure aborts.
	z := Sizing{Initial: 50, Min: 50, Max: 1000, GrowthThreshold: 3, FailureLimit: 3}
	st := NewState(z)

	st = z.Step(st, 50, true)
	assert.False(t, st.Aborted)
	st = z.Step(st, 50, true)
	assert.False(t, st.Aborted)
	st = z.Step(st, 50, true)
	assert.True(t, st.Aborted)
}

func TestStepAbortFromInitialSize(t *testing.T) {
	// From the default 500 the size walks 250, 125, 62, 50; the fourth
	// failure is the first one with a streak past the limit at the floor.
	z := DefaultSizing()
	st := NewState(z)

	sizes := []int{250, 125, 62, 50}
	for i, want := range sizes {
		st = z.Step(st, st.BatchSize, true)
		assert.Equal(t, want, st.BatchSize, "after failure %d", i+1)
	}
	assert.True(t, st.Aborted)
	assert.Equal(t, 0, st.Processed)
}

func TestStepInterleavedFailuresNeverAbort(t *testing.T) {
	z := Sizing{Initial: 50, Min: 50, Max: 1000, GrowthThreshold: 3, FailureLimit: 3}
	st := NewState(z)

	for i := 0; i < 10; i++ {
		st = z.Step(st, st.BatchSize, true)
		st = z.Step(st, st.BatchSize, true)
		st = z.Step(st, st.BatchSize, false)
	}

	assert.False(t, st.Aborted)
	assert.Equal(t, 500, st.Processed)
}
