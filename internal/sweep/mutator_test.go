package sweep

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModifier scripts call outcomes by call index and records every batch it
// was handed.
type fakeModifier struct {
	batches  [][]string
	failCall func(call int) bool
}

func (f *fakeModifier) BatchModify(ids []string, addLabels, removeLabels []string) error {
	call := len(f.batches)
	f.batches = append(f.batches, append([]string(nil), ids...))
	if f.failCall != nil && f.failCall(call) {
		return errors.New("rate limited")
	}
	return nil
}

func refs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("msg-%04d", i)
	}
	return out
}

func TestMutatorProcessesAllRefs(t *testing.T) {
	gw := &fakeModifier{}
	m := NewMutator(gw, DefaultSizing(), nil)

	res := m.Run(context.Background(), refs(1800), TrashMutation())

	assert.True(t, res.Complete())
	assert.False(t, res.Aborted)
	assert.Equal(t, 1800, res.Processed)

	// 500, 500, 500 then doubled to 1000 but only 300 remain.
	require.Len(t, gw.batches, 4)
	assert.Len(t, gw.batches[0], 500)
	assert.Len(t, gw.batches[1], 500)
	assert.Len(t, gw.batches[2], 500)
	assert.Len(t, gw.batches[3], 300)
}

func TestMutatorNeverSendsRefTwiceOnSuccess(t *testing.T) {
	gw := &fakeModifier{}
	m := NewMutator(gw, DefaultSizing(), nil)

	m.Run(context.Background(), refs(1234), TrashMutation())

	seen := map[string]int{}
	for _, b := range gw.batches {
		for _, id := range b {
			seen[id]++
		}
	}
	assert.Len(t, seen, 1234)
	for id, n := range seen {
		assert.Equal(t, 1, n, "ref %s", id)
	}
}

func TestMutatorRetriesFailedBatchAtSmallerSize(t *testing.T) {
	gw := &fakeModifier{failCall: func(call int) bool { return call == 0 }}
	m := NewMutator(gw, DefaultSizing(), nil)

	res := m.Run(context.Background(), refs(600), TrashMutation())

	assert.True(t, res.Complete())
	require.GreaterOrEqual(t, len(gw.batches), 3)
	assert.Len(t, gw.batches[0], 500)
	// The retry starts over at the same offset with the halved size.
	assert.Len(t, gw.batches[1], 250)
	assert.Equal(t, gw.batches[0][0], gw.batches[1][0])
}

func TestMutatorAbortsAfterPersistentFailure(t *testing.T) {
	gw := &fakeModifier{failCall: func(call int) bool { return true }}
	m := NewMutator(gw, DefaultSizing(), nil)

	res := m.Run(context.Background(), refs(600), TrashMutation())

	assert.True(t, res.Aborted)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 600, res.Total)
	// 500 fails, then retries at 250, 125, 62, 50; the job gives up there.
	assert.Len(t, gw.batches, 4)
}

func TestMutatorPartialProgressBeforeAbort(t *testing.T) {
	gw := &fakeModifier{failCall: func(call int) bool { return call >= 1 }}
	m := NewMutator(gw, DefaultSizing(), nil)

	res := m.Run(context.Background(), refs(900), TrashMutation())

	assert.True(t, res.Aborted)
	assert.False(t, res.Complete())
	assert.Equal(t, 500, res.Processed)
}

func TestMutatorSendsMutationLabels(t *testing.T) {
	var gotAdd, gotRemove []string
	gw := &fakeModifier{}
	m := NewMutator(modifierFunc(func(ids []string, add, remove []string) error {
		gotAdd, gotRemove = add, remove
		return gw.BatchModify(ids, add, remove)
	}), DefaultSizing(), nil)

	m.Run(context.Background(), refs(10), TrashMutation())
	assert.Equal(t, []string{"TRASH"}, gotAdd)
	assert.Empty(t, gotRemove)

	m.Run(context.Background(), refs(10), ArchiveMutation())
	assert.Empty(t, gotAdd)
	assert.Equal(t, []string{"INBOX"}, gotRemove)
}

type modifierFunc func(ids []string, addLabels, removeLabels []string) error

func (f modifierFunc) BatchModify(ids []string, addLabels, removeLabels []string) error {
	return f(ids, addLabels, removeLabels)
}

func TestMutatorEmptyInput(t *testing.T) {
	gw := &fakeModifier{}
	m := NewMutator(gw, DefaultSizing(), nil)

	res := m.Run(context.Background(), nil, TrashMutation())

	assert.True(t, res.Complete())
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, gw.batches)
}

func TestMutatorStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gw := &fakeModifier{}
	m := NewMutator(modifierFunc(func(ids []string, add, remove []string) error {
		cancel()
		return gw.BatchModify(ids, add, remove)
	}), DefaultSizing(), nil)

	res := m.Run(ctx, refs(1800), TrashMutation())

	assert.False(t, res.Complete())
	assert.False(t, res.Aborted)
	assert.Equal(t, 500, res.Processed)
	assert.Len(t, gw.batches, 1)
}
