package batch

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		param   interface{}
		want    []string
		wantErr bool
	}{
		{name: "single string", param: "a@example.com", want: []string{"a@example.com"}},
		{name: "array of strings", param: []interface{}{"a", "b"}, want: []string{"a", "b"}},
		{name: "nil", param: nil, wantErr: true},
		{name: "empty string", param: "", wantErr: true},
		{name: "empty array", param: []interface{}{}, wantErr: true},
		{name: "array with empty element", param: []interface{}{"a", ""}, wantErr: true},
		{name: "array with non-string", param: []interface{}{"a", 7}, wantErr: true},
		{name: "number", param: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.param, "senders")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "senders")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessBatchCollectsAllOutcomes(t *testing.T) {
	results := ProcessBatch([]string{"a", "b", "c"}, func(id string) (string, error) {
		if id == "b" {
			return "", errors.New("boom")
		}
		return "done " + id, nil
	})

	require.Len(t, results, 3)
	assert.Equal(t, "success", results[0].Status)
	assert.Equal(t, "error", results[1].Status)
	assert.Equal(t, "boom", results[1].Error)
	assert.Equal(t, "success", results[2].Status)
	assert.Equal(t, "done c", results[2].Result)
}

func TestFormatResultsCounts(t *testing.T) {
	out := FormatResults([]Result{
		NewSuccessResult("a", "ok"),
		NewErrorResult("b", errors.New("boom")),
		NewSuccessResult("c", "ok"),
	})

	var br BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &br))
	assert.Equal(t, 3, br.Total)
	assert.Equal(t, 2, br.Successful)
	assert.Equal(t, 1, br.Failed)
	require.Len(t, br.Results, 3)
	assert.Equal(t, "b", br.Results[1].ID)
}
