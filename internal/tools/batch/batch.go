package batch

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of one item in a batch tool call.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult aggregates per-item results for a batch tool call.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray parses a tool argument that may be a single string or an
// array of strings. MCP clients send JSON, so arrays arrive as []interface{}.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

// FormatResults renders batch results as indented JSON for the tool response.
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}

// ProcessBatch runs fn for each item and collects per-item results. An item's
// error never stops the rest of the batch.
func ProcessBatch(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))

	for _, id := range ids {
		res, err := fn(id)
		if err != nil {
			results = append(results, NewErrorResult(id, err))
		} else {
			results = append(results, NewSuccessResult(id, res))
		}
	}

	return results
}

// NewSuccessResult creates a success result.
func NewSuccessResult(id, message string) Result {
	return Result{
		ID:     id,
		Status: "success",
		Result: message,
	}
}

// NewErrorResult creates an error result.
func NewErrorResult(id string, err error) Result {
	return Result{
		ID:     id,
		Status: "error",
		Error:  err.Error(),
	}
}
