package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeSender(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		want   string
	}{
		{
			name:   "empty sender",
			sender: "",
			want:   "",
		},
		{
			name:   "plain address",
			sender: "alerts@example.com",
		},
		{
			name:   "display name with address",
			sender: "Example Alerts <alerts@example.com>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeSender(tt.sender)
			if tt.sender == "" {
				assert.Empty(t, got)
				return
			}
			assert.True(t, len(got) > len("sender:"))
			assert.Contains(t, got, "sender:")
			assert.NotContains(t, got, "example.com")
		})
	}
}

func TestAnonymizeSenderIsStable(t *testing.T) {
	a := AnonymizeSender("news@example.com")
	b := AnonymizeSender("news@example.com")
	c := AnonymizeSender("other@example.com")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "valid email", email: "user@example.com", want: "example.com"},
		{name: "empty string", email: "", want: ""},
		{name: "no at sign", email: "not-an-email", want: ""},
		{name: "multiple at signs", email: "a@b@c", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomain(tt.email))
		})
	}
}

func TestErrWithNilError(t *testing.T) {
	attr := Err(nil)
	// A nil error must produce an attribute that slog omits from output.
	assert.Equal(t, slog.KindGroup, attr.Value.Kind())
}

func TestErrWithError(t *testing.T) {
	attr := Err(assert.AnError)
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, assert.AnError.Error(), attr.Value.String())
}
