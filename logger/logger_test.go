package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix int
		suffix int
		want   string
	}{
		{"empty", "", 2, 2, ""},
		{"short string fully masked", "abc", 2, 2, "***"},
		{"long string", "abcdefghijkl", 2, 3, "ab...jkl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskSensitiveString(tt.input, tt.prefix, tt.suffix))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "...cdef", MaskAPIKey("0123456789abcdef"))
	assert.NotContains(t, MaskAPIKey("0123456789abcdef"), "0123")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := GetLogger()
	assert.Same(t, l, OrNop(l))
}
