package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNoHandler", ErrNoHandler},
		{"ErrMissingMIMEType", ErrMissingMIMEType},
		{"ErrNoFrame", ErrNoFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNoHandler, ErrNotFound))
	assert.False(t, errors.Is(ErrNoFrame, ErrNoHandler))
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("thumbnail for %s: %w", "a1", ErrNoHandler)
	assert.True(t, errors.Is(wrapped, ErrNoHandler))
	assert.Contains(t, wrapped.Error(), "no handler for mime type")
}
