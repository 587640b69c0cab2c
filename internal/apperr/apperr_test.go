package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("load candidates: %w", Backend("fetch", context.DeadlineExceeded))
	require.True(t, Is(err, KindBackend))
	require.False(t, Is(err, KindNotFound))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNilHelpers(t *testing.T) {
	assert.NoError(t, Backend("x", nil))
	assert.NoError(t, Resolution("x", nil))
	assert.NoError(t, Validation("x", nil))
	assert.False(t, Is(nil, KindBackend))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestValidationMessageIsStable(t *testing.T) {
	err := Validation("create candidate", map[string]string{
		"last_name":  "is required",
		"email":      "is not a valid address",
		"first_name": "is required",
	})
	require.EqualError(t, err, "create candidate: validation failure (email is not a valid address, first_name is required, last_name is required)")
	require.Len(t, FieldErrors(err), 3)
	require.Nil(t, FieldErrors(NotFound("open", "c-1")))
}
