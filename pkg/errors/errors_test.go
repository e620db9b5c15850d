package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "student S001 not found")
	require.Error(t, err)
	assert.Equal(t, "student S001 not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrInternal.Code, "write export")
	assert.Equal(t, "write export: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestFromErrorNormalises(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := Clonef(ErrInvalidState, "course %s is full", "CS101")
	wrapped := fmt.Errorf("enroll: %w", typed)
	assert.Equal(t, typed, FromError(wrapped))
	assert.Equal(t, "INVALID_STATE", CodeOf(wrapped))

	foreign := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, foreign.Code)
	assert.Equal(t, "", CodeOf(nil))
}
