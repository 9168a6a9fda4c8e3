package errors_test

import (
	"fmt"
	"testing"

	"github.com/lessonforge/lessonforge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorIncludesWrapped(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := errors.NewInternalError(inner)

	assert.Equal(t, "INTERNAL_ERROR: internal server error (disk full)", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestNewLockedError(t *testing.T) {
	err := errors.NewLockedError("lesson", 7, "/modules/3")

	assert.Equal(t, errors.ErrCodeLocked, err.Code)
	assert.Equal(t, 403, err.Status)
	assert.Equal(t, "/modules/3", err.Redirect)
	assert.Contains(t, err.Error(), "lesson is locked: 7")
}

func TestAs_WrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("start quiz: %w", errors.NewNotFoundError("lesson", 9))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.True(t, errors.HasCode(wrapped, errors.ErrCodeNotFound))
	assert.False(t, errors.HasCode(wrapped, errors.ErrCodeLocked))
}

func TestAs_PlainError(t *testing.T) {
	_, ok := errors.As(fmt.Errorf("boom"))
	assert.False(t, ok)
}
