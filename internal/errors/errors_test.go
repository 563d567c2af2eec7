package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		code     string
		category Category
	}{
		{ErrCodeEmptyQuery, CategoryQuery},
		{ErrCodeSearchUnavailable, CategoryExecution},
		{ErrCodeIndexPersist, CategoryLifecycle},
		{ErrCodeCache, CategoryCache},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "msg", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestSearchError_IsMatchesByCode(t *testing.T) {
	err := New(ErrCodeSearchUnavailable, "search unavailable", nil)
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, stderrors.Is(wrapped, New(ErrCodeSearchUnavailable, "", nil)))
	assert.False(t, stderrors.Is(wrapped, New(ErrCodeCache, "", nil)))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeIndexPersist, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, err.Retryable)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeCache, nil))
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("wrap: %w", New(ErrCodeIndexRebuild, "rebuild failed", nil))
	assert.Equal(t, ErrCodeIndexRebuild, CodeOf(err))
	assert.Equal(t, "", CodeOf(stderrors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeLexicalFailed, "", nil)))
	assert.False(t, IsRetryable(New(ErrCodeEmptyQuery, "", nil)))
	assert.False(t, IsRetryable(stderrors.New("plain")))
}
