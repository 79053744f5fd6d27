package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", NotFound("post", "p1"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStorageFailure)

	var ae *Error
	if assert.True(t, errors.As(err, &ae)) {
		assert.Equal(t, "p1", ae.Details["id"])
		assert.Equal(t, "post not found", ae.Message)
	}
}

func TestStorageFailure_UnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota")
	err := StorageFailure("ftc_posts", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.Contains(t, err.Error(), "quota")
}
