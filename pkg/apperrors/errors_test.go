package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("thread not found")))
	assert.Equal(t, CodeForbidden, CodeOf(Forbidden("nope")))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading thread: %w", NotFound("thread not found"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
}

func TestUpstreamFailureWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := UpstreamFailure("gateway unreachable", cause)

	assert.Equal(t, CodeUpstreamFailure, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gateway unreachable")
	assert.Contains(t, err.Error(), "connection reset")
}
