package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorKinds(t *testing.T) {
	err := NewValidationError("capacity out of range: %d", 7)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "capacity out of range: 7")

	assert.True(t, IsKind(NewCapacityExceededError("full"), KindCapacityExceeded))
	assert.True(t, IsKind(NewNotFoundError("gone"), KindNotFound))
	assert.True(t, IsKind(NewConflictError("taken"), KindConflict))
	assert.True(t, IsKind(NewInvalidStateError("too late"), KindInvalidState))
}

func TestInvalidRefundIsInvalidState(t *testing.T) {
	err := NewInvalidRefundError(2500, 2000)
	assert.True(t, IsKind(err, KindInvalidState))
	assert.Contains(t, err.Error(), "invalid refund")
	assert.Contains(t, err.Error(), "2500.00")
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := Wrap(KindNotFound, "lookup failed", cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "lookup failed")

	// Wrapped AppErrors keep their kind visible through fmt wrapping.
	outer := fmt.Errorf("handler: %w", err)
	assert.True(t, IsKind(outer, KindNotFound))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindValidation))
}
