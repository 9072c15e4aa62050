package pgerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	serialization := fmt.Errorf("wrapped: %w", &pq.Error{Code: CodeSerializationFailure})
	unique := &pq.Error{Code: CodeUniqueViolation}

	assert.True(t, IsConcurrentWriteConflict(serialization))
	assert.False(t, IsConcurrentWriteConflict(unique))
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.Equal(t, "", Code(nil))
}
