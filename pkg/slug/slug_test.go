package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := map[string]string{
		"Dr. Smith / Dental Care": "dr-smith-dental-care",
		"  Main   Office  ":       "main-office",
		"AB":                      "ab-cal",
		"!!!":                     "calendar",
		"Room 42":                 "room-42",
	}

	for in, want := range tests {
		got := Make(in)
		assert.Equal(t, want, got, in)
		assert.True(t, Valid(got), got)
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "clinic", WithSuffix("clinic", 1))
	assert.Equal(t, "clinic-3", WithSuffix("clinic", 3))
}

func TestValid(t *testing.T) {
	assert.False(t, Valid("ab"))
	assert.False(t, Valid("Clinic"))
	assert.False(t, Valid("clinic_1"))
	assert.True(t, Valid("clinic-1"))
}
