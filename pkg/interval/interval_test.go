package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.October, 19, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "partial overlap", a: New(at(11, 30), at(12, 0)), b: New(at(11, 20), at(11, 40)), want: true},
		{name: "adjacent before", a: New(at(11, 30), at(12, 0)), b: New(at(11, 0), at(11, 30)), want: false},
		{name: "adjacent after", a: New(at(11, 30), at(12, 0)), b: New(at(12, 0), at(12, 30)), want: false},
		{name: "identical", a: New(at(10, 0), at(10, 30)), b: New(at(10, 0), at(10, 30)), want: true},
		{name: "contained", a: New(at(9, 0), at(12, 0)), b: New(at(10, 0), at(10, 30)), want: true},
		{name: "zero length inside", a: New(at(10, 15), at(10, 15)), b: New(at(10, 0), at(10, 30)), want: false},
		{name: "both zero length", a: New(at(10, 0), at(10, 0)), b: New(at(10, 0), at(10, 0)), want: false},
		{name: "disjoint", a: New(at(8, 0), at(9, 0)), b: New(at(10, 0), at(11, 0)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	window := New(at(9, 0), at(12, 0))

	assert.True(t, window.Contains(New(at(9, 0), at(9, 30))))
	assert.True(t, window.Contains(New(at(11, 30), at(12, 0))))
	assert.False(t, window.Contains(New(at(11, 45), at(12, 15))))
	assert.False(t, window.Contains(New(at(10, 0), at(10, 0))))
}

func TestCountOverlapping(t *testing.T) {
	slot := FromDuration(at(10, 0), Minutes(30))
	set := []Interval{
		New(at(9, 30), at(10, 0)),
		New(at(10, 0), at(10, 30)),
		New(at(10, 15), at(11, 0)),
	}

	assert.Equal(t, 2, slot.CountOverlapping(set))
	assert.True(t, slot.AnyOverlaps(set))
	assert.Equal(t, 30*time.Minute, slot.Duration())
}
