package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoProgressUpdatePosition(t *testing.T) {
	p := &VideoProgress{}

	p.UpdatePosition(450, 1000)
	assert.Equal(t, float64(450), p.PositionSeconds)
	assert.False(t, p.Completed)
	assert.InDelta(t, 45.0, p.Percentage(), 0.01)

	p.UpdatePosition(950, 1000)
	assert.True(t, p.Completed)

	// Exactly at the threshold counts as finished
	p.UpdatePosition(900, 1000)
	assert.True(t, p.Completed)
}

func TestVideoProgressPercentageBounds(t *testing.T) {
	p := &VideoProgress{PositionSeconds: 10, DurationSeconds: 0}
	assert.Equal(t, float64(0), p.Percentage())

	p = &VideoProgress{PositionSeconds: 2000, DurationSeconds: 1000}
	assert.Equal(t, float64(100), p.Percentage())
}

func TestVideoProgressShouldResume(t *testing.T) {
	assert.False(t, (&VideoProgress{PositionSeconds: 10}).ShouldResume())
	assert.True(t, (&VideoProgress{PositionSeconds: 120}).ShouldResume())
	assert.False(t, (&VideoProgress{PositionSeconds: 120, Completed: true}).ShouldResume())
}
