package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_AccrueAndRemaining(t *testing.T) {
	tr := NewTracker(1.0)

	assert.Equal(t, 0.0, tr.Accrued())
	assert.Equal(t, 1.0, tr.Remaining())

	tr.Accrue(0.25)
	tr.Accrue(0.25)
	assert.Equal(t, 0.5, tr.Accrued())
	assert.Equal(t, 0.5, tr.Remaining())
	assert.False(t, tr.Exceeded())
}

func TestTracker_NegativeCostIgnored(t *testing.T) {
	tr := NewTracker(1.0)
	tr.Accrue(0.5)
	tr.Accrue(-0.3)
	assert.Equal(t, 0.5, tr.Accrued())
}

func TestTracker_WarningFiresOnceAtEightyPercent(t *testing.T) {
	tr := NewTracker(1.0)

	tr.Accrue(0.79)
	assert.False(t, tr.ShouldWarn())

	tr.Accrue(0.01)
	assert.True(t, tr.ShouldWarn(), "warning due at exactly 80%")

	tr.MarkWarningSent()
	assert.False(t, tr.ShouldWarn())

	tr.Accrue(0.1)
	assert.False(t, tr.ShouldWarn(), "warning must fire at most once")
}

func TestTracker_Exceeded(t *testing.T) {
	tr := NewTracker(0.5)

	tr.Accrue(0.49)
	assert.False(t, tr.Exceeded())

	tr.Accrue(0.01)
	assert.True(t, tr.Exceeded(), "exceeded at exactly the limit")
	assert.Equal(t, 0.0, tr.Remaining())
}

func TestTracker_OverageAllowedByInFlightCall(t *testing.T) {
	// A single in-flight call may push accrued past the limit; the tracker
	// records the real spend rather than clamping it.
	tr := NewTracker(0.001)
	tr.Accrue(0.01)

	assert.True(t, tr.Exceeded())
	assert.Equal(t, 0.01, tr.Accrued())
	assert.Equal(t, 0.0, tr.Remaining())
}

func TestTracker_ZeroLimit(t *testing.T) {
	tr := NewTracker(0)
	tr.Accrue(0.0001)
	assert.True(t, tr.Exceeded())
}
