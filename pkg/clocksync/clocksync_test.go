package clocksync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetTime(t *testing.T) {
	// paused playback holds at the anchored progress no matter how much wall
	// clock passes
	assert.Equal(t, 42.0, TargetTime(42, 1000, 2000, 5, true, 1))

	// right after a seek the anchor equals server-now, so the target is the
	// anchored progress itself
	assert.Equal(t, 42.0, TargetTime(42, 1005, 1000, 5, false, 1))

	// 10 server seconds after the anchor at normal rate
	assert.InDelta(t, 52.0, TargetTime(42, 1000, 1005, 5, false, 1), 1e-9)

	// elapsed time scales with the playback rate
	assert.InDelta(t, 62.0, TargetTime(42, 1000, 1005, 5, false, 2), 1e-9)
	assert.InDelta(t, 47.0, TargetTime(42, 1000, 1005, 5, false, 0.5), 1e-9)

	// a client whose clock runs ahead of the server compensates with a
	// negative offset
	assert.InDelta(t, 52.0, TargetTime(42, 1000, 1013, -3, false, 1), 1e-9)
}

func TestInSync(t *testing.T) {
	// target is 52 in all cases below
	assert.True(t, InSync(52, 42, 1000, 1005, 5, false, 1, 2))
	assert.True(t, InSync(53.9, 42, 1000, 1005, 5, false, 1, 2))
	assert.False(t, InSync(54.1, 42, 1000, 1005, 5, false, 1, 2))
	assert.True(t, InSync(50.1, 42, 1000, 1005, 5, false, 1, 2))
	assert.False(t, InSync(49.9, 42, 1000, 1005, 5, false, 1, 2))
}

func TestInSyncToleranceScalesWithRate(t *testing.T) {
	// at rate 2 the target is 62 and the tolerance widens to 4 seconds
	assert.True(t, InSync(65.9, 42, 1000, 1005, 5, false, 2, 2))
	assert.False(t, InSync(66.1, 42, 1000, 1005, 5, false, 2, 2))

	// slow rates keep the base tolerance
	assert.True(t, InSync(48.9, 42, 1000, 1005, 5, false, 0.5, 2))
	assert.False(t, InSync(49.1, 42, 1000, 1005, 5, false, 0.5, 2))
}

func TestInSyncPaused(t *testing.T) {
	assert.True(t, InSync(42.5, 42, 1000, 9999, 5, true, 1, 2))
	assert.False(t, InSync(50, 42, 1000, 9999, 5, true, 1, 2))
}
