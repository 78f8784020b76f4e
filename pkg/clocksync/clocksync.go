// Package clocksync derives the current playback position of a room from the
// broadcast anchor pair (progress, lastSync) and a one-time clock offset,
// instead of trusting continuously-reported progress values.
package clocksync

import "math"

// TargetTime returns the playback position in seconds that a client whose
// local clock reads localNow should be at. deltaServerTime is the offset
// between the server clock and the local clock in seconds, computed once per
// connection from the first broadcast (serverTime - localNow). Callers that
// have not received a broadcast yet must not call this with a zero offset and
// expect a meaningful result; synchronization is deferred until the offset is
// established.
func TargetTime(targetProgress, lastSync, localNow, deltaServerTime float64, paused bool, playbackRate float64) float64 {
	if paused {
		return targetProgress
	}

	nowServerTime := localNow + deltaServerTime

	return targetProgress + (nowServerTime-lastSync)*playbackRate
}

// InSync reports whether localTime is within tolerance of the derived target
// position. The tolerance widens with the playback rate, since the same wall
// clock error shows up as a proportionally larger position error at higher
// rates.
func InSync(localTime, targetProgress, lastSync, localNow, deltaServerTime float64, paused bool, playbackRate, toleranceSeconds float64) bool {
	target := TargetTime(targetProgress, lastSync, localNow, deltaServerTime, paused, playbackRate)

	tolerance := toleranceSeconds
	if playbackRate > 1 {
		tolerance *= playbackRate
	}

	return math.Abs(localTime-target) <= tolerance
}
