package room

import "errors"

var ErrRoomNotFound = errors.New("room not found")

// Stats are the process-wide telemetry counters.
type Stats struct {
	Users int64 `json:"users"`
	Rooms int64 `json:"rooms"`
}
