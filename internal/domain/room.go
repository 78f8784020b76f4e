package domain

import (
	"time"

	"golang.org/x/exp/slices"
)

// historyLimit caps commandHistory; the log is an audit aid, not durable
// state.
const historyLimit = 100

type UserState struct {
	// UID is the user's stable identity, distinct from any connection id.
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	// SocketIDs lists the live connection ids representing this user, in
	// attach order. Multiple entries mean multiple tabs.
	SocketIDs []string    `json:"socketIds"`
	Player    PlayerState `json:"player"`
}

type RoomState struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	// ServerTime is stamped in epoch milliseconds at broadcast time.
	ServerTime     int64        `json:"serverTime"`
	Users          []UserState  `json:"users"`
	TargetState    TargetState  `json:"targetState"`
	CommandHistory []CommandLog `json:"commandHistory"`
	ChatState      ChatState    `json:"chatState"`
}

// NewRoomState returns the initial state of a room: the configured
// placeholder media playing unpaused at rate 1, an empty playlist not in use,
// and empty chat state.
func NewRoomState(id, defaultVideoURL string) *RoomState {
	now := time.Now()

	return &RoomState{
		ID: id,
		TargetState: TargetState{
			Playing: MediaElement{
				Src: []MediaOption{{Src: defaultVideoURL}},
				Sub: []Subtitle{},
			},
			Playlist: Playlist{
				Items:        []MediaElement{},
				CurrentIndex: -1,
			},
			Paused:       false,
			Progress:     0,
			PlaybackRate: 1,
			LastSync:     float64(now.UnixMilli()) / 1000,
		},
		Users:          []UserState{},
		CommandHistory: []CommandLog{},
		ChatState: ChatState{
			Messages:   []ChatMessage{},
			IsTyping:   map[string]bool{},
			LastUpdate: now.UnixMilli(),
		},
	}
}

func NewUserState(uid, socketID, name string) UserState {
	return UserState{
		UID:       uid,
		Name:      name,
		SocketIDs: []string{socketID},
		Player: PlayerState{
			TargetState: TargetState{
				Playlist: Playlist{
					Items:        []MediaElement{},
					CurrentIndex: -1,
				},
				PlaybackRate: 1,
			},
			Volume: 1,
		},
	}
}

func (r *RoomState) UserByUID(uid string) *UserState {
	i := slices.IndexFunc(r.Users, func(u UserState) bool {
		return u.UID == uid
	})
	if i == -1 {
		return nil
	}

	return &r.Users[i]
}

func (r *RoomState) UserBySocketID(socketID string) *UserState {
	i := slices.IndexFunc(r.Users, func(u UserState) bool {
		return slices.Contains(u.SocketIDs, socketID)
	})
	if i == -1 {
		return nil
	}

	return &r.Users[i]
}

// RemoveSocket drops socketID from its user, removing the user entirely when
// it was their last connection. It returns the affected uid and whether the
// user was removed.
func (r *RoomState) RemoveSocket(socketID string) (uid string, userRemoved bool) {
	user := r.UserBySocketID(socketID)
	if user == nil {
		return "", false
	}

	uid = user.UID
	user.SocketIDs = slices.DeleteFunc(user.SocketIDs, func(id string) bool {
		return id == socketID
	})
	if len(user.SocketIDs) > 0 {
		return uid, false
	}

	r.Users = slices.DeleteFunc(r.Users, func(u UserState) bool {
		return u.UID == uid
	})

	return uid, true
}

// StampSync anchors Progress to the current wall clock. Must be called on
// every mutation that changes playback semantics.
func (r *RoomState) StampSync() {
	r.TargetState.LastSync = float64(time.Now().UnixMilli()) / 1000
}

// AppendCommand records a playback command in the capped audit log.
func (r *RoomState) AppendCommand(cmd Command, userID string, target any) {
	r.CommandHistory = append(r.CommandHistory, CommandLog{
		Command: cmd,
		UserID:  userID,
		Target:  target,
		Time:    time.Now().UnixMilli(),
	})
	if len(r.CommandHistory) > historyLimit {
		r.CommandHistory = r.CommandHistory[len(r.CommandHistory)-historyLimit:]
	}
}
