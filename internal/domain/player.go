package domain

type Subtitle struct {
	Src  string `json:"src"`
	Lang string `json:"lang"`
}

type MediaOption struct {
	Src        string `json:"src"`
	Resolution string `json:"resolution"`
}

type MediaElement struct {
	Title string        `json:"title,omitempty"`
	Src   []MediaOption `json:"src"`
	Sub   []Subtitle    `json:"sub"`
}

type Playlist struct {
	Items []MediaElement `json:"items"`
	// CurrentIndex is -1 when the playing media was not selected from the
	// queue.
	CurrentIndex int `json:"currentIndex"`
}

// TargetState is the authoritative playback intent of a room. Progress is
// only valid as of LastSync; the current position while unpaused must be
// derived with pkg/clocksync, never read directly.
type TargetState struct {
	Playlist     Playlist     `json:"playlist"`
	Playing      MediaElement `json:"playing"`
	Paused       bool         `json:"paused"`
	Progress     float64      `json:"progress"`
	PlaybackRate float64      `json:"playbackRate"`
	Loop         bool         `json:"loop"`
	// LastSync is epoch seconds at which Progress was last known accurate.
	LastSync float64 `json:"lastSync"`
}

// PlayerState is a user's last reported local playback snapshot. It is
// informational only and never authoritative.
type PlayerState struct {
	TargetState
	CurrentSrc MediaOption `json:"currentSrc"`
	CurrentSub Subtitle    `json:"currentSub"`
	Volume     float64     `json:"volume"`
	Muted      bool        `json:"muted"`
	Fullscreen bool        `json:"fullscreen"`
	Duration   float64     `json:"duration"`
}

type Command string

const (
	CommandPlay         Command = "play"
	CommandPause        Command = "pause"
	CommandSeek         Command = "seek"
	CommandPlaybackRate Command = "playbackRate"
	CommandPlaySrc      Command = "playSrc"
)

type CommandLog struct {
	Command Command `json:"command"`
	UserID  string  `json:"userId"`
	Target  any     `json:"target,omitempty"`
	// Time is epoch milliseconds.
	Time int64 `json:"time"`
}
