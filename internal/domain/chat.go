package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

type MessageKind string

const (
	MessageKindText MessageKind = "text"
	MessageKindRich MessageKind = "rich"
	MessageKindGif  MessageKind = "gif"
)

type MessageReaction struct {
	Emoji string `json:"emoji"`
	// Count always equals len(Users).
	Count int      `json:"count"`
	Users []string `json:"users"`
}

type ChatMessage struct {
	ID string `json:"id"`
	// Sender identity is snapshotted at send time and not updated by later
	// profile edits.
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar"`
	Content    string `json:"content"`
	// RichContent carries the HTML rendering for rich messages.
	RichContent string `json:"richContent,omitempty"`
	// Timestamp is epoch milliseconds.
	Timestamp int64             `json:"timestamp"`
	GifURL    string            `json:"gifUrl,omitempty"`
	Reactions []MessageReaction `json:"reactions"`
	// Translations maps language code to translated text, populated lazily.
	Translations map[string]string `json:"translations,omitempty"`
}

type ChatState struct {
	Messages []ChatMessage `json:"messages"`
	// LastUpdate is epoch milliseconds of the last mutation.
	LastUpdate int64           `json:"lastUpdate"`
	IsTyping   map[string]bool `json:"isTyping"`
}

type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Reaction is an ephemeral overlay reaction. It is broadcast and forgotten,
// never persisted in room state.
type Reaction struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	UserName  string       `json:"userName"`
	Type      ReactionType `json:"type"`
	Timestamp int64        `json:"timestamp"`
	Position  Position     `json:"position"`
}

// NewChatMessage builds a message with a fresh server-side id. The caller
// must have verified that content or gifURL is present.
func NewChatMessage(userID, userName, userAvatar, content string, kind MessageKind, gifURL string) ChatMessage {
	msg := ChatMessage{
		ID:           uuid.NewString(),
		UserID:       userID,
		UserName:     userName,
		UserAvatar:   userAvatar,
		Content:      content,
		Timestamp:    time.Now().UnixMilli(),
		GifURL:       gifURL,
		Reactions:    []MessageReaction{},
		Translations: map[string]string{},
	}
	if kind == MessageKindRich {
		msg.RichContent = content
	}

	return msg
}

// NewReaction builds an overlay reaction at a random position within the
// central 10-90% of the viewport.
func NewReaction(userID, userName string, reactionType ReactionType) Reaction {
	return Reaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  userName,
		Type:      reactionType,
		Timestamp: time.Now().UnixMilli(),
		Position: Position{
			X: rand.Float64()*80 + 10,
			Y: rand.Float64()*80 + 10,
		},
	}
}

func (m *ChatMessage) reactionIndex(emoji string) int {
	return slices.IndexFunc(m.Reactions, func(r MessageReaction) bool {
		return r.Emoji == emoji
	})
}

// AddReaction records that uid reacted with emoji. Re-adding the same emoji
// by the same user is a no-op.
func (m *ChatMessage) AddReaction(emoji, uid string) {
	i := m.reactionIndex(emoji)
	if i == -1 {
		m.Reactions = append(m.Reactions, MessageReaction{
			Emoji: emoji,
			Count: 1,
			Users: []string{uid},
		})
		return
	}

	reaction := &m.Reactions[i]
	if slices.Contains(reaction.Users, uid) {
		return
	}

	reaction.Users = append(reaction.Users, uid)
	reaction.Count = len(reaction.Users)
}

// RemoveReaction removes uid's emoji reaction. Removing a pair that does not
// exist is a no-op; an entry whose last user is removed is deleted so no
// zero-count entries persist.
func (m *ChatMessage) RemoveReaction(emoji, uid string) {
	i := m.reactionIndex(emoji)
	if i == -1 {
		return
	}

	reaction := &m.Reactions[i]
	reaction.Users = slices.DeleteFunc(reaction.Users, func(u string) bool {
		return u == uid
	})
	reaction.Count = len(reaction.Users)

	if reaction.Count == 0 {
		m.Reactions = slices.Delete(m.Reactions, i, i+1)
	}
}

// ApplyTranslation stores text as the translation for languageCode,
// overwriting any prior value. Translations are not versioned.
func (m *ChatMessage) ApplyTranslation(languageCode, text string) {
	if m.Translations == nil {
		m.Translations = map[string]string{}
	}
	m.Translations[languageCode] = text
}

// MessageByID returns the message with the given id, or nil.
func (c *ChatState) MessageByID(id string) *ChatMessage {
	i := slices.IndexFunc(c.Messages, func(m ChatMessage) bool {
		return m.ID == id
	})
	if i == -1 {
		return nil
	}

	return &c.Messages[i]
}

// Append adds a message and refreshes the freshness stamp.
func (c *ChatState) Append(msg ChatMessage) {
	c.Messages = append(c.Messages, msg)
	c.LastUpdate = time.Now().UnixMilli()
}

// Touch refreshes the freshness stamp after an in-place mutation.
func (c *ChatState) Touch() {
	c.LastUpdate = time.Now().UnixMilli()
}
