package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
)

type SendMessageParams struct {
	RoomID   string
	SocketID string
	Content  string
	Kind     domain.MessageKind
	GifURL   string
}

type SendMessageResponse struct {
	Message domain.ChatMessage
	Conns   []*websocket.Conn
}

// SendMessage appends a chat message and returns it for a targeted
// messageReceived push. A message must carry text content or a gif.
func (s *service) SendMessage(ctx context.Context, params *SendMessageParams) (SendMessageResponse, error) {
	if params.Content == "" && params.GifURL == "" {
		return SendMessageResponse{}, fmt.Errorf("message has no content")
	}

	var message domain.ChatMessage
	_, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		user := state.UserBySocketID(params.SocketID)
		if user == nil {
			return ErrUserNotFound
		}

		message = domain.NewChatMessage(user.UID, user.Name, user.Avatar, params.Content, params.Kind, params.GifURL)
		state.ChatState.Append(message)

		return nil
	})
	if err != nil {
		return SendMessageResponse{}, err
	}

	return SendMessageResponse{
		Message: message,
		Conns:   s.connRepo.GetRoomConns(params.RoomID),
	}, nil
}

// FetchChatHistory returns the chat state for a single requesting connection.
func (s *service) FetchChatHistory(ctx context.Context, roomID string) (domain.ChatState, error) {
	state, err := s.Fetch(ctx, roomID)
	if err != nil {
		return domain.ChatState{}, err
	}

	return state.ChatState, nil
}

type MessageReactionParams struct {
	RoomID    string
	SocketID  string
	MessageID string
	Emoji     string
}

type MessageReactionResponse struct {
	MessageID string
	Message   domain.ChatMessage
	Conns     []*websocket.Conn
}

func (s *service) AddMessageReaction(ctx context.Context, params *MessageReactionParams) (MessageReactionResponse, error) {
	return s.mutateMessageReaction(ctx, params, func(message *domain.ChatMessage, uid string) {
		message.AddReaction(params.Emoji, uid)
	})
}

func (s *service) RemoveMessageReaction(ctx context.Context, params *MessageReactionParams) (MessageReactionResponse, error) {
	return s.mutateMessageReaction(ctx, params, func(message *domain.ChatMessage, uid string) {
		message.RemoveReaction(params.Emoji, uid)
	})
}

func (s *service) mutateMessageReaction(ctx context.Context, params *MessageReactionParams, mutate func(*domain.ChatMessage, string)) (MessageReactionResponse, error) {
	var updated domain.ChatMessage
	_, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		user := state.UserBySocketID(params.SocketID)
		if user == nil {
			return ErrUserNotFound
		}

		message := state.ChatState.MessageByID(params.MessageID)
		if message == nil {
			return ErrMessageNotFound
		}

		mutate(message, user.UID)
		state.ChatState.Touch()
		updated = *message

		return nil
	})
	if err != nil {
		return MessageReactionResponse{}, err
	}

	return MessageReactionResponse{
		MessageID: params.MessageID,
		Message:   updated,
		Conns:     s.connRepo.GetRoomConns(params.RoomID),
	}, nil
}

type TranslateMessageParams struct {
	RoomID         string
	MessageID      string
	TargetLanguage string
}

type TranslateMessageResponse struct {
	MessageID    string
	Translations map[string]string
	Conns        []*websocket.Conn
}

// TranslateMessage resolves a translation through the external service and
// merges the result into the message. The outbound call runs outside the room
// lock; the result is applied to a re-read snapshot so concurrent chat
// mutations are never clobbered. A failed call stores a visible error
// sentinel so the requested language always gets a terminal response.
func (s *service) TranslateMessage(ctx context.Context, params *TranslateMessageParams) (TranslateMessageResponse, error) {
	state, err := s.Fetch(ctx, params.RoomID)
	if err != nil {
		return TranslateMessageResponse{}, err
	}

	message := state.ChatState.MessageByID(params.MessageID)
	if message == nil {
		return TranslateMessageResponse{}, ErrMessageNotFound
	}

	translated, err := s.translator.Translate(ctx, message.Content, params.TargetLanguage)
	if err != nil {
		s.logger.Warn("translation failed", "roomId", params.RoomID, "messageId", params.MessageID, "error", err)
		translated = fmt.Sprintf("[Error: %s]", err)
	}

	var translations map[string]string
	_, err = s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		message := state.ChatState.MessageByID(params.MessageID)
		if message == nil {
			return ErrMessageNotFound
		}

		message.ApplyTranslation(params.TargetLanguage, translated)
		state.ChatState.Touch()
		translations = message.Translations

		return nil
	})
	if err != nil {
		return TranslateMessageResponse{}, err
	}

	return TranslateMessageResponse{
		MessageID:    params.MessageID,
		Translations: translations,
		Conns:        s.connRepo.GetRoomConns(params.RoomID),
	}, nil
}

type SendReactionParams struct {
	RoomID   string
	SocketID string
	Type     domain.ReactionType
}

type SendReactionResponse struct {
	Reaction domain.Reaction
	Conns    []*websocket.Conn
}

// SendReaction builds an ephemeral overlay reaction. It is fanned out and
// never stored.
func (s *service) SendReaction(ctx context.Context, params *SendReactionParams) (SendReactionResponse, error) {
	state, err := s.Fetch(ctx, params.RoomID)
	if err != nil {
		return SendReactionResponse{}, err
	}

	user := state.UserBySocketID(params.SocketID)
	if user == nil {
		return SendReactionResponse{}, ErrUserNotFound
	}

	return SendReactionResponse{
		Reaction: domain.NewReaction(user.UID, user.Name, params.Type),
		Conns:    s.connRepo.GetRoomConns(params.RoomID),
	}, nil
}

type SetTypingParams struct {
	RoomID   string
	SocketID string
	IsTyping bool
}

type SetTypingResponse struct {
	UserID   string
	UserName string
	IsTyping bool
	Conns    []*websocket.Conn
}

// SetTyping records the ephemeral typing flag and reports who is typing for
// the userTyping push.
func (s *service) SetTyping(ctx context.Context, params *SetTypingParams) (SetTypingResponse, error) {
	var user domain.UserState
	_, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		u := state.UserBySocketID(params.SocketID)
		if u == nil {
			return ErrUserNotFound
		}

		if state.ChatState.IsTyping == nil {
			state.ChatState.IsTyping = map[string]bool{}
		}
		state.ChatState.IsTyping[u.UID] = params.IsTyping
		user = *u

		return nil
	})
	if err != nil {
		return SetTypingResponse{}, err
	}

	return SetTypingResponse{
		UserID:   user.UID,
		UserName: user.Name,
		IsTyping: params.IsTyping,
		Conns:    s.connRepo.GetRoomConns(params.RoomID),
	}, nil
}
