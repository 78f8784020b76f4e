package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
	"github.com/syncwatch/server/internal/service/room"
)

type sendMessageInput struct {
	Content string             `json:"content" validate:"max=2000"`
	Kind    domain.MessageKind `json:"kind"`
	GifURL  string             `json:"gifUrl" validate:"omitempty,url"`
}

func (c controller) handleSendMessage(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[sendMessageInput](c, payload)
	if err != nil {
		return err
	}

	sendMessageResp, err := c.roomService.SendMessage(ctx, &room.SendMessageParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		Content:  input.Content,
		Kind:     input.Kind,
		GifURL:   input.GifURL,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.broadcast(ctx, sendMessageResp.Conns, &Output{
		Type:    "messageReceived",
		Payload: sendMessageResp.Message,
	})

	return nil
}

func (c controller) handleFetchChatHistory(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	chatState, err := c.roomService.FetchChatHistory(ctx, c.getRoomIDFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch chat history: %w", err)
	}

	return c.writeToConn(ctx, conn, &Output{
		Type:    "chatUpdate",
		Payload: chatState,
	})
}

type messageReactionInput struct {
	MessageID string `json:"messageId" validate:"required"`
	Emoji     string `json:"emoji" validate:"required,max=16"`
}

func (c controller) handleAddMessageReaction(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	return c.mutateMessageReaction(ctx, payload, c.roomService.AddMessageReaction)
}

func (c controller) handleRemoveMessageReaction(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	return c.mutateMessageReaction(ctx, payload, c.roomService.RemoveMessageReaction)
}

func (c controller) mutateMessageReaction(
	ctx context.Context,
	payload json.RawMessage,
	mutate func(context.Context, *room.MessageReactionParams) (room.MessageReactionResponse, error),
) error {
	input, err := decode[messageReactionInput](c, payload)
	if err != nil {
		return err
	}

	reactionResp, err := mutate(ctx, &room.MessageReactionParams{
		RoomID:    c.getRoomIDFromCtx(ctx),
		SocketID:  c.getSocketIDFromCtx(ctx),
		MessageID: input.MessageID,
		Emoji:     input.Emoji,
	})
	if err != nil {
		return fmt.Errorf("failed to mutate message reaction: %w", err)
	}

	c.broadcast(ctx, reactionResp.Conns, &Output{
		Type: "messageReactionUpdate",
		Payload: map[string]any{
			"messageId": reactionResp.MessageID,
			"reactions": reactionResp.Message.Reactions,
		},
	})

	return nil
}

type translateMessageInput struct {
	MessageID      string `json:"messageId" validate:"required"`
	TargetLanguage string `json:"targetLanguage" validate:"required,max=16"`
}

func (c controller) handleTranslateMessage(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[translateMessageInput](c, payload)
	if err != nil {
		return err
	}

	translateResp, err := c.roomService.TranslateMessage(ctx, &room.TranslateMessageParams{
		RoomID:         c.getRoomIDFromCtx(ctx),
		MessageID:      input.MessageID,
		TargetLanguage: input.TargetLanguage,
	})
	if err != nil {
		return fmt.Errorf("failed to translate message: %w", err)
	}

	c.broadcast(ctx, translateResp.Conns, &Output{
		Type: "messageTranslated",
		Payload: map[string]any{
			"messageId":    translateResp.MessageID,
			"translations": translateResp.Translations,
		},
	})

	return nil
}

type sendReactionInput struct {
	Type domain.ReactionType `json:"type" validate:"required"`
}

func (c controller) handleSendReaction(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[sendReactionInput](c, payload)
	if err != nil {
		return err
	}

	sendReactionResp, err := c.roomService.SendReaction(ctx, &room.SendReactionParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		Type:     input.Type,
	})
	if err != nil {
		return fmt.Errorf("failed to send reaction: %w", err)
	}

	c.broadcast(ctx, sendReactionResp.Conns, &Output{
		Type:    "reactionReceived",
		Payload: sendReactionResp.Reaction,
	})

	return nil
}

type setTypingInput struct {
	IsTyping bool `json:"isTyping"`
}

// handleSetTyping records the typing flag either way, but only the active
// state is pushed out. Clients clear the indicator on their own timeout.
func (c controller) handleSetTyping(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[setTypingInput](c, payload)
	if err != nil {
		return err
	}

	setTypingResp, err := c.roomService.SetTyping(ctx, &room.SetTypingParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		IsTyping: input.IsTyping,
	})
	if err != nil {
		return fmt.Errorf("failed to set typing: %w", err)
	}

	if !setTypingResp.IsTyping {
		return nil
	}

	c.broadcast(ctx, setTypingResp.Conns, &Output{
		Type: "userTyping",
		Payload: map[string]any{
			"userId":   setTypingResp.UserID,
			"userName": setTypingResp.UserName,
		},
	})

	return nil
}
