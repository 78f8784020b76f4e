package controller

import "context"

type contextKey int

const (
	roomIDCtxKey contextKey = iota
	socketIDCtxKey
)

func (c controller) getRoomIDFromCtx(ctx context.Context) string {
	roomID, ok := ctx.Value(roomIDCtxKey).(string)
	if !ok {
		return ""
	}

	return roomID
}

func (c controller) getSocketIDFromCtx(ctx context.Context) string {
	socketID, ok := ctx.Value(socketIDCtxKey).(string)
	if !ok {
		return ""
	}

	return socketID
}
