package bridge

import (
	"context"
	"time"

	"github.com/Germiningeld/topicbridge/internal/telegram"
)

// Transport is the chat-platform surface the routers depend on.
// *telegram.Client satisfies it; tests substitute fakes.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	CopyMessage(ctx context.Context, req telegram.CopyRequest) error
	CreateForumTopic(ctx context.Context, chatID int64, name string) (int64, error)
	SetMyCommands(ctx context.Context, commands []telegram.BotCommand) error
}

// API adds the update feed the dispatcher polls.
type API interface {
	Transport
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, int64, error)
}
