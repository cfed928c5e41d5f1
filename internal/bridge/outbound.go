package bridge

import (
	"context"
	"log/slog"

	"github.com/Germiningeld/topicbridge/internal/mapping"
	"github.com/Germiningeld/topicbridge/internal/telegram"
)

// Outbound relays an operator message posted inside a topic of the support
// group back to the mapped end-user.
type Outbound struct {
	transport Transport
	store     *mapping.Store
	groupID   int64
	logger    *slog.Logger
}

func NewOutbound(transport Transport, store *mapping.Store, groupID int64, logger *slog.Logger) *Outbound {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outbound{transport: transport, store: store, groupID: groupID, logger: logger}
}

func (r *Outbound) Handle(ctx context.Context, msg *telegram.Message) {
	if msg == nil || msg.Chat == nil || msg.Chat.ID != r.groupID || !msg.IsTopicMessage {
		return
	}
	if !actionable(msg) {
		// Topic-created notices, pins and other service messages.
		return
	}

	userID, ok := r.store.UserByTopic(msg.MessageThreadID)
	if !ok {
		// Stale or manually created topic with no mapped user.
		r.logger.Warn("outbound_unmapped_topic", "topic_id", msg.MessageThreadID, "message_id", msg.MessageID)
		return
	}

	err := r.transport.CopyMessage(ctx, telegram.CopyRequest{
		ChatID:     userID,
		FromChatID: msg.Chat.ID,
		MessageID:  msg.MessageID,
	})
	if err != nil {
		r.logger.Error("outbound_copy_error",
			"user_id", userID,
			"topic_id", msg.MessageThreadID,
			"message_id", msg.MessageID,
			"error", err.Error(),
		)
	}
}

// actionable reports whether the message carries relayable content: text, a
// caption, or a media attachment.
func actionable(msg *telegram.Message) bool {
	return msg.Text != "" || msg.Caption != "" || msg.HasMedia()
}
