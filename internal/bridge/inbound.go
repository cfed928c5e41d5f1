package bridge

import (
	"context"
	"log/slog"

	"github.com/Germiningeld/topicbridge/internal/mapping"
	"github.com/Germiningeld/topicbridge/internal/telegram"
)

// Inbound relays a private-chat message from an end-user into that user's
// topic in the operator group, provisioning the topic on first contact.
type Inbound struct {
	transport   Transport
	store       *mapping.Store
	provisioner *Provisioner
	groupID     int64
	logger      *slog.Logger
}

func NewInbound(transport Transport, store *mapping.Store, provisioner *Provisioner, groupID int64, logger *slog.Logger) *Inbound {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inbound{
		transport:   transport,
		store:       store,
		provisioner: provisioner,
		groupID:     groupID,
		logger:      logger,
	}
}

func (r *Inbound) Handle(ctx context.Context, msg *telegram.Message) {
	// Only one-to-one conversations are relayed; traffic from arbitrary
	// groups and channels is not an error, just not ours.
	if msg == nil || msg.Chat == nil || msg.From == nil || msg.Chat.Type != "private" {
		return
	}

	topicID, ok := r.store.Get(msg.From.ID)
	if !ok {
		created, err := r.provisioner.TopicFor(ctx, msg.From)
		if err != nil {
			// Already logged with user context; the message is dropped and
			// the user's next message retries provisioning.
			return
		}
		topicID = created
	}

	err := r.transport.CopyMessage(ctx, telegram.CopyRequest{
		ChatID:          r.groupID,
		FromChatID:      msg.Chat.ID,
		MessageID:       msg.MessageID,
		MessageThreadID: topicID,
	})
	if err != nil {
		r.logger.Error("inbound_copy_error",
			"user_id", msg.From.ID,
			"topic_id", topicID,
			"message_id", msg.MessageID,
			"error", err.Error(),
		)
	}
}
