package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Germiningeld/topicbridge/internal/mapping"
	"github.com/Germiningeld/topicbridge/internal/telegram"
)

// Provisioner creates the per-user forum topic on first contact and records
// the mapping. One attempt per call; the user's next message retries.
type Provisioner struct {
	transport Transport
	store     *mapping.Store
	groupID   int64
	logger    *slog.Logger
}

func NewProvisioner(transport Transport, store *mapping.Store, groupID int64, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{transport: transport, store: store, groupID: groupID, logger: logger}
}

// TopicFor creates a topic titled after the user's display name and id so
// operators can identify the correspondent without leaving the group.
func (p *Provisioner) TopicFor(ctx context.Context, user *telegram.User) (int64, error) {
	title := TopicTitle(user)
	topicID, err := p.transport.CreateForumTopic(ctx, p.groupID, title)
	if err != nil {
		p.logger.Error("topic_create_error", "user_id", user.ID, "error", err.Error())
		return 0, err
	}
	p.store.Put(user.ID, topicID)
	p.logger.Info("topic_created", "user_id", user.ID, "topic_id", topicID, "title", title)
	return topicID, nil
}

func TopicTitle(user *telegram.User) string {
	name := strings.TrimSpace(user.FirstName)
	if last := strings.TrimSpace(user.LastName); last != "" {
		name += " " + last
	}
	return fmt.Sprintf("%s (ID: %d)", name, user.ID)
}
