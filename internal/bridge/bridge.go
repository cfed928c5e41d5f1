// Package bridge relays messages between end-users in private chats and
// operators working per-user forum topics inside a single support group.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Germiningeld/topicbridge/internal/mapping"
	"github.com/Germiningeld/topicbridge/internal/telegram"
	"github.com/Germiningeld/topicbridge/internal/worker"
)

type Config struct {
	GroupID        int64
	PollTimeout    time.Duration
	MaxConcurrency int
}

func (c Config) withDefaults() Config {
	if c.PollTimeout <= 0 {
		c.PollTimeout = 30 * time.Second
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 3
	}
	return c
}

type job struct {
	DeliveryID string
	Outbound   bool
	Msg        *telegram.Message
}

// Bridge polls the update feed and hands each message to the matching
// router. Messages are processed serially per chat and concurrently across
// chats, bounded by a global semaphore, so one slow relay never stalls the
// poll loop or other users.
type Bridge struct {
	api      API
	store    *mapping.Store
	logger   *slog.Logger
	cfg      Config
	inbound  *Inbound
	outbound *Outbound

	mu      sync.Mutex
	workers map[int64]chan job
	sem     chan struct{}
}

func New(api API, store *mapping.Store, logger *slog.Logger, cfg Config) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	provisioner := NewProvisioner(api, store, cfg.GroupID, logger)
	return &Bridge{
		api:      api,
		store:    store,
		logger:   logger,
		cfg:      cfg,
		inbound:  NewInbound(api, store, provisioner, cfg.GroupID, logger),
		outbound: NewOutbound(api, store, cfg.GroupID, logger),
		workers:  make(map[int64]chan job),
		sem:      make(chan struct{}, cfg.MaxConcurrency),
	}
}

// Run polls until ctx is canceled. Poll errors are logged and retried after
// a short pause; they never terminate the loop.
func (b *Bridge) Run(ctx context.Context) error {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		updates, next, err := b.api.GetUpdates(ctx, offset, b.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("get_updates_error", "error", err.Error())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(1 * time.Second):
			}
			continue
		}
		offset = next

		for _, u := range updates {
			b.dispatch(ctx, u.Message)
		}
	}
}

func (b *Bridge) dispatch(ctx context.Context, msg *telegram.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}

	switch {
	case msg.Chat.Type == "private":
		if b.handleCommand(ctx, msg) {
			return
		}
		b.enqueue(ctx, msg.Chat.ID, job{DeliveryID: uuid.NewString(), Msg: msg})
	case msg.Chat.ID == b.cfg.GroupID:
		b.enqueue(ctx, keyForGroupMessage(msg), job{DeliveryID: uuid.NewString(), Outbound: true, Msg: msg})
	}
}

// keyForGroupMessage keeps one serial queue per topic so replies inside a
// topic stay ordered while different topics relay in parallel.
func keyForGroupMessage(msg *telegram.Message) int64 {
	if msg.IsTopicMessage && msg.MessageThreadID != 0 {
		return msg.MessageThreadID
	}
	return msg.Chat.ID
}

// handleCommand answers slash commands in private chats. Command messages
// are consumed, never relayed; unknown commands are ignored.
func (b *Bridge) handleCommand(ctx context.Context, msg *telegram.Message) bool {
	cmdWord, _ := splitCommand(msg.Text)
	cmd := normalizeSlashCommand(cmdWord)
	if cmd == "" {
		return false
	}
	switch cmd {
	case "/start":
		b.reply(ctx, msg.Chat.ID, startReply)
	case "/help":
		b.reply(ctx, msg.Chat.ID, helpReply)
	case "/id":
		b.reply(ctx, msg.Chat.ID, fmt.Sprintf("chat_id=%d type=%s", msg.Chat.ID, msg.Chat.Type))
	default:
		b.logger.Debug("command_ignored", "chat_id", msg.Chat.ID, "command", cmd)
	}
	return true
}

func (b *Bridge) reply(ctx context.Context, chatID int64, text string) {
	if err := b.api.SendMessage(ctx, chatID, text); err != nil {
		b.logger.Warn("command_reply_error", "chat_id", chatID, "error", err.Error())
	}
}

func (b *Bridge) enqueue(ctx context.Context, key int64, j job) {
	b.mu.Lock()
	jobs, ok := b.workers[key]
	if !ok {
		jobs = make(chan job, 16)
		b.workers[key] = jobs
		worker.Start(worker.StartOptions[job]{
			Ctx:    ctx,
			Sem:    b.sem,
			Jobs:   jobs,
			Handle: b.handle,
		})
	}
	b.mu.Unlock()

	b.logger.Info("relay_enqueued",
		"delivery_id", j.DeliveryID,
		"chat_id", j.Msg.Chat.ID,
		"message_id", j.Msg.MessageID,
		"outbound", j.Outbound,
	)
	if err := worker.Enqueue(ctx, ctx, jobs, j); err != nil {
		b.logger.Warn("relay_enqueue_canceled", "delivery_id", j.DeliveryID, "error", err.Error())
	}
}

func (b *Bridge) handle(ctx context.Context, j job) {
	if j.Outbound {
		b.outbound.Handle(ctx, j.Msg)
		return
	}
	b.inbound.Handle(ctx, j.Msg)
}
