package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Germiningeld/topicbridge/internal/bridge"
	"github.com/Germiningeld/topicbridge/internal/logutil"
	"github.com/Germiningeld/topicbridge/internal/mapping"
	"github.com/Germiningeld/topicbridge/internal/telegram"
)

func runBridge(cmd *cobra.Command, args []string) error {
	token := strings.TrimSpace(flagOrViperString(cmd, "telegram-bot-token", "telegram.bot_token"))
	if token == "" {
		return fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or %s_TELEGRAM_BOT_TOKEN)", envPrefix)
	}

	groupRaw := strings.TrimSpace(flagOrViperString(cmd, "support-group-id", "support.group_id"))
	if groupRaw == "" {
		return fmt.Errorf("missing support.group_id (set via --support-group-id or %s_SUPPORT_GROUP_ID)", envPrefix)
	}
	groupID, err := strconv.ParseInt(groupRaw, 10, 64)
	if err != nil || groupID == 0 {
		return fmt.Errorf("invalid support.group_id %q: must be a non-zero chat id", groupRaw)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(flagOrViperString(cmd, "telegram-base-url", "telegram.base_url")), "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	stateFile := strings.TrimSpace(flagOrViperString(cmd, "state-file", "state.file"))
	if stateFile == "" {
		stateFile = "user_topic_mapping.json"
	}

	pollTimeout := flagOrViperDuration(cmd, "telegram-poll-timeout", "telegram.poll_timeout")
	maxConc := flagOrViperInt(cmd, "telegram-max-concurrency", "telegram.max_concurrency")

	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	store := mapping.New(stateFile, logger)
	store.Load()

	httpClient := &http.Client{Timeout: 60 * time.Second}
	client := telegram.NewClient(httpClient, baseURL, token)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	me, err := client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}

	if err := client.SetMyCommands(ctx, bridge.Commands()); err != nil {
		logger.Warn("set_commands_error", "error", err.Error())
	}

	logger.Info("bridge_start",
		"bot_username", me.Username,
		"bot_id", me.ID,
		"support_group_id", groupID,
		"state_file", stateFile,
		"mapped_users", store.Len(),
		"poll_timeout", pollTimeout.String(),
		"max_concurrency", maxConc,
	)

	b := bridge.New(client, store, logger, bridge.Config{
		GroupID:        groupID,
		PollTimeout:    pollTimeout,
		MaxConcurrency: maxConc,
	})
	err = b.Run(ctx)
	logger.Info("bridge_stop")
	return err
}
