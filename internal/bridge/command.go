package bridge

import (
	"strings"

	"github.com/Germiningeld/topicbridge/internal/telegram"
)

const (
	startReply = "Hello! I am the support bot. Just send me your question " +
		"and an operator will get back to you as soon as possible."
	helpReply = "How to use the support bot:\n\n" +
		"1. Send your question or problem to the bot\n" +
		"2. Wait for an operator to reply\n" +
		"3. Keep the conversation going by replying to their messages\n\n" +
		"Every message you send here is handled by an operator."
)

// Commands is the menu registered with setMyCommands at startup.
func Commands() []telegram.BotCommand {
	return []telegram.BotCommand{
		{Command: "start", Description: "Start a conversation with support"},
		{Command: "help", Description: "How to use the support bot"},
	}
}

func splitCommand(text string) (cmd string, rest string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	i := strings.IndexAny(text, " \n\t")
	if i == -1 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

func normalizeSlashCommand(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" || !strings.HasPrefix(cmd, "/") {
		return ""
	}
	// Allow "/cmd@BotName" variants by stripping "@...".
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
