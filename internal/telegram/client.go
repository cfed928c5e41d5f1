// Package telegram is a minimal Bot API client covering the calls the bridge
// needs: long-poll updates, plain sends, message copies, forum topic
// creation and the command menu.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, body any, result any) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	var req *http.Request
	var err error
	if body != nil {
		b, mErr := json.Marshal(body)
		if mErr != nil {
			return mErr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("telegram %s: decode: %w", method, err)
	}
	if !out.OK {
		if desc := strings.TrimSpace(out.Description); desc != "" {
			return fmt.Errorf("telegram %s: %s", method, desc)
		}
		return fmt.Errorf("telegram %s: ok=false", method)
	}
	if result != nil && len(out.Result) > 0 {
		if err := json.Unmarshal(out.Result, result); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUpdates long-polls for new updates and returns the next offset to
// acknowledge everything received.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, int64, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}
	method := fmt.Sprintf("getUpdates?timeout=%d", secs)
	if offset > 0 {
		method += fmt.Sprintf("&offset=%d", offset)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
	defer cancel()

	var updates []Update
	if err := c.call(reqCtx, method, nil, &updates); err != nil {
		return nil, offset, err
	}

	next := offset
	for _, u := range updates {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return updates, next, nil
}

type sendMessageRequest struct {
	ChatID          int64  `json:"chat_id"`
	Text            string `json:"text"`
	MessageThreadID int64  `json:"message_thread_id,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "(empty)"
	}
	return c.call(ctx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text}, nil)
}

// CopyRequest targets copyMessage. MessageThreadID routes the copy into a
// forum topic when set.
type CopyRequest struct {
	ChatID          int64 `json:"chat_id"`
	FromChatID      int64 `json:"from_chat_id"`
	MessageID       int64 `json:"message_id"`
	MessageThreadID int64 `json:"message_thread_id,omitempty"`
}

// CopyMessage re-sends a message's content into another chat without a
// forward header, preserving text and media as-is.
func (c *Client) CopyMessage(ctx context.Context, req CopyRequest) error {
	return c.call(ctx, "copyMessage", req, nil)
}

type createForumTopicRequest struct {
	ChatID int64  `json:"chat_id"`
	Name   string `json:"name"`
}

type forumTopic struct {
	MessageThreadID int64 `json:"message_thread_id"`
}

// CreateForumTopic creates a topic in a forum supergroup and returns its
// thread id.
func (c *Client) CreateForumTopic(ctx context.Context, chatID int64, name string) (int64, error) {
	var topic forumTopic
	if err := c.call(ctx, "createForumTopic", createForumTopicRequest{ChatID: chatID, Name: name}, &topic); err != nil {
		return 0, err
	}
	return topic.MessageThreadID, nil
}

type setMyCommandsRequest struct {
	Commands []BotCommand `json:"commands"`
}

func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	return c.call(ctx, "setMyCommands", setMyCommandsRequest{Commands: commands}, nil)
}
