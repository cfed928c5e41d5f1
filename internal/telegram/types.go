package telegram

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID       int64  `json:"message_id"`
	Chat            *Chat  `json:"chat,omitempty"`
	From            *User  `json:"from,omitempty"`
	Text            string `json:"text,omitempty"`
	Caption         string `json:"caption,omitempty"`
	IsTopicMessage  bool   `json:"is_topic_message,omitempty"`
	MessageThreadID int64  `json:"message_thread_id,omitempty"`

	// Media attachments. Only presence matters to the bridge; payloads are
	// relayed by copyMessage without inspection.
	Photo    []PhotoSize `json:"photo,omitempty"`
	Document *Document   `json:"document,omitempty"`
	Video    *Video      `json:"video,omitempty"`
	Audio    *Audio      `json:"audio,omitempty"`
	Voice    *Voice      `json:"voice,omitempty"`
	Sticker  *Sticker    `json:"sticker,omitempty"`
}

// HasMedia reports whether the message carries one of the media kinds the
// bridge relays.
func (m *Message) HasMedia() bool {
	if m == nil {
		return false
	}
	return len(m.Photo) > 0 || m.Document != nil || m.Video != nil ||
		m.Audio != nil || m.Voice != nil || m.Sticker != nil
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"` // private|group|supergroup|channel
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type PhotoSize struct {
	FileID string `json:"file_id"`
}

type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
}

type Video struct {
	FileID string `json:"file_id"`
}

type Audio struct {
	FileID string `json:"file_id"`
}

type Voice struct {
	FileID string `json:"file_id"`
}

type Sticker struct {
	FileID string `json:"file_id"`
}

type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}
