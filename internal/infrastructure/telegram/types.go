package telegram

import "unicode/utf16"

// Update Telegram Webhook 更新结构，仅保留本服务关心的字段
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message 聊天消息
type Message struct {
	MessageID int64           `json:"message_id"`
	Chat      Chat            `json:"chat"`
	Text      string          `json:"text"`
	Caption   string          `json:"caption"`
	Entities  []MessageEntity `json:"entities"`
}

// Chat 会话
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// MessageEntity 消息中的富文本实体
type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url"`
}

// ChatID 返回消息所属会话 ID，无消息时返回 0
func (u *Update) ChatID() int64 {
	if u.Message == nil {
		return 0
	}
	return u.Message.Chat.ID
}

// ExtractText 取出消息文本并补全实体里的链接。
// text_link 实体的 URL 不在正文中，url 实体按偏移切片取出，
// 两者都追加到文本末尾，供后续链接提取使用。
// Bot API 的实体偏移以 UTF-16 码元计数，切片前先按 UTF-16 编码。
func (m *Message) ExtractText() string {
	text := m.Text
	if text == "" {
		text = m.Caption
	}
	if len(m.Entities) == 0 {
		return text
	}

	units := utf16.Encode([]rune(text))
	var extra []string
	for _, e := range m.Entities {
		switch e.Type {
		case "text_link":
			if e.URL != "" {
				extra = append(extra, e.URL)
			}
		case "url":
			if e.Offset >= 0 && e.Offset+e.Length <= len(units) {
				extra = append(extra, string(utf16.Decode(units[e.Offset:e.Offset+e.Length])))
			}
		}
	}
	for _, u := range extra {
		text += "\n" + u
	}
	return text
}
