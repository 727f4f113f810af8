package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessageShort(t *testing.T) {
	t.Parallel()

	chunks := SplitMessage("hello", MaxMessageLength)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("SplitMessage = %v", chunks)
	}
}

func TestSplitMessageOnParagraphs(t *testing.T) {
	t.Parallel()

	a := strings.Repeat("a", 60)
	b := strings.Repeat("b", 60)
	c := strings.Repeat("c", 60)
	text := a + "\n\n" + b + "\n\n" + c

	chunks := SplitMessage(text, 130)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2: %v", len(chunks), chunks)
	}
	if chunks[0] != a+"\n\n"+b {
		t.Errorf("first chunk = %q", chunks[0])
	}
	if chunks[1] != c {
		t.Errorf("second chunk = %q", chunks[1])
	}
	for i, ch := range chunks {
		if utf8.RuneCountInString(ch) > 130 {
			t.Errorf("chunk %d exceeds limit: %d runes", i, utf8.RuneCountInString(ch))
		}
	}
}

func TestSplitMessageHardSplitsLongParagraph(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("ж", 250)
	chunks := SplitMessage(text, 100)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Error("hard split lost content")
	}
}

func TestNewClientWithoutToken(t *testing.T) {
	t.Parallel()

	if c := NewClient(Config{}); c != nil {
		t.Error("NewClient without token should return nil")
	}
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotReq sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BotToken: "123:abc", APIURL: srv.URL})
	if err := c.SendMessage(context.Background(), 42, "<b>hi</b>"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.ChatID != 42 || gotReq.Text != "<b>hi</b>" {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.ParseMode != "HTML" || !gotReq.DisableWebPagePreview {
		t.Errorf("request options = %+v, want HTML parse mode without preview", gotReq)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message is too long"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BotToken: "123:abc", APIURL: srv.URL})
	err := c.SendMessage(context.Background(), 42, "x")
	if err == nil {
		t.Fatal("SendMessage succeeded, want API error")
	}
	// the bot token must never leak through error text
	if strings.Contains(err.Error(), "123:abc") {
		t.Errorf("error exposes bot token: %v", err)
	}
}

func TestSendLongChunks(t *testing.T) {
	t.Parallel()

	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		got = append(got, req.Text)
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BotToken: "t", APIURL: srv.URL})
	long := strings.Repeat("a", MaxMessageLength) + "\n\n" + "tail"
	if err := c.SendLong(context.Background(), 1, long); err != nil {
		t.Fatalf("SendLong: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("messages sent = %d, want 2", len(got))
	}
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	msg := &Message{
		Text: "check this link out please",
		Entities: []MessageEntity{
			{Type: "text_link", Offset: 6, Length: 4, URL: "https://hidden.example/post"},
			{Type: "url", Offset: 0, Length: 5},
		},
	}
	got := msg.ExtractText()

	if !strings.Contains(got, "https://hidden.example/post") {
		t.Errorf("text_link URL not appended: %q", got)
	}
	if !strings.Contains(got, "check this link out please") {
		t.Errorf("original text lost: %q", got)
	}
}

func TestExtractTextUTF16Offsets(t *testing.T) {
	t.Parallel()

	// the emoji occupies two UTF-16 units, so the url entity offset
	// does not match the rune index
	msg := &Message{
		Text: "🔥 https://ria.ru/a",
		Entities: []MessageEntity{
			{Type: "url", Offset: 3, Length: 16},
		},
	}
	got := msg.ExtractText()

	if !strings.HasSuffix(got, "\nhttps://ria.ru/a") {
		t.Errorf("url entity mis-sliced: %q", got)
	}
}

func TestExtractTextCaptionFallback(t *testing.T) {
	t.Parallel()

	msg := &Message{Caption: "photo caption"}
	if got := msg.ExtractText(); got != "photo caption" {
		t.Errorf("ExtractText = %q, want caption", got)
	}
}

func TestUpdateChatID(t *testing.T) {
	t.Parallel()

	u := &Update{}
	if got := u.ChatID(); got != 0 {
		t.Errorf("ChatID without message = %d, want 0", got)
	}
	u.Message = &Message{Chat: Chat{ID: 99}}
	if got := u.ChatID(); got != 99 {
		t.Errorf("ChatID = %d, want 99", got)
	}
}
