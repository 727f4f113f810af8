// Package telegram 实现 Telegram Bot API 的发送端客户端。
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
	"unicode/utf8"

	"find-origin-api/pkg/logger"
	"find-origin-api/pkg/metrics"
)

const (
	defaultAPIURL  = "https://api.telegram.org"
	defaultTimeout = 10 * time.Second

	// MaxMessageLength Telegram 单条消息上限
	MaxMessageLength = 4096
)

// Config 客户端配置
type Config struct {
	BotToken string
	APIURL   string
	Timeout  time.Duration
}

// Client Telegram Bot API 客户端
type Client struct {
	token  string
	apiURL string
	client *http.Client
}

// NewClient 创建客户端，token 为空时返回 nil（未启用机器人）
func NewClient(cfg Config) *Client {
	if cfg.BotToken == "" {
		return nil
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		token:  cfg.BotToken,
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage 发送单条 HTML 消息
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.TelegramMessagesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil || !apiResp.OK {
		metrics.TelegramMessagesTotal.WithLabelValues("error").Inc()
		// 日志与错误信息里不出现 bot token
		logger.Warn(ctx, "telegram sendMessage failed",
			"status", resp.StatusCode,
			"description", apiResp.Description,
		)
		return fmt.Errorf("telegram sendMessage failed: status=%d code=%d %s",
			resp.StatusCode, apiResp.ErrorCode, apiResp.Description)
	}

	metrics.TelegramMessagesTotal.WithLabelValues("ok").Inc()
	return nil
}

// SendLong 发送长文本，超出上限时按段落切块逐条发送
func (c *Client) SendLong(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		if err := c.SendMessage(ctx, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// SplitMessage 把文本切成不超过 limit 的块。
// 优先在空行处断开，单段仍超限时按字符硬切。
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		paraLen := utf8.RuneCountInString(para)

		if paraLen > limit {
			flush()
			runes := []rune(para)
			for len(runes) > 0 {
				n := limit
				if n > len(runes) {
					n = len(runes)
				}
				chunks = append(chunks, string(runes[:n]))
				runes = runes[n:]
			}
			continue
		}

		sep := 0
		if currentLen > 0 {
			sep = 2
		}
		if currentLen+sep+paraLen > limit {
			flush()
			sep = 0
		}
		if sep > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentLen += sep + paraLen
	}
	flush()

	return chunks
}
