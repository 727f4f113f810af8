package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"find-origin-api/internal/application/pipeline"
	"find-origin-api/internal/infrastructure/telegram"
	"find-origin-api/pkg/errors"
	"find-origin-api/pkg/logger"
)

// secretTokenHeader Telegram 在每次 Webhook 投递时携带的校验头
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler Telegram Webhook 处理器。
// 对 Telegram 永远返回 200，避免重复投递；
// 处理失败转为发给用户的短提示。
type WebhookHandler struct {
	pipeline *pipeline.Pipeline
	bot      *telegram.Client
	secret   string
}

// NewWebhookHandler 创建 Webhook 处理器
func NewWebhookHandler(p *pipeline.Pipeline, bot *telegram.Client, secret string) *WebhookHandler {
	return &WebhookHandler{
		pipeline: p,
		bot:      bot,
		secret:   secret,
	}
}

// Handle 处理一次 Webhook 投递
// @Summary Telegram Webhook
// @Tags Telegram
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /webhook/telegram [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	if h.secret != "" && c.GetHeader(secretTokenHeader) != h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false})
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		logger.Warn(ctx, "webhook payload not parseable", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	chatID := update.ChatID()
	if chatID == 0 || update.Message == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	ctx = logger.WithContext(ctx, logger.ChatIDKey, chatID)
	text := update.Message.ExtractText()

	if reply := h.process(ctx, text); reply != "" && h.bot != nil {
		if err := h.bot.SendLong(ctx, chatID, reply); err != nil {
			logger.Error(ctx, "failed to send telegram reply", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// process 跑管线并生成回复文本
func (h *WebhookHandler) process(ctx context.Context, text string) string {
	normalized := pipeline.NormalizeText(text)
	if normalized == "" {
		return "Send me a text to analyze and I will look for its original sources."
	}
	if pipeline.IsTelegramPostLink(normalized) {
		return "I cannot read channel posts from a link. Forward the post or paste its text here."
	}

	result, err := h.pipeline.Run(ctx, text)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return appErr.Message
		}
		logger.Error(ctx, "webhook pipeline failed", err)
		return "Something went wrong while analyzing the text. Try again later."
	}

	sections := pipeline.FormatSections(result)
	return joinSections(sections)
}

func joinSections(sections []string) string {
	out := ""
	for i, s := range sections {
		if i > 0 {
			out += "\n\n"
		}
		out += s
	}
	return out
}
