package pipeline

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Telegram 帖子链接；/s/ 是频道预览路径，不算帖子
	telegramLinkRe = regexp.MustCompile(`(?i)^https?://(www\.)?(t\.me|telegram\.me|telegram\.dog)/\S+`)
)

// NormalizeText 输入归一化：不换行空格还原为普通空格，
// 折叠连续空白，去掉首尾空格。
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// IsTelegramPostLink 输入是否是单条 Telegram 帖子链接。
// Bot API 拿不到他人帖子的内容，链接本身留在文本里，
// 由链接直采模式接管。
func IsTelegramPostLink(s string) bool {
	t := strings.TrimSpace(s)
	return telegramLinkRe.MatchString(t) && !strings.Contains(t, "/s/")
}
