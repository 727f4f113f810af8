package search

import (
	"fmt"
	"time"
)

// BackendError 搜索后端的传输层或协议层失败（非 2xx、响应不可解析等）
type BackendError struct {
	Backend    string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: backend request failed with status %d", e.Backend, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend request failed: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BlockedError 命中了反爬 / CAPTCHA 标记，当次请求不可恢复
type BlockedError struct {
	Backend string
	Marker  string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: blocked by anti-bot protection (%s)", e.Backend, e.Marker)
}

// TokenExtractionError 未能从页面中取出会话令牌，
// 通常意味着上游改了页面结构
type TokenExtractionError struct {
	Backend string
}

func (e *TokenExtractionError) Error() string {
	return fmt.Sprintf("%s: session token not found in page", e.Backend)
}

// RateLimitedError 本地冷却窗口尚未结束，RetryAfter 为剩余等待时长
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("search cooldown active, retry in %.0fs", e.RetryAfter.Seconds())
}
