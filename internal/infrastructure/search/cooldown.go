package search

import (
	"sync"
	"time"
)

// DefaultCooldownInterval 抓取后端的默认冷却窗口
const DefaultCooldownInterval = 15 * time.Second

// Cooldown 进程级的抓取冷却计时器。
// 时间戳在每次尝试开始时更新，而不是成功时更新：
// 失败的尝试同样消耗冷却窗口，避免重试风暴。
type Cooldown struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewCooldown 创建冷却计时器；interval <= 0 表示不限制
func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		interval: interval,
		now:      time.Now,
	}
}

// TryAcquire 尝试占用一次抓取窗口。
// 检查与更新在同一临界区内完成，并发请求不会同时通过。
func (c *Cooldown) TryAcquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.last.IsZero() && c.interval > 0 {
		if remaining := c.interval - now.Sub(c.last); remaining > 0 {
			return &RateLimitedError{RetryAfter: remaining}
		}
	}
	c.last = now
	return nil
}

// Remaining 返回当前剩余等待时长，仅用于观测
func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last.IsZero() || c.interval <= 0 {
		return 0
	}
	if remaining := c.interval - c.now().Sub(c.last); remaining > 0 {
		return remaining
	}
	return 0
}
