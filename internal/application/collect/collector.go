// Package collect 负责跨查询收集候选来源并做归并
package collect

import (
	"context"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"find-origin-api/internal/application/source"
	"find-origin-api/internal/domain/entity"
	"find-origin-api/internal/infrastructure/search"
	"find-origin-api/pkg/logger"
	"find-origin-api/pkg/metrics"
	"find-origin-api/pkg/tracer"
)

// 候选数量默认值
const (
	DefaultLimitPerQuery = 5
	DefaultMaxTotal      = 15
)

// Options 单次收集的数量边界
type Options struct {
	LimitPerQuery int
	MaxTotal      int
}

func (o *Options) applyDefaults() {
	if o.LimitPerQuery <= 0 {
		o.LimitPerQuery = DefaultLimitPerQuery
	}
	if o.MaxTotal <= 0 {
		o.MaxTotal = DefaultMaxTotal
	}
}

// Collector 编排后端调用：去重、分类、排序、截断。
// 后端策略在构造时确定一次，不在每次调用时重新判定。
type Collector struct {
	backend search.Backend
	// scraped 表示后端走抓取路径：查询集收敛为单条查询，
	// 多次调用之间插入额外间隔
	scraped         bool
	interQueryDelay time.Duration
}

// New 创建收集器
func New(backend search.Backend, scraped bool, interQueryDelay time.Duration) *Collector {
	return &Collector{
		backend:         backend,
		scraped:         scraped,
		interQueryDelay: interQueryDelay,
	}
}

// Collect 对查询集执行后端检索并归并结果。
// 抓取后端只容忍一次调用：查询集收敛为首条查询，
// 单次请求的 limit 提升到 MaxTotal 作为补偿。
// 直连 API 后端按查询顺序依次执行，不做内部并发。
// 任何查询失败时，若已有部分结果则带着结果收尾，否则错误上抛。
func (c *Collector) Collect(ctx context.Context, queries []string, opts Options) ([]entity.SearchCandidate, error) {
	ctx, span := tracer.Start(ctx, "collect.Collect")
	defer span.End()

	opts.applyDefaults()

	limit := opts.LimitPerQuery
	if c.scraped {
		if len(queries) > 1 {
			queries = queries[:1]
		}
		limit = opts.MaxTotal
	}

	batches, err := c.collectSequential(ctx, queries, limit)
	if err != nil {
		return nil, err
	}

	var merged []entity.SearchCandidate
	seen := make(map[string]bool)
	for _, batch := range batches {
		for _, cand := range batch {
			u := strings.TrimSpace(cand.URL)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			cand.URL = u
			merged = append(merged, cand)
		}
	}

	return finalize(merged, opts.MaxTotal), nil
}

// collectSequential 按查询顺序依次执行，抓取路径在调用之间插入间隔
func (c *Collector) collectSequential(ctx context.Context, queries []string, limit int) ([][]entity.SearchCandidate, error) {
	var batches [][]entity.SearchCandidate
	for i, q := range queries {
		if i > 0 && c.scraped && c.interQueryDelay > 0 {
			if err := sleepWithJitter(ctx, c.interQueryDelay); err != nil {
				return nil, err
			}
		}

		results, err := c.searchOnce(ctx, q, limit)
		if err != nil {
			if len(batches) == 0 {
				return nil, err
			}
			// 后续查询失败不丢弃已有结果，当次收集就此收尾
			logger.Warn(ctx, "search query failed, keeping partial results",
				"backend", c.backend.Name(),
				"query", q,
				"error", err.Error(),
			)
			break
		}
		batches = append(batches, results)
	}
	return batches, nil
}

// searchOnce 单次后端调用，带耗时与结果指标
func (c *Collector) searchOnce(ctx context.Context, query string, limit int) ([]entity.SearchCandidate, error) {
	start := time.Now()
	results, err := c.backend.Search(ctx, query, limit)
	metrics.SearchRequestDuration.WithLabelValues(c.backend.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(c.backend.Name(), "error").Inc()
		return nil, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(c.backend.Name(), "ok").Inc()
	return results, nil
}

// LiftLinks 链接直采模式：文本里已有的链接直接变成候选，
// 不触发任何后端调用，主机名充当标题。
func (c *Collector) LiftLinks(links []string, maxTotal int) []entity.SearchCandidate {
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}

	var out []entity.SearchCandidate
	seen := make(map[string]bool)
	for _, raw := range links {
		u := strings.TrimSpace(raw)
		if !strings.HasPrefix(u, "http") || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, entity.SearchCandidate{
			URL:   u,
			Title: hostTitle(u),
		})
	}

	return finalize(out, maxTotal)
}

// finalize 分类、按类型稳定排序并截断
func finalize(candidates []entity.SearchCandidate, maxTotal int) []entity.SearchCandidate {
	for i := range candidates {
		candidates[i].SourceType = source.Classify(candidates[i].URL)
	}
	sorted := source.SortByType(candidates)
	if len(sorted) > maxTotal {
		sorted = sorted[:maxTotal]
	}
	return sorted
}

// hostTitle 取主机名作为标题，解析失败时退回原始链接
func hostTitle(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// sleepWithJitter 查询间隔，带抖动，响应取消
func sleepWithJitter(ctx context.Context, base time.Duration) error {
	delay := base + time.Duration(rand.Intn(1000))*time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
