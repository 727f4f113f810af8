// Package rank 负责候选来源的相关性排序：
// AI 对比为主路径，类型优先级为确定性兜底。
package rank

import (
	"context"
	"sort"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"find-origin-api/internal/application/source"
	"find-origin-api/internal/domain/entity"
	"find-origin-api/pkg/logger"
	"find-origin-api/pkg/metrics"
	"find-origin-api/pkg/tracer"
)

// Result 一次排序的输出。
// UsedAI 为 false 表示 AI 路径被跳过、失败或输出不可用，
// Ranked 由确定性兜底填充（候选为空时为空）。
type Result struct {
	Ranked []entity.RankedSource
	UsedAI bool
}

// Ranker 相关性排序器。
// model 为 nil 时只走确定性兜底，不发起任何 LLM 调用。
type Ranker struct {
	model model.BaseChatModel
}

// New 创建排序器
func New(chatModel model.BaseChatModel) *Ranker {
	return &Ranker{model: chatModel}
}

// Rank 对候选排序。
// AI 输出按不可信输入处理：解析、裁剪、再做 URL 交叉校验，
// 任何一步失败都安静降级为兜底，不向调用方抛错。
func (r *Ranker) Rank(ctx context.Context, originalText string, candidates []entity.SearchCandidate) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	ctx, span := tracer.Start(ctx, "rank.Rank")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.RankDuration.Observe(time.Since(start).Seconds())
	}()

	if r == nil || r.model == nil {
		metrics.RankTotal.WithLabelValues(metrics.RankPathFallback).Inc()
		return fallback(candidates)
	}

	prompt := buildPrompt(originalText, candidates)
	msg, err := r.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		logger.Warn(ctx, "llm ranking call failed, using fallback", "error", err.Error())
		metrics.RankTotal.WithLabelValues(metrics.RankPathFallback).Inc()
		return fallback(candidates)
	}
	if msg == nil || msg.Content == "" {
		logger.Warn(ctx, "llm returned empty completion, using fallback")
		metrics.RankTotal.WithLabelValues(metrics.RankPathFallback).Inc()
		return fallback(candidates)
	}

	ranked := parseRanked(msg.Content)
	if len(ranked) == 0 {
		logger.Warn(ctx, "llm output not usable, using fallback")
		metrics.RankTotal.WithLabelValues(metrics.RankPathFallback).Inc()
		return fallback(candidates)
	}

	// 交叉校验：每条 URL 必须指回传入的候选集，
	// 违例条目直接丢弃；全部违例则整个 AI 结果作废
	valid := validateAgainst(ranked, candidates)
	if len(valid) == 0 {
		logger.Warn(ctx, "llm referenced unknown urls, using fallback", "entries", len(ranked))
		metrics.RankTotal.WithLabelValues(metrics.RankPathFallback).Inc()
		return fallback(candidates)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Confidence.Rank() > valid[j].Confidence.Rank()
	})

	metrics.RankTotal.WithLabelValues(metrics.RankPathAI).Inc()
	return Result{Ranked: valid, UsedAI: true}
}

// validateAgainst 丢掉引用了候选集之外 URL 的条目
func validateAgainst(ranked []entity.RankedSource, candidates []entity.SearchCandidate) []entity.RankedSource {
	urls := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		urls[c.URL] = true
	}

	var valid []entity.RankedSource
	for _, r := range ranked {
		if urls[r.URL] {
			valid = append(valid, r)
		}
	}
	return valid
}

// fallback 确定性兜底：按类型优先级取前 3，置信一律 medium
func fallback(candidates []entity.SearchCandidate) Result {
	sorted := source.SortByType(candidates)
	if len(sorted) > maxRankedSources {
		sorted = sorted[:maxRankedSources]
	}

	ranked := make([]entity.RankedSource, 0, len(sorted))
	for _, c := range sorted {
		ranked = append(ranked, entity.RankedSource{
			URL:        c.URL,
			Title:      c.Title,
			Confidence: entity.ConfidenceMedium,
		})
	}
	return Result{Ranked: ranked, UsedAI: false}
}
