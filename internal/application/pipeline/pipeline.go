// Package pipeline 将提取、查询构造、候选收集与排序组合为
// 一次完整的 请求→结果 变换，是传输层唯一的调用入口。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"find-origin-api/internal/application/analyze"
	"find-origin-api/internal/application/collect"
	"find-origin-api/internal/application/rank"
	"find-origin-api/internal/domain/entity"
	"find-origin-api/internal/infrastructure/search"
	apperrors "find-origin-api/pkg/errors"
	"find-origin-api/pkg/logger"
	"find-origin-api/pkg/metrics"
	"find-origin-api/pkg/tracer"
)

// Mode 产品模式：web 走搜索后端，links 只评估文本自带的链接
type Mode string

// 模式取值
const (
	ModeWeb   Mode = "web"
	ModeLinks Mode = "links"
)

// Config 管线数量边界
type Config struct {
	Mode          Mode
	MaxQueries    int
	LimitPerQuery int
	MaxTotal      int
}

// SearchResult 管线输出。所有字段都是请求作用域的，
// 一次调用结束后不保留任何状态。
type SearchResult struct {
	Text       string                   `json:"text"`
	Entities   entity.ExtractedEntities `json:"entities"`
	Candidates []entity.SearchCandidate `json:"candidates"`
	Ranked     []entity.RankedSource    `json:"ranked"`
	UsedAI     bool                     `json:"used_ai"`
}

// Pipeline 溯源管线。各阶段严格顺序执行，互不共享可变状态。
type Pipeline struct {
	collector *collect.Collector
	ranker    *rank.Ranker
	cfg       Config
}

// New 创建管线
func New(collector *collect.Collector, ranker *rank.Ranker, cfg Config) *Pipeline {
	if cfg.Mode == "" {
		cfg.Mode = ModeWeb
	}
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = analyze.DefaultMaxQueries
	}
	if cfg.LimitPerQuery <= 0 {
		cfg.LimitPerQuery = collect.DefaultLimitPerQuery
	}
	if cfg.MaxTotal <= 0 {
		cfg.MaxTotal = collect.DefaultMaxTotal
	}
	return &Pipeline{
		collector: collector,
		ranker:    ranker,
		cfg:       cfg,
	}
}

// Run 执行一次完整的溯源：归一化 → 提取 → 收集 → 排序。
// 空输入在任何网络调用之前就会失败。
func (p *Pipeline) Run(ctx context.Context, rawInput string) (*SearchResult, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	start := time.Now()
	mode := string(p.cfg.Mode)

	text := NormalizeText(rawInput)
	if text == "" {
		metrics.PipelineRunsTotal.WithLabelValues(mode, "empty_input").Inc()
		return nil, apperrors.New(apperrors.CodeEmptyInput, "send text to analyze")
	}

	entities := analyze.Extract(text)

	candidates, err := p.collectCandidates(ctx, entities, text)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}
	metrics.PipelineCandidates.WithLabelValues(mode).Observe(float64(len(candidates)))

	res := p.ranker.Rank(ctx, text, candidates)

	metrics.PipelineRunsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.PipelineDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	logger.Info(ctx, "pipeline finished",
		"mode", mode,
		"candidates", len(candidates),
		"ranked", len(res.Ranked),
		"used_ai", res.UsedAI,
	)

	return &SearchResult{
		Text:       text,
		Entities:   entities,
		Candidates: candidates,
		Ranked:     res.Ranked,
		UsedAI:     res.UsedAI,
	}, nil
}

// collectCandidates 按产品模式收集候选
func (p *Pipeline) collectCandidates(ctx context.Context, entities entity.ExtractedEntities, text string) ([]entity.SearchCandidate, error) {
	if p.cfg.Mode == ModeLinks {
		candidates := p.collector.LiftLinks(entities.Links, p.cfg.MaxTotal)
		if len(candidates) == 0 {
			return nil, apperrors.New(apperrors.CodeNoCandidates, "no links found in text, add a URL to analyze")
		}
		return candidates, nil
	}

	queries := analyze.BuildQueries(entities, text, p.cfg.MaxQueries)
	if len(queries) == 0 {
		return nil, apperrors.New(apperrors.CodeNoQueries, "could not build search queries from text")
	}

	candidates, err := p.collector.Collect(ctx, queries, collect.Options{
		LimitPerQuery: p.cfg.LimitPerQuery,
		MaxTotal:      p.cfg.MaxTotal,
	})
	if err != nil {
		return nil, mapSearchError(err)
	}
	if len(candidates) == 0 {
		return nil, apperrors.New(apperrors.CodeNoCandidates, "search returned no candidates")
	}
	return candidates, nil
}

// mapSearchError 把搜索层的类型化错误翻译为对外的应用错误。
// 对外只暴露短说明，不泄露内部令牌或页面内容。
func mapSearchError(err error) error {
	var rateLimited *search.RateLimitedError
	if errors.As(err, &rateLimited) {
		return apperrors.Wrap(err, apperrors.CodeSearchRateLimited,
			fmt.Sprintf("search is cooling down, retry in %d seconds", int(rateLimited.RetryAfter.Seconds())+1))
	}

	var blocked *search.BlockedError
	if errors.As(err, &blocked) {
		return apperrors.Wrap(err, apperrors.CodeSearchBlocked, "search provider blocked the request, try again later")
	}

	var token *search.TokenExtractionError
	if errors.As(err, &token) {
		return apperrors.Wrap(err, apperrors.CodeTokenExtraction, "search provider changed its page format")
	}

	var backend *search.BackendError
	if errors.As(err, &backend) {
		return apperrors.Wrap(err, apperrors.CodeSearchBackend, "search request failed")
	}

	return apperrors.Wrap(err, apperrors.CodeUnknown, "search failed")
}
