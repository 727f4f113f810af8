// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"find-origin-api/internal/application/collect"
	"find-origin-api/internal/application/pipeline"
	"find-origin-api/internal/application/rank"
	"find-origin-api/internal/config"
	"find-origin-api/internal/infrastructure/llm"
	"find-origin-api/internal/infrastructure/search"
	"find-origin-api/internal/infrastructure/telegram"
	"find-origin-api/internal/interfaces/http/handler"
	"find-origin-api/internal/interfaces/http/router"
	"find-origin-api/pkg/logger"
)

// App 组装完成的应用
type App struct {
	Router   *router.Router
	Pipeline *pipeline.Pipeline
	Bot      *telegram.Client
}

// InitializeApp 按配置组装整个依赖图。
// SerpAPI 配了 key 就用直连 API，否则回退到抓取式后端。
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, scraped, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "search backend selected",
		"backend", backend.Name(),
		"scraped", scraped,
	)

	collector := collect.New(backend, scraped, cfg.Pipeline.InterQueryDelay)

	ranker, err := newRanker(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(collector, ranker, pipeline.Config{
		Mode:          pipeline.Mode(cfg.Pipeline.Mode),
		MaxQueries:    cfg.Pipeline.MaxQueries,
		LimitPerQuery: cfg.Pipeline.LimitPerQuery,
		MaxTotal:      cfg.Pipeline.MaxTotal,
	})

	bot := telegram.NewClient(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		APIURL:   cfg.Telegram.APIURL,
		Timeout:  cfg.Telegram.Timeout,
	})
	if bot == nil {
		logger.Warn(ctx, "telegram bot token not set, webhook replies disabled")
	}

	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(cfg.App.Version),
		Search:  handler.NewSearchHandler(p),
		Webhook: handler.NewWebhookHandler(p, bot, cfg.Telegram.WebhookSecret),
	}

	return &App{
		Router:   router.New(cfg, handlers),
		Pipeline: p,
		Bot:      bot,
	}, nil
}

// newBackend 选择搜索后端
func newBackend(cfg *config.Config) (search.Backend, bool, error) {
	if cfg.Search.SerpAPI.APIKey != "" {
		backend, err := search.NewSerpAPI(search.SerpAPIConfig{
			APIKey:  cfg.Search.SerpAPI.APIKey,
			APIURL:  cfg.Search.SerpAPI.APIURL,
			Timeout: cfg.Search.SerpAPI.Timeout,
		})
		if err != nil {
			return nil, false, fmt.Errorf("init serpapi backend: %w", err)
		}
		return backend, false, nil
	}

	cooldown := search.NewCooldown(cfg.Search.Cooldown)
	backend, err := search.NewDuckDuckGo(search.DuckDuckGoConfig{
		BaseURL:     cfg.Search.DuckDuckGo.BaseURL,
		HTMLURL:     cfg.Search.DuckDuckGo.HTMLURL,
		Timeout:     cfg.Search.DuckDuckGo.Timeout,
		SettleDelay: cfg.Search.DuckDuckGo.SettleDelay,
	}, cooldown)
	if err != nil {
		return nil, false, fmt.Errorf("init duckduckgo backend: %w", err)
	}
	return backend, true, nil
}

// newRanker 构建排序器，LLM 未配置时退化为确定性兜底
func newRanker(ctx context.Context, cfg *config.Config) (*rank.Ranker, error) {
	factory := llm.NewEinoFactory(cfg)
	if !factory.Configured() {
		logger.Warn(ctx, "llm provider not configured, ranking falls back to source type order")
		return rank.New(nil), nil
	}

	chatModel, err := factory.Default(ctx)
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return rank.New(chatModel), nil
}
