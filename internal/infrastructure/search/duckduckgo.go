package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"find-origin-api/internal/domain/entity"
	"find-origin-api/pkg/logger"
)

// DuckDuckGo HTML 端点。官方不提供抓取契约，页面结构随时可能漂移。
const (
	defaultDDGBaseURL = "https://duckduckgo.com"
	defaultDDGHTMLURL = "https://html.duckduckgo.com/html/"

	defaultDDGTimeout     = 15 * time.Second
	defaultDDGSettleDelay = 3 * time.Second

	ddgName = "duckduckgo"
)

// vqd 令牌的已知出现形式，按顺序尝试，首个命中生效。
// 没有哪一条是权威的：上游页面格式明确处于漂移状态。
var vqdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`vqd=['"](\d+-\d+(?:-\d+)?)['"]`),
	regexp.MustCompile(`vqd=(\d+-\d+(?:-\d+)?)&`),
	regexp.MustCompile(`"vqd":"(\d+-\d+(?:-\d+)?)"`),
}

var (
	resultLinkRe = regexp.MustCompile(`(?is)<a[^>]+class="[^"]*result__a[^"]*"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)

	captchaRe = regexp.MustCompile(`(?i)challenge-form|not a robot|captcha`)
	blockedRe = regexp.MustCompile(`(?i)your IP address|your user agent|rate limit|blocked`)
)

// 伪装成桌面浏览器；裸 User-Agent 会立刻触发 anomaly 检测
var ddgHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp;q=0.8,*/*;q=0.5",
	"Accept-Language":           "en-US,en;q=0.9",
	"Upgrade-Insecure-Requests": "1",
}

// DuckDuckGoConfig 抓取后端配置
type DuckDuckGoConfig struct {
	BaseURL     string
	HTMLURL     string
	Timeout     time.Duration
	SettleDelay time.Duration
}

// DuckDuckGo 基于 HTML 抓取的搜索后端。
// 两段式协议：先 GET 结果页取 vqd 会话令牌和 Cookie，
// 停顿片刻后 POST 表单到 HTML 结果端点并解析锚点块。
type DuckDuckGo struct {
	client   *http.Client
	cooldown *Cooldown
	baseURL  string
	htmlURL  string
	settle   time.Duration
}

// NewDuckDuckGo 创建抓取后端；cooldown 为进程级共享的冷却计时器
func NewDuckDuckGo(cfg DuckDuckGoConfig, cooldown *Cooldown) (*DuckDuckGo, error) {
	if cooldown == nil {
		return nil, fmt.Errorf("duckduckgo backend requires a cooldown")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDDGBaseURL
	}
	if cfg.HTMLURL == "" {
		cfg.HTMLURL = defaultDDGHTMLURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDDGTimeout
	}

	// Cookie 保存在 jar 中，第二阶段请求依赖第一阶段下发的 Cookie
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &DuckDuckGo{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		cooldown: cooldown,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		htmlURL:  cfg.HTMLURL,
		settle:   cfg.SettleDelay,
	}, nil
}

// Name 返回后端标识
func (d *DuckDuckGo) Name() string {
	return ddgName
}

// Search 执行一次两段式抓取。
// 冷却窗口在尝试开始时即被占用，后续失败不恢复窗口。
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]entity.SearchCandidate, error) {
	if err := d.cooldown.TryAcquire(); err != nil {
		return nil, err
	}

	vqd, err := d.fetchToken(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := d.settleDown(ctx); err != nil {
		return nil, err
	}

	return d.fetchResults(ctx, query, vqd, limit)
}

// fetchToken 第一阶段：抓结果页，扫出 vqd 会话令牌
func (d *DuckDuckGo) fetchToken(ctx context.Context, query string) (string, error) {
	endpoint := d.baseURL + "/?q=" + url.QueryEscape(query) + "&ia=web"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &BackendError{Backend: ddgName, Err: err}
	}
	applyHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", &BackendError{Backend: ddgName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Backend: ddgName, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &BackendError{Backend: ddgName, StatusCode: resp.StatusCode}
	}

	page := string(body)
	if captchaRe.MatchString(page) {
		return "", &BlockedError{Backend: ddgName, Marker: "captcha"}
	}

	for _, re := range vqdPatterns {
		if m := re.FindStringSubmatch(page); m != nil {
			return m[1], nil
		}
	}
	return "", &TokenExtractionError{Backend: ddgName}
}

// settleDown 两阶段之间的固定停顿，带少量抖动。
// 立刻发第二个请求是最常见的 anomaly 触发方式。
func (d *DuckDuckGo) settleDown(ctx context.Context) error {
	if d.settle <= 0 {
		return nil
	}
	delay := d.settle + time.Duration(rand.Intn(500))*time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fetchResults 第二阶段：POST 表单到 HTML 端点并解析结果锚点
func (d *DuckDuckGo) fetchResults(ctx context.Context, query, vqd string, limit int) ([]entity.SearchCandidate, error) {
	form := url.Values{
		"q":          {query},
		"b":          {""},
		"s":          {"0"},
		"nextParams": {""},
		"v":          {"l"},
		"o":          {"json"},
		"dc":         {"1"},
		"api":        {"d.js"},
		"vqd":        {vqd},
		"kl":         {"wt-wt"},
		"df":         {""},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.htmlURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &BackendError{Backend: ddgName, Err: err}
	}
	applyHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", d.htmlURL)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &BackendError{Backend: ddgName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BackendError{Backend: ddgName, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &BackendError{Backend: ddgName, StatusCode: resp.StatusCode}
	}

	page := string(body)
	if captchaRe.MatchString(page) {
		return nil, &BlockedError{Backend: ddgName, Marker: "captcha"}
	}
	if blockedRe.MatchString(page) {
		return nil, &BlockedError{Backend: ddgName, Marker: "rate-limit"}
	}

	candidates := parseResultPage(page, limit)
	logger.Debug(ctx, "duckduckgo scrape finished",
		"query", query,
		"results", len(candidates),
	)
	return candidates, nil
}

// parseResultPage 从结果页 HTML 中恢复 (url, title) 对
func parseResultPage(page string, limit int) []entity.SearchCandidate {
	var out []entity.SearchCandidate
	for _, m := range resultLinkRe.FindAllStringSubmatch(page, -1) {
		link := strings.TrimSpace(html.UnescapeString(m[1]))
		title := strings.TrimSpace(html.UnescapeString(htmlTagRe.ReplaceAllString(m[2], "")))
		if !strings.HasPrefix(link, "http") || title == "" {
			continue
		}
		out = append(out, entity.SearchCandidate{
			URL:   link,
			Title: title,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func applyHeaders(req *http.Request) {
	for k, v := range ddgHeaders {
		req.Header.Set(k, v)
	}
}
