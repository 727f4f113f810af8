package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"find-origin-api/internal/domain/entity"
)

const (
	defaultSerpAPIURL     = "https://serpapi.com/search.json"
	defaultSerpAPITimeout = 15 * time.Second

	serpAPIName = "serpapi"
)

// SerpAPIConfig 直连搜索 API 配置
type SerpAPIConfig struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration
}

// SerpAPI 付费直连搜索后端，单次 GET 拉取自然结果
type SerpAPI struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewSerpAPI 创建直连后端，API key 必填
func NewSerpAPI(cfg SerpAPIConfig) (*SerpAPI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("serpapi api key is required")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultSerpAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSerpAPITimeout
	}
	return &SerpAPI{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Name 返回后端标识
func (s *SerpAPI) Name() string {
	return serpAPIName
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Search 对一条查询执行一次 API 调用，将自然结果映射为候选
func (s *SerpAPI) Search(ctx context.Context, query string, limit int) ([]entity.SearchCandidate, error) {
	endpoint, err := url.Parse(s.apiURL)
	if err != nil {
		return nil, &BackendError{Backend: serpAPIName, Err: err}
	}
	q := endpoint.Query()
	q.Set("q", query)
	q.Set("api_key", s.apiKey)
	if limit > 0 {
		q.Set("num", strconv.Itoa(limit))
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &BackendError{Backend: serpAPIName, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &BackendError{Backend: serpAPIName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &BackendError{Backend: serpAPIName, StatusCode: resp.StatusCode}
	}

	var decoded serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &BackendError{Backend: serpAPIName, Err: fmt.Errorf("decode response: %w", err)}
	}

	candidates := make([]entity.SearchCandidate, 0, len(decoded.OrganicResults))
	for _, item := range decoded.OrganicResults {
		if !strings.HasPrefix(item.Link, "http") {
			continue
		}
		candidates = append(candidates, entity.SearchCandidate{
			URL:     item.Link,
			Title:   strings.TrimSpace(item.Title),
			Snippet: strings.TrimSpace(item.Snippet),
		})
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}
	return candidates, nil
}
