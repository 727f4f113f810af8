package rank

import (
	"encoding/json"
	"strings"

	"find-origin-api/internal/domain/entity"
)

// 单次排序最多保留的来源条数与理由长度上限
const (
	maxRankedSources = 3
	maxReasonLen     = 100
)

// aiResponse 模型输出的临时结构。视为不可信外部输入：
// 先解析进临时结构，通过校验后才提升为 RankedSource。
type aiResponse struct {
	Sources []aiSource `json:"sources"`
}

type aiSource struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// parseRanked 从模型原始输出中恢复排序条目。
// 解析失败返回空切片而不是错误，调用方据此走确定性兜底。
func parseRanked(raw string) []entity.RankedSource {
	blob := extractJSONObject(raw)
	if blob == "" {
		return nil
	}

	var resp aiResponse
	if err := json.Unmarshal([]byte(blob), &resp); err != nil {
		return nil
	}

	var out []entity.RankedSource
	for _, s := range resp.Sources {
		u := strings.TrimSpace(s.URL)
		title := strings.TrimSpace(s.Title)
		if u == "" || title == "" {
			continue
		}
		out = append(out, entity.RankedSource{
			URL:        u,
			Title:      title,
			Confidence: entity.NormalizeConfidence(strings.ToLower(strings.TrimSpace(s.Confidence))),
			Reason:     truncateRunes(strings.TrimSpace(s.Reason), maxReasonLen),
		})
		if len(out) == maxRankedSources {
			break
		}
	}
	return out
}

// extractJSONObject 从模型输出中截取第一个完整的 JSON 对象。
// 容错逻辑：模型可能在 JSON 前后夹杂解释性文本或代码块围栏。
func extractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	start := strings.Index(raw, "{")
	if start < 0 {
		return ""
	}

	// 括号配对截取，跳过字符串字面量内部的花括号
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
