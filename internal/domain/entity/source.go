// Package entity 定义核心领域模型
package entity

// SourceType 候选来源的粗粒度类型
type SourceType string

// 来源类型取值
const (
	SourceOfficial SourceType = "official"
	SourceResearch SourceType = "research"
	SourceNews     SourceType = "news"
	SourceBlog     SourceType = "blog"
	SourceOther    SourceType = "other"
)

// Priority 返回来源类型的排序优先级，越大越可信
func (t SourceType) Priority() int {
	switch t {
	case SourceOfficial:
		return 4
	case SourceResearch:
		return 3
	case SourceNews:
		return 2
	case SourceBlog:
		return 1
	default:
		return 0
	}
}

// Confidence 排序结果的置信级别
type Confidence string

// 置信级别取值，high > medium > low
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank 返回置信级别的序数，用于降序排序
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// NormalizeConfidence 将模型返回的任意置信字符串收敛为合法级别。
// 未识别的值一律按 medium 处理。
func NormalizeConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s)
	default:
		return ConfidenceMedium
	}
}

// SearchCandidate 一条候选来源。
// URL 在单次结果集内唯一；分类之后不再修改。
type SearchCandidate struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Snippet    string     `json:"snippet"`
	SourceType SourceType `json:"source_type"`
}

// RankedSource 排序器输出的一条来源。
// 不变量：URL 必须指向同一结果集中已存在的候选。
type RankedSource struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason,omitempty"`
}
