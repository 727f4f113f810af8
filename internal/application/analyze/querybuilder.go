package analyze

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"find-origin-api/internal/domain/entity"
)

// DefaultMaxQueries 默认构造的查询上限
const DefaultMaxQueries = 3

// 兜底查询取原始文本的前缀长度（按 rune 计）
const rawPrefixLen = 150

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeQuery 折叠空白并去掉首尾空格，用于查询去重
func NormalizeQuery(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// BuildQueries 由实体和原始文本构造去重后的有序查询集。
// 构造顺序：声明句 → 人名 → 首条声明+首个人名+首个日期的组合 →
// 原始文本前缀兜底。归一化后长度不超过 5 或重复的候选会被丢弃。
func BuildQueries(entities entity.ExtractedEntities, rawText string, maxQueries int) []string {
	if maxQueries <= 0 {
		maxQueries = DefaultMaxQueries
	}

	var queries []string
	accepted := make(map[string]bool)

	add := func(q string) {
		if len(queries) >= maxQueries {
			return
		}
		n := NormalizeQuery(q)
		if utf8.RuneCountInString(n) <= 5 || accepted[n] {
			return
		}
		accepted[n] = true
		queries = append(queries, q)
	}

	for _, c := range entities.Claims {
		if len(queries) >= maxQueries {
			break
		}
		add(c)
	}
	for _, name := range entities.Names {
		if len(queries) >= maxQueries {
			break
		}
		add(name)
	}

	// 组合查询仅在存在日期时参与，不产生空串
	if len(entities.Dates) > 0 {
		var parts []string
		if len(entities.Claims) > 0 {
			parts = append(parts, entities.Claims[0])
		}
		if len(entities.Names) > 0 {
			parts = append(parts, entities.Names[0])
		}
		parts = append(parts, entities.Dates[0])
		if combined := strings.Join(parts, " "); combined != "" {
			add(combined)
		}
	}

	if len(queries) < maxQueries && utf8.RuneCountInString(rawText) > 10 {
		if short := strings.TrimSpace(truncateRunes(rawText, rawPrefixLen)); short != "" {
			add(short)
		}
	}

	return queries
}

// truncateRunes 按 rune 截断字符串
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
