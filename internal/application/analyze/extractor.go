// Package analyze 负责从原始文本中提取实体并构造搜索查询
package analyze

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"find-origin-api/internal/domain/entity"
)

// 声明句长度（按 rune 计）与数量上限
const (
	minClaimLen = 21
	maxClaimLen = 299
	maxClaims   = 5
)

var (
	// 日期：D.M.Y / D/M/Y、ISO Y-M-D，以及俄语月份写法 "D <месяц> Y"
	dateRe = regexp.MustCompile(`(?i)\b(\d{1,2}[./]\d{1,2}[./]\d{2,4}|\d{4}-\d{2}-\d{2}|\d{1,2}\s+(?:января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)\s+\d{4})\b`)

	// 数字：整数/小数，可带百分号、货币符号或数量级后缀；保留匹配到的原始子串
	numberRe = regexp.MustCompile(`\b\d+(?:[.,]\d+)?(?:\s*(?:%|₽|\$|€|тыс|млн|млрд))?`)

	// 链接：http(s) 到第一个空白符为止
	linkRe = regexp.MustCompile(`https?://\S+`)

	// 人名 token：首字母大写 + 小写余部（拉丁或西里尔）
	nameTokenRe = regexp.MustCompile(`^\p{Lu}\p{Ll}+`)

	// 句子终止符
	sentenceEnd = func(r rune) bool { return r == '.' || r == '!' || r == '?' }
)

// Extract 从文本中提取实体。纯函数，永不失败：
// 缺失的模式产生空序列而不是错误。
func Extract(text string) entity.ExtractedEntities {
	return entity.ExtractedEntities{
		Claims:  extractClaims(text),
		Dates:   matchAll(dateRe, text),
		Numbers: matchAll(numberRe, text),
		Names:   extractNames(text),
		Links:   matchAll(linkRe, text),
	}
}

func matchAll(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllString(text, -1) {
		out = append(out, strings.TrimSpace(m))
	}
	return out
}

// extractNames 找出两个及以上连续的首字母大写词。
// 逐 token 扫描而非单条正则：RE2 的 \b 对西里尔字母不生效。
// token 带尾部标点时其词干仍计入当前词组，但词组到此终止
// （对应 "Владимир Путин," 提取出 "Владимир Путин" 的行为）。
func extractNames(text string) []string {
	seen := make(map[string]bool)
	var names []string
	var run []string

	flush := func() {
		if len(run) >= 2 {
			name := strings.Join(run, " ")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		run = nil
	}

	for _, tok := range strings.Fields(text) {
		core := strings.TrimLeftFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		word := nameTokenRe.FindString(core)
		if word == "" {
			flush()
			continue
		}
		run = append(run, word)
		if len(word) < len(core) {
			// 词干后还挂着标点，词组在这里断开
			flush()
		}
	}
	flush()

	return names
}

// extractClaims 按句子终止符切分，保留长度落在 [21,299] 内的句子，
// 最多取前 5 条，顺序与原文一致。
func extractClaims(text string) []string {
	var claims []string
	for _, s := range strings.FieldsFunc(text, sentenceEnd) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if n := utf8.RuneCountInString(s); n >= minClaimLen && n <= maxClaimLen {
			claims = append(claims, s)
			if len(claims) == maxClaims {
				break
			}
		}
	}
	return claims
}
