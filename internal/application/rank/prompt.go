package rank

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"find-origin-api/internal/domain/entity"
)

// 提示词中的截断上限（按 rune 计）
const (
	maxPromptTextLen    = 1500
	maxPromptCandidates = 12
	maxPromptSnippetLen = 150
)

const promptHeader = `You are a source verification expert. Compare the original text with the candidates by MEANING, not by literal overlap. Pick the 1-3 best sources that most likely contain or confirm the information from the original text.`

const promptFooter = `Answer ONLY with valid JSON in the format:
{"sources":[{"url":"...","title":"...","confidence":"high|medium|low","reason":"brief why"}]}
- url and title must exactly match one of the candidates
- confidence: high (clearly confirms), medium (partial/indirect), low (weak relation)
- Pick 1-3 sources. If none fit, return an empty array.`

// buildPrompt 构造单条对比提示词：截断后的原文 + 编号候选清单
func buildPrompt(originalText string, candidates []entity.SearchCandidate) string {
	if len(candidates) > maxPromptCandidates {
		candidates = candidates[:maxPromptCandidates]
	}

	var lines []string
	for i, c := range candidates {
		line := fmt.Sprintf("%d. [%s] %s\n   URL: %s", i+1, c.SourceType, c.Title, c.URL)
		if c.Snippet != "" {
			line += "\n   Snippet: " + truncateRunes(c.Snippet, maxPromptSnippetLen)
		}
		lines = append(lines, line)
	}

	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nOriginal text:\n\"\"\"\n")
	b.WriteString(truncateRunes(originalText, maxPromptTextLen))
	b.WriteString("\n\"\"\"\n\nCandidates:\n")
	b.WriteString(strings.Join(lines, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(promptFooter)
	return b.String()
}

// truncateRunes 按 rune 截断字符串
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
