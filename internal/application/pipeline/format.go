package pipeline

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// 展示用的截断与数量上限
const (
	previewLen       = 100
	maxShownClaims   = 3
	maxShownDates    = 5
	maxShownNumbers  = 5
	maxShownNames    = 5
	maxShownLinks    = 3
	maxShownFallback = 3
)

// FormatSections 把结果排版为有序的 HTML 片段列表。
// 调用方（聊天投递、HTTP 响应）自行决定如何拼接与切块，
// 核心不假设任何消息长度上限。
func FormatSections(res *SearchResult) []string {
	var sections []string

	preview := res.Text
	if utf8.RuneCountInString(preview) > previewLen {
		preview = string([]rune(preview)[:previewLen]) + "…"
	}
	sections = append(sections, "<b>Query:</b> "+html.EscapeString(preview))
	sections = append(sections, "<b>Extracted:</b>\n"+formatEntitiesBlock(res))

	if len(res.Candidates) == 0 {
		sections = append(sections, "<b>Sources:</b>\nNo links found in the text. Add a URL to analyze.")
		return sections
	}

	sections = append(sections, fmt.Sprintf("<b>Candidates found:</b> %d", len(res.Candidates)))

	header := "<b>Recommended sources</b>"
	if res.UsedAI {
		header += " (AI analysis)"
	}
	header += ":"

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	if len(res.Ranked) == 0 {
		b.WriteString("No sources selected. Top by type:\n")
		shown := res.Candidates
		if len(shown) > maxShownFallback {
			shown = shown[:maxShownFallback]
		}
		for _, c := range shown {
			title := c.Title
			if title == "" {
				title = c.URL
			}
			fmt.Fprintf(&b, "• <a href=\"%s\">%s</a> [%s] — Medium\n",
				html.EscapeString(c.URL), html.EscapeString(title), c.SourceType)
		}
	} else {
		for _, r := range res.Ranked {
			fmt.Fprintf(&b, "• <a href=\"%s\">%s</a>\n", html.EscapeString(r.URL), html.EscapeString(r.Title))
			b.WriteString("  Confidence: " + confidenceLabel(string(r.Confidence)))
			if r.Reason != "" {
				b.WriteString(" — " + html.EscapeString(r.Reason))
			}
			b.WriteString("\n")
		}
	}
	sections = append(sections, strings.TrimRight(b.String(), "\n"))

	return sections
}

func formatEntitiesBlock(res *SearchResult) string {
	var parts []string
	if block := formatList("Claims", res.Entities.Claims, maxShownClaims, "; "); block != "" {
		parts = append(parts, block)
	}
	if block := formatList("Dates", res.Entities.Dates, maxShownDates, ", "); block != "" {
		parts = append(parts, block)
	}
	if block := formatList("Numbers", res.Entities.Numbers, maxShownNumbers, ", "); block != "" {
		parts = append(parts, block)
	}
	if block := formatList("Names", res.Entities.Names, maxShownNames, ", "); block != "" {
		parts = append(parts, block)
	}
	if block := formatList("Links", res.Entities.Links, maxShownLinks, ", "); block != "" {
		parts = append(parts, block)
	}
	if len(parts) == 0 {
		return "• (nothing extracted)"
	}
	return strings.Join(parts, "\n")
}

func formatList(label string, items []string, max int, sep string) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > max {
		items = items[:max]
	}
	escaped := make([]string, 0, len(items))
	for _, item := range items {
		escaped = append(escaped, html.EscapeString(item))
	}
	return "• " + label + ": " + strings.Join(escaped, sep)
}

func confidenceLabel(level string) string {
	switch level {
	case "high":
		return "High"
	case "medium":
		return "Medium"
	case "low":
		return "Low"
	default:
		return level
	}
}
