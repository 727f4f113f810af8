// Package source 提供来源分类与按类型排序能力
package source

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"find-origin-api/internal/domain/entity"
)

// 分类规则按优先级排列，首个命中即生效。
// 片段清单来自长期维护的已知站点集合，上游站点更名时需要同步。
var (
	officialRe = regexp.MustCompile(`(?i)\.(gov|gob|gouv|govt|mil|edu)(\.[a-z]{2})?(/|$)`)
	newsRe     = regexp.MustCompile(`(?i)(rbc|ria|tass|interfax|reuters|apnews|bbc|cnn|meduza|novayagazeta|vedomosti|forbes|kommersant|ntv|aif|kp\.ru|lenta|gazeta|mk\.ru)`)
	researchRe = regexp.MustCompile(`(?i)(arxiv|doi\.org|ncbi|nih\.gov|nature\.com|sciencedirect|researchgate|scholar|pubmed|ssrn)`)
	blogRe     = regexp.MustCompile(`(?i)(medium|habr|vc\.ru|dtf|pikabu|livejournal|blog|substack|ghost\.org)`)
)

// Classify 将 URL 映射为来源类型。纯函数，解析失败一律归为 other。
func Classify(rawURL string) entity.SourceType {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return entity.SourceOther
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	full := u.Scheme + "://" + u.Host + u.Path

	switch {
	case officialRe.MatchString(host) || officialRe.MatchString(full):
		return entity.SourceOfficial
	case newsRe.MatchString(host):
		return entity.SourceNews
	case researchRe.MatchString(host) || researchRe.MatchString(full):
		return entity.SourceResearch
	case blogRe.MatchString(host):
		return entity.SourceBlog
	default:
		return entity.SourceOther
	}
}

// SortByType 返回按类型优先级稳定降序排列的新切片，不修改入参。
func SortByType(candidates []entity.SearchCandidate) []entity.SearchCandidate {
	sorted := make([]entity.SearchCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SourceType.Priority() > sorted[j].SourceType.Priority()
	})
	return sorted
}
