// Package search 提供外部搜索后端实现
package search

import (
	"context"

	"find-origin-api/internal/domain/entity"
)

// Backend 单个外部搜索提供方。
// Search 对一条查询执行一次检索，返回未分类的候选；
// limit 为期望的结果上限，实现可以返回更少。
type Backend interface {
	Search(ctx context.Context, query string, limit int) ([]entity.SearchCandidate, error)
	Name() string
}
