package dto

// SearchRequest 来源分析请求
type SearchRequest struct {
	Text string `json:"text" binding:"required"`
}
