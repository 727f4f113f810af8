package handler

import (
	"github.com/gin-gonic/gin"

	"find-origin-api/internal/application/pipeline"
	"find-origin-api/internal/interfaces/http/dto"
	"find-origin-api/pkg/errors"
	"find-origin-api/pkg/logger"
)

// SearchHandler 来源分析处理器
type SearchHandler struct {
	pipeline *pipeline.Pipeline
}

// NewSearchHandler 创建来源分析处理器
func NewSearchHandler(p *pipeline.Pipeline) *SearchHandler {
	return &SearchHandler{pipeline: p}
}

// Search 分析文本并返回排序后的来源
// @Summary 来源分析
// @Description 从文本中提取实体，搜索并排序可能的原始来源
// @Tags Search
// @Accept json
// @Produce json
// @Param body body dto.SearchRequest true "分析请求"
// @Success 200 {object} dto.Response[pipeline.SearchResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "text is required")
		return
	}

	result, err := h.pipeline.Run(ctx, req.Text)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
				Details:   appErr.Detail,
			})
			return
		}
		logger.Error(ctx, "search pipeline failed", err)
		dto.InternalError(c, "analysis failed")
		return
	}

	dto.Success(c, result)
}
