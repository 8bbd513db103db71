package handler

import (
	"github.com/gin-gonic/gin"

	"historical-qa-api/internal/application/analysis"
	"historical-qa-api/internal/interfaces/http/dto"
	"historical-qa-api/pkg/errors"
)

// AnalyzeHandler 问答分析处理器
type AnalyzeHandler struct {
	service *analysis.Service
}

// NewAnalyzeHandler 创建问答分析处理器
func NewAnalyzeHandler(service *analysis.Service) *AnalyzeHandler {
	return &AnalyzeHandler{service: service}
}

// Analyze 问答分析接口
// @Summary 历史问答分析
// @Description 对查询做分类、双通道证据检索并生成答案
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "分析请求"
// @Success 200 {object} dto.AnalyzeResponse
// @Router /api/analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), analysis.Request{
		Query:        req.Query,
		AnalysisType: analysis.Category(req.AnalysisType),
	})
	if err != nil {
		appErr := errors.AsAppError(err)
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}

	dto.Success(c, dto.FromResult(result))
}
