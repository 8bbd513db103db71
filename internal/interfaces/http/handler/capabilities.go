package handler

import (
	"github.com/gin-gonic/gin"

	"historical-qa-api/internal/application/analysis"
	"historical-qa-api/internal/interfaces/http/dto"
)

// CapabilitiesHandler 系统能力查询处理器
type CapabilitiesHandler struct {
	semantic analysis.SemanticStore
}

// NewCapabilitiesHandler 创建系统能力查询处理器，semantic 可为 nil
func NewCapabilitiesHandler(semantic analysis.SemanticStore) *CapabilitiesHandler {
	return &CapabilitiesHandler{semantic: semantic}
}

// Capabilities 系统能力接口
// @Summary 查询系统能力
// @Description 返回语义检索可用性与支持的分析类别
// @Tags System
// @Produce json
// @Success 200 {object} dto.CapabilitiesResponse
// @Router /api/capabilities [get]
func (h *CapabilitiesHandler) Capabilities(c *gin.Context) {
	resp := dto.CapabilitiesResponse{
		Categories: []string{
			string(analysis.CategoryComprehensive),
			string(analysis.CategoryCharacterAnalysis),
			string(analysis.CategoryStoryProgression),
			string(analysis.CategoryRelationships),
			string(analysis.CategoryThemes),
			string(analysis.CategoryTemporal),
		},
		KnownFigures: analysis.KnownFigures(),
	}

	if h.semantic != nil && h.semantic.Enabled() {
		resp.SemanticSearch = true
	} else if h.semantic != nil {
		resp.DisabledReason = h.semantic.DisabledReason()
	} else {
		resp.DisabledReason = "semantic store not configured"
	}

	dto.Success(c, resp)
}
