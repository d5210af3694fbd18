package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	seoUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/seo"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

type SEOHandler struct {
	seoUseCase *seoUC.SEOUseCase
}

func NewSEOHandler(uc *seoUC.SEOUseCase) *SEOHandler {
	return &SEOHandler{seoUseCase: uc}
}

func (h *SEOHandler) GetSEOData(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	output, err := h.seoUseCase.ExecuteGet(c.Request.Context(), seoUC.GetSEOInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seoData": output.SEOData})
}

func (h *SEOHandler) UpdateSEOData(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req profile.SEOData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "invalid JSON body for SEO update"))
		return
	}

	output, err := h.seoUseCase.ExecuteUpdate(c.Request.Context(), seoUC.UpdateSEOInput{UserID: userID, SEOData: req})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "SEO data updated successfully", "seoData": output.SEOData})
}

func (h *SEOHandler) GetAnalysis(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	analysis, err := h.seoUseCase.ExecuteAnalyze(c.Request.Context(), seoUC.AnalyzeInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *SEOHandler) GenerateSuggestions(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	analysis, err := h.seoUseCase.ExecuteAnalyze(c.Request.Context(), seoUC.AnalyzeInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": analysis.Suggestions})
}

func (h *SEOHandler) GetPreview(c *gin.Context) {
	preview, err := h.seoUseCase.ExecutePreview(c.Request.Context(), seoUC.PreviewInput{Username: c.Param("username")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, preview)
}
