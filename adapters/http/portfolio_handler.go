package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/portfolio"
	profileUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type PortfolioHandler struct {
	portfolioUseCase *portfolioUC.PortfolioUseCase
	profileUseCase   *profileUC.ProfileUseCase
	logger           logger.Logger
}

func NewPortfolioHandler(portfolio *portfolioUC.PortfolioUseCase, profile *profileUC.ProfileUseCase, log logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioUseCase: portfolio,
		profileUseCase:   profile,
		logger:           log,
	}
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	output, err := h.portfolioUseCase.ExecuteAssemble(c.Request.Context(), portfolioUC.AssembleInput{Username: c.Param("username")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, PortfolioResponse{
		Profile:  output.Profile,
		Projects: ToProjectDTOs(output.Projects),
		Sections: output.Sections,
	})
}

func (h *PortfolioHandler) GetFeed(c *gin.Context) {
	feed, err := h.portfolioUseCase.ExecuteFeed(c.Request.Context(), portfolioUC.FeedInput{Username: c.Param("username")})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write portfolio feed to response", err)
	}
}

func (h *PortfolioHandler) SetSectionOrder(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req sectionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation("sectionOrder", "Section order must be an array"))
		return
	}

	output, err := h.profileUseCase.ExecuteSetSectionOrder(c.Request.Context(), profileUC.SetSectionOrderInput{
		UserID:       userID,
		SectionOrder: req.SectionOrder,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Section order updated successfully", "sectionOrder": output.SectionOrder})
}

func (h *PortfolioHandler) SetSectionVisibility(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req sectionVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation("visible", "Section and visible status are required"))
		return
	}

	output, err := h.profileUseCase.ExecuteSetSectionVisibility(c.Request.Context(), profileUC.SetSectionVisibilityInput{
		UserID:  userID,
		Section: req.Section,
		Visible: req.Visible,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Section visibility updated successfully", "visibleSections": output.VisibleSections})
}
