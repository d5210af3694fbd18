package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mediaUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/media"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type UploadHandler struct {
	uploadAssetUseCase *mediaUC.UploadAssetUseCase
	logger             logger.Logger
}

func NewUploadHandler(uc *mediaUC.UploadAssetUseCase, log logger.Logger) *UploadHandler {
	return &UploadHandler{uploadAssetUseCase: uc, logger: log}
}

func (h *UploadHandler) UploadAsset(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewValidation("file", "A file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot open uploaded file", err))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("Failed to close uploaded file", zap.Error(err))
		}
	}()

	output, err := h.uploadAssetUseCase.Execute(c.Request.Context(), mediaUC.UploadAssetInput{
		UserID:      userID,
		Kind:        mediaUC.AssetKind(c.Param("kind")),
		ContentType: fileHeader.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": output.URL})
}
