package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	integrationUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/integration"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

type IntegrationHandler struct {
	integrationUseCase *integrationUC.IntegrationUseCase
}

func NewIntegrationHandler(uc *integrationUC.IntegrationUseCase) *IntegrationHandler {
	return &IntegrationHandler{integrationUseCase: uc}
}

func (h *IntegrationHandler) List(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	output, err := h.integrationUseCase.ExecuteList(c.Request.Context(), integrationUC.ListInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, IntegrationsResponse{Integrations: output.Integrations})
}

func (h *IntegrationHandler) ConnectURL(c *gin.Context) {
	output, err := h.integrationUseCase.ExecuteConnectURL(c.Request.Context(), integrationUC.ConnectURLInput{Provider: c.Param("provider")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": output.AuthURL})
}

func (h *IntegrationHandler) Callback(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation("code", "Authorization code is required"))
		return
	}

	provider := c.Param("provider")
	output, err := h.integrationUseCase.ExecuteConnect(c.Request.Context(), integrationUC.ConnectInput{
		UserID:   userID,
		Provider: provider,
		Code:     req.Code,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": provider + " connected", "integration": output.Integration})
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	provider := c.Param("provider")
	if err := h.integrationUseCase.ExecuteDisconnect(c.Request.Context(), integrationUC.DisconnectInput{UserID: userID, Provider: provider}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": provider + " disconnected"})
}

func (h *IntegrationHandler) Sync(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	output, err := h.integrationUseCase.ExecuteSync(c.Request.Context(), integrationUC.SyncInput{
		UserID:   userID,
		Provider: c.Param("provider"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	body := gin.H{"message": "Synced", "lastSyncedAt": output.LastSyncedAt}
	if len(output.TopRepositories) > 0 {
		body["topRepositories"] = output.TopRepositories
	}
	c.JSON(http.StatusOK, body)
}
