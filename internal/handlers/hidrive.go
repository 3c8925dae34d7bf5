// internal/handlers/hidrive.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type HiDriveHandler struct {
	hidriveService *services.HiDriveService
}

func NewHiDriveHandler(hidriveService *services.HiDriveService) *HiDriveHandler {
	return &HiDriveHandler{hidriveService: hidriveService}
}

// GET /hidrive/authorize
func (h *HiDriveHandler) Authorize(c *gin.Context) {
	target, err := h.hidriveService.AuthorizeURL()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, target)
}

// GET /hidrive/callback
func (h *HiDriveHandler) Callback(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	code := c.Query("code")
	if code == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyHiDriveMissingCode), nil)
		return
	}

	token, err := h.hidriveService.ExchangeCode(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(lang, i18n.KeyHiDriveAuthenticated),
		"token":   token,
	})
}

func (h *HiDriveHandler) respondError(c *gin.Context, err error) {
	c.Error(err)
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrHiDriveNotConfigured):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", i18n.T(lang, i18n.KeyHiDriveNotConfigured), nil)
	case errors.Is(err, services.ErrInvalidState):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyHiDriveInvalidState), nil)
	case errors.Is(err, services.ErrTokenExchange):
		utils.ErrorResponse(c, http.StatusBadGateway, "TOKEN_EXCHANGE_FAILED", i18n.T(lang, i18n.KeyHiDriveExchangeFailed), nil)
	default:
		utils.InternalErrorResponse(c, "")
	}
}
