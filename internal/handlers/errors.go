// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

// respondError maps service error kinds onto the error envelope.
func respondError(c *gin.Context, err error) {
	c.Error(err)

	switch {
	case errors.Is(err, services.ErrValidation):
		if details := utils.GetValidationErrors(err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		lang := utils.GetLangFromContext(c)
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR",
			i18n.T(lang, i18n.KeyFileRejected), services.Detail(err))
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrUpload):
		utils.UploadFailedResponse(c)
	case errors.Is(err, services.ErrStore):
		utils.StoreFailedResponse(c)
	default:
		utils.InternalErrorResponse(c, "")
	}
}
