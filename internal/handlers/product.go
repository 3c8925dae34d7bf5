// internal/handlers/product.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	fileFields     []string
	maxUploadSize  int64
	maxPageSize    int
}

type ProductHandlerOptions struct {
	// FileFields lists the multipart fields checked for a document, in order.
	FileFields    []string
	MaxUploadSize int64
	MaxPageSize   int
}

type upsertProductForm struct {
	ArticleNumber string `form:"articleNumber" json:"articleNumber"`
	Description   string `form:"description" json:"description"`
}

func NewProductHandler(productService *services.ProductService, opts ProductHandlerOptions) *ProductHandler {
	if len(opts.FileFields) == 0 {
		opts.FileFields = []string{"file"}
	}

	return &ProductHandler{
		productService: productService,
		fileFields:     opts.FileFields,
		maxUploadSize:  opts.MaxUploadSize,
		maxPageSize:    opts.MaxPageSize,
	}
}

// POST /products
func (h *ProductHandler) UpsertProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var form upsertProductForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	file, err := h.readDocument(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", i18n.T(lang, i18n.KeyFileRejected), err.Error())
		return
	}

	result, err := h.productService.UpsertProduct(c.Request.Context(), &services.UpsertProductRequest{
		ArticleNumber: form.ArticleNumber,
		Description:   form.Description,
		File:          file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status, key := http.StatusOK, i18n.KeyProductUpdated
	if result.Status == models.UpsertStatusCreated {
		status, key = http.StatusCreated, i18n.KeyProductCreated
	}

	c.JSON(status, gin.H{
		"status":  result.Status,
		"message": i18n.T(lang, key),
		"product": result.Product,
	})
}

// readDocument returns the first attached file among the configured fields,
// or nil when the request carries none.
func (h *ProductHandler) readDocument(c *gin.Context) (*services.FileUpload, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}

	for _, field := range h.fileFields {
		header, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read file %q: %w", field, err)
		}
		return h.readFileHeader(header)
	}

	return nil, nil
}

func (h *ProductHandler) readFileHeader(header *multipart.FileHeader) (*services.FileUpload, error) {
	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		return nil, fmt.Errorf("file size %s exceeds maximum allowed size %s",
			units.HumanSize(float64(header.Size)), units.HumanSize(float64(h.maxUploadSize)))
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &services.FileUpload{Name: header.Filename, Data: data}, nil
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	query := utils.GetProductQuery(c, h.maxPageSize)

	page, err := h.productService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SetPaginationHeaders(c, query, page.TotalCount)
	c.JSON(http.StatusOK, page)
}

// GET /products/stats
func (h *ProductHandler) GetStats(c *gin.Context) {
	stats, err := h.productService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GET /products/:articleNumber
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("articleNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DELETE /products/:articleNumber
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("articleNumber")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}
