// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/models"
)

// GetProductQuery reads page, limit, sort, order, searchTerm (or search) and
// hasDocument from the query string. A missing or non-positive limit leaves
// the listing unbounded unless maxLimit caps it.
func GetProductQuery(c *gin.Context, maxLimit int) models.ProductQuery {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		limit = 0
	}
	if maxLimit > 0 && (limit == 0 || limit > maxLimit) {
		limit = maxLimit
	}

	searchTerm := c.Query("searchTerm")
	if searchTerm == "" {
		searchTerm = c.Query("search")
	}

	var hasDocument *bool
	switch c.Query("hasDocument") {
	case "true":
		v := true
		hasDocument = &v
	case "false":
		v := false
		hasDocument = &v
	}

	return models.ProductQuery{
		ProductFilter: models.ProductFilter{
			SearchTerm:  searchTerm,
			HasDocument: hasDocument,
		},
		SortField: models.ParseSortField(c.DefaultQuery("sort", string(models.SortFieldCreatedAt))),
		SortOrder: models.ParseSortOrder(c.DefaultQuery("order", string(models.SortOrderDesc))),
		Page:      page,
		PageSize:  limit,
	}
}

func SetPaginationHeaders(c *gin.Context, query models.ProductQuery, total int64) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Page", strconv.Itoa(query.Page))
	if query.PageSize > 0 {
		c.Header("X-Per-Page", strconv.Itoa(query.PageSize))
	}
}
