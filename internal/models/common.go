// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields. Products are removed with a hard delete so
// the article number can be reused, hence no DeletedAt.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index:idx_products_created_at,sort:desc"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Enums
type UpsertStatus string

const (
	UpsertStatusCreated UpsertStatus = "created"
	UpsertStatusUpdated UpsertStatus = "updated"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

type SortField string

const (
	SortFieldArticleNumber SortField = "articleNumber"
	SortFieldDescription   SortField = "description"
	SortFieldDocumentURL   SortField = "documentUrl"
	SortFieldCreatedAt     SortField = "createdAt"
	SortFieldUpdatedAt     SortField = "updatedAt"
)

var sortFieldAliases = map[string]SortField{
	"articleNumber":  SortFieldArticleNumber,
	"article_number": SortFieldArticleNumber,
	"description":    SortFieldDescription,
	"documentUrl":    SortFieldDocumentURL,
	"document_url":   SortFieldDocumentURL,
	"createdAt":      SortFieldCreatedAt,
	"created_at":     SortFieldCreatedAt,
	"updatedAt":      SortFieldUpdatedAt,
	"updated_at":     SortFieldUpdatedAt,
}

// ParseSortField resolves camelCase and snake_case names, falling back to createdAt.
func ParseSortField(name string) SortField {
	if field, ok := sortFieldAliases[name]; ok {
		return field
	}
	return SortFieldCreatedAt
}

func ParseSortOrder(order string) SortOrder {
	if order == string(SortOrderAsc) {
		return SortOrderAsc
	}
	return SortOrderDesc
}
