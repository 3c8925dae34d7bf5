// internal/models/product.go
package models

import (
	"math"
	"time"
)

type Product struct {
	BaseModel
	ArticleNumber string `json:"articleNumber" gorm:"size:100;not null;uniqueIndex:idx_products_article_number"`
	Description   string `json:"description" gorm:"type:text"`
	DocumentURL   string `json:"documentUrl" gorm:"type:text"`
	DocumentKey   string `json:"-" gorm:"size:512"`
}

func (p *Product) HasDocument() bool {
	return p.DocumentURL != ""
}

// ProductFilter narrows a listing. An empty SearchTerm and a nil HasDocument
// apply no restriction.
type ProductFilter struct {
	SearchTerm  string
	HasDocument *bool
}

type ProductQuery struct {
	ProductFilter
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int // 0 means unbounded
}

func (q ProductQuery) Offset() int {
	if q.PageSize <= 0 || q.Page <= 1 {
		return 0
	}
	// Pages past the addressable range skip everything.
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

type ProductPage struct {
	Items      []Product `json:"items"`
	TotalCount int64     `json:"totalCount"`
}

type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD in the catalog timezone
	Count int64  `json:"count"`
}

type ProductStats struct {
	TotalCount        int64        `json:"totalCount"`
	WithDocumentCount int64        `json:"withDocumentCount"`
	DailyActivity     []DailyCount `json:"dailyActivity"`
}

const DayLayout = "2006-01-02"

func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}
