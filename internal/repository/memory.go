// internal/repository/memory.go
package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/javajoker/catalog-backend/internal/models"
)

// MemoryProductRepository keeps products in process memory. It mirrors the
// filter, sort and aggregation rules of ProductRepository.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	now      func() time.Time
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for CreatedAt and UpdatedAt.
func (r *MemoryProductRepository) WithClock(now func() time.Time) *MemoryProductRepository {
	r.now = now
	return r
}

func (r *MemoryProductRepository) FindByArticleNumber(_ context.Context, articleNumber string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[articleNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ArticleNumber]; exists {
		return ErrDuplicate
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = r.now()
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}

	r.products[product.ArticleNumber] = *product
	return nil
}

func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ArticleNumber]; !exists {
		return ErrNotFound
	}

	product.UpdatedAt = r.now()
	r.products[product.ArticleNumber] = *product
	return nil
}

func (r *MemoryProductRepository) DeleteByArticleNumber(_ context.Context, articleNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[articleNumber]; !exists {
		return false, nil
	}
	delete(r.products, articleNumber)
	return true, nil
}

func (r *MemoryProductRepository) Search(_ context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	matched := r.matching(query.ProductFilter)
	r.mu.RUnlock()

	sortProducts(matched, query.SortField, query.SortOrder)
	total := int64(len(matched))

	if query.PageSize > 0 {
		start := query.Offset()
		if start < 0 || start >= len(matched) {
			return []models.Product{}, total, nil
		}
		end := start + query.PageSize
		if end > len(matched) || end < start {
			end = len(matched)
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}

func (r *MemoryProductRepository) Count(_ context.Context, filter models.ProductFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matching(filter))), nil
}

func (r *MemoryProductRepository) CountCreatedByDay(_ context.Context, since time.Time, loc *time.Location) ([]models.DailyCount, error) {
	r.mu.RLock()
	counts := make(map[string]int64)
	for _, product := range r.products {
		if product.CreatedAt.Before(since) {
			continue
		}
		counts[models.DayKey(product.CreatedAt, loc)]++
	}
	r.mu.RUnlock()

	rows := make([]models.DailyCount, 0, len(counts))
	for day, count := range counts {
		rows = append(rows, models.DailyCount{Date: day, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows, nil
}

// matching must be called with r.mu held.
func (r *MemoryProductRepository) matching(filter models.ProductFilter) []models.Product {
	term := ""
	if filter.SearchTerm != "" {
		term = cases.Fold().String(filter.SearchTerm)
	}

	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		if term != "" &&
			!strings.Contains(cases.Fold().String(product.ArticleNumber), term) &&
			!strings.Contains(cases.Fold().String(product.Description), term) {
			continue
		}
		if filter.HasDocument != nil && product.HasDocument() != *filter.HasDocument {
			continue
		}
		products = append(products, product)
	}
	return products
}

func sortProducts(products []models.Product, field models.SortField, order models.SortOrder) {
	compare := func(a, b *models.Product) int {
		switch field {
		case models.SortFieldArticleNumber:
			return strings.Compare(a.ArticleNumber, b.ArticleNumber)
		case models.SortFieldDescription:
			return strings.Compare(a.Description, b.Description)
		case models.SortFieldDocumentURL:
			return strings.Compare(a.DocumentURL, b.DocumentURL)
		case models.SortFieldUpdatedAt:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		c := compare(&products[i], &products[j])
		if order != models.SortOrderAsc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return products[i].ArticleNumber < products[j].ArticleNumber
	})
}
