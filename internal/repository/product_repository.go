// internal/repository/product_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/models"
)

const uniqueViolation = "23505"

var sortColumns = map[models.SortField]string{
	models.SortFieldArticleNumber: "article_number",
	models.SortFieldDescription:   "description",
	models.SortFieldDocumentURL:   "document_url",
	models.SortFieldCreatedAt:     "created_at",
	models.SortFieldUpdatedAt:     "updated_at",
}

// ProductRepository stores products in Postgres through gorm.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByArticleNumber(ctx context.Context, articleNumber string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("article_number = ?", articleNumber).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes only the named struct fields plus UpdatedAt.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	columns := append(append([]string{}, fields...), "UpdatedAt")
	result := r.db.WithContext(ctx).Model(product).Select(columns).Updates(product)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteByArticleNumber(ctx context.Context, articleNumber string) (bool, error) {
	result := r.db.WithContext(ctx).Where("article_number = ?", articleNumber).Delete(&models.Product{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete product: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *ProductRepository) Search(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, query.ProductFilter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	tx := ApplySort(r.filtered(ctx, query.ProductFilter), query.SortField, query.SortOrder)
	if query.PageSize > 0 {
		tx = tx.Offset(query.Offset()).Limit(query.PageSize)
	}

	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (r *ProductRepository) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// CountCreatedByDay groups products created at or after since by calendar
// day in loc. Days without creations are not returned.
func (r *ProductRepository) CountCreatedByDay(ctx context.Context, since time.Time, loc *time.Location) ([]models.DailyCount, error) {
	var rows []models.DailyCount
	if err := DailyActivity(r.db.WithContext(ctx), since, loc).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate daily activity: %w", err)
	}
	return rows, nil
}

// DailyActivity builds the per-day creation count query. The day boundaries
// follow loc, which must be an IANA zone name Postgres understands.
func DailyActivity(tx *gorm.DB, since time.Time, loc *time.Location) *gorm.DB {
	return tx.Model(&models.Product{}).
		Select("to_char(created_at AT TIME ZONE ?, 'YYYY-MM-DD') AS date, COUNT(*) AS count", loc.String()).
		Where("created_at >= ?", since).
		Group("date").
		Order("date ASC")
}

func (r *ProductRepository) filtered(ctx context.Context, filter models.ProductFilter) *gorm.DB {
	return ApplyFilter(r.db.WithContext(ctx).Model(&models.Product{}), filter)
}

// ApplyFilter adds the search and document conditions of filter to tx.
func ApplyFilter(tx *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.SearchTerm != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.SearchTerm)) + "%"
		tx = tx.Where("(LOWER(article_number) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	if filter.HasDocument != nil {
		if *filter.HasDocument {
			tx = tx.Where("document_url IS NOT NULL AND document_url <> ''")
		} else {
			tx = tx.Where("(document_url IS NULL OR document_url = '')")
		}
	}

	return tx
}

// ApplySort orders by the mapped column and breaks ties by article number.
func ApplySort(tx *gorm.DB, field models.SortField, order models.SortOrder) *gorm.DB {
	column, ok := sortColumns[field]
	if !ok {
		column = sortColumns[models.SortFieldCreatedAt]
	}

	direction := "DESC"
	if order == models.SortOrderAsc {
		direction = "ASC"
	}

	tx = tx.Order(pq.QuoteIdentifier(column) + " " + direction)
	if column != "article_number" {
		tx = tx.Order(pq.QuoteIdentifier("article_number") + " ASC")
	}
	return tx
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
