package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/models"
)

// dryRunDB renders statements without opening a connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=postgres dbname=catalog sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestApplyFilterSQL(t *testing.T) {
	db := dryRunDB(t)
	with, without := true, false

	tests := []struct {
		name     string
		filter   models.ProductFilter
		contains []string
		excludes []string
	}{
		{
			name:     "no filter",
			filter:   models.ProductFilter{},
			excludes: []string{"WHERE"},
		},
		{
			name:     "search term is lowered and escaped",
			filter:   models.ProductFilter{SearchTerm: "Foo_50%"},
			contains: []string{"LOWER(article_number) LIKE", "OR LOWER(description) LIKE", `'%foo\_50\%%'`},
		},
		{
			name:     "with document",
			filter:   models.ProductFilter{HasDocument: &with},
			contains: []string{"document_url IS NOT NULL AND document_url <> ''"},
		},
		{
			name:     "without document",
			filter:   models.ProductFilter{HasDocument: &without},
			contains: []string{"(document_url IS NULL OR document_url = '')"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var products []models.Product
				return ApplyFilter(tx.Model(&models.Product{}), tt.filter).Find(&products)
			})

			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			for _, fragment := range tt.excludes {
				assert.NotContains(t, sql, fragment)
			}
		})
	}
}

func TestApplySortSQL(t *testing.T) {
	db := dryRunDB(t)

	tests := []struct {
		field    models.SortField
		order    models.SortOrder
		contains []string
	}{
		{models.SortFieldCreatedAt, models.SortOrderDesc, []string{`"created_at" DESC`, `"article_number" ASC`}},
		{models.SortFieldDocumentURL, models.SortOrderAsc, []string{`"document_url" ASC`, `"article_number" ASC`}},
		{models.SortField("price"), models.SortOrderAsc, []string{`"created_at" ASC`}},
		{models.SortFieldArticleNumber, models.SortOrderDesc, []string{`"article_number" DESC`}},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var products []models.Product
				return ApplySort(tx.Model(&models.Product{}), tt.field, tt.order).Find(&products)
			})

			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}

func TestDailyActivitySQL(t *testing.T) {
	db := dryRunDB(t)
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []models.DailyCount
		return DailyActivity(tx, since, loc).Find(&rows)
	})

	assert.Contains(t, sql, "to_char(created_at AT TIME ZONE 'Europe/Berlin', 'YYYY-MM-DD') AS date")
	assert.Contains(t, sql, "COUNT(*) AS count")
	assert.Contains(t, sql, "created_at >= '2024-03-01 00:00:00")
	assert.Contains(t, sql, "GROUP BY")
	assert.Contains(t, sql, "ORDER BY date ASC")
}
