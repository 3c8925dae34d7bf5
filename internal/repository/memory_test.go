package repository

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/catalog-backend/internal/models"
)

type MemoryRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	now  time.Time
	repo *MemoryProductRepository
}

func (suite *MemoryRepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	suite.repo = NewMemoryProductRepository().WithClock(func() time.Time { return suite.now })
}

func (suite *MemoryRepositoryTestSuite) create(articleNumber, description, documentURL string, createdAt time.Time) {
	product := models.Product{
		ArticleNumber: articleNumber,
		Description:   description,
		DocumentURL:   documentURL,
	}
	product.CreatedAt = createdAt
	suite.Require().NoError(suite.repo.Create(suite.ctx, &product))
}

func (suite *MemoryRepositoryTestSuite) articleNumbers(products []models.Product) []string {
	numbers := make([]string, 0, len(products))
	for _, p := range products {
		numbers = append(numbers, p.ArticleNumber)
	}
	return numbers
}

func (suite *MemoryRepositoryTestSuite) TestCreateRejectsDuplicateKey() {
	suite.create("A1", "foo", "", suite.now)

	err := suite.repo.Create(suite.ctx, &models.Product{ArticleNumber: "A1"})
	suite.ErrorIs(err, ErrDuplicate)
}

func (suite *MemoryRepositoryTestSuite) TestSearchTermMatchesEitherFieldIgnoringCase() {
	suite.create("A1", "foo", "", suite.now)
	suite.create("A2", "bar", "", suite.now.Add(time.Minute))
	suite.create("A3", "FooBar", "", suite.now.Add(2*time.Minute))

	for _, term := range []string{"foo", "FOO", "Foo"} {
		products, total, err := suite.repo.Search(suite.ctx, models.ProductQuery{
			ProductFilter: models.ProductFilter{SearchTerm: term},
			SortField:     models.SortFieldArticleNumber,
			SortOrder:     models.SortOrderAsc,
		})
		suite.Require().NoError(err)
		suite.Equal(int64(2), total)
		suite.Equal([]string{"A1", "A3"}, suite.articleNumbers(products))
	}

	products, _, err := suite.repo.Search(suite.ctx, models.ProductQuery{
		ProductFilter: models.ProductFilter{SearchTerm: "a2"},
	})
	suite.Require().NoError(err)
	suite.Equal([]string{"A2"}, suite.articleNumbers(products))
}

func (suite *MemoryRepositoryTestSuite) TestHasDocumentFilter() {
	suite.create("A1", "", "https://cdn.example.com/a1.pdf", suite.now)
	suite.create("A2", "", "", suite.now)
	suite.create("A3", "", "https://cdn.example.com/a3.pdf", suite.now)

	with, without := true, false

	products, total, err := suite.repo.Search(suite.ctx, models.ProductQuery{
		ProductFilter: models.ProductFilter{HasDocument: &with},
		SortField:     models.SortFieldArticleNumber,
		SortOrder:     models.SortOrderAsc,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Equal([]string{"A1", "A3"}, suite.articleNumbers(products))

	products, total, err = suite.repo.Search(suite.ctx, models.ProductQuery{
		ProductFilter: models.ProductFilter{HasDocument: &without},
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal([]string{"A2"}, suite.articleNumbers(products))
}

func (suite *MemoryRepositoryTestSuite) TestPagination() {
	for i := 1; i <= 10; i++ {
		suite.create(fmt.Sprintf("A%02d", i), "", "", suite.now.Add(time.Duration(i)*time.Minute))
	}

	products, total, err := suite.repo.Search(suite.ctx, models.ProductQuery{
		SortField: models.SortFieldCreatedAt,
		SortOrder: models.SortOrderAsc,
		Page:      2,
		PageSize:  3,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(10), total)
	suite.Equal([]string{"A04", "A05", "A06"}, suite.articleNumbers(products))

	products, total, err = suite.repo.Search(suite.ctx, models.ProductQuery{
		SortField: models.SortFieldCreatedAt,
		SortOrder: models.SortOrderDesc,
		Page:      5,
		PageSize:  3,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(10), total)
	suite.Empty(products)

	products, _, err = suite.repo.Search(suite.ctx, models.ProductQuery{})
	suite.Require().NoError(err)
	suite.Len(products, 10)
	suite.Equal("A10", products[0].ArticleNumber)
}

func (suite *MemoryRepositoryTestSuite) TestSearchFarPastLastPage() {
	for i := 1; i <= 5; i++ {
		suite.create(fmt.Sprintf("A%02d", i), "", "", suite.now)
	}

	for _, page := range []int{math.MaxInt, math.MaxInt/2 + 1} {
		products, total, err := suite.repo.Search(suite.ctx, models.ProductQuery{Page: page, PageSize: 2})
		suite.Require().NoError(err)
		suite.Equal(int64(5), total)
		suite.Empty(products)
	}
}

func (suite *MemoryRepositoryTestSuite) TestSortTieBreaksByArticleNumber() {
	suite.create("B", "same", "", suite.now)
	suite.create("A", "same", "", suite.now)
	suite.create("C", "same", "", suite.now)

	products, _, err := suite.repo.Search(suite.ctx, models.ProductQuery{
		SortField: models.SortFieldDescription,
		SortOrder: models.SortOrderDesc,
	})
	suite.Require().NoError(err)
	suite.Equal([]string{"A", "B", "C"}, suite.articleNumbers(products))
}

func (suite *MemoryRepositoryTestSuite) TestUpdateAndDelete() {
	suite.create("A1", "foo", "", suite.now)

	product, err := suite.repo.FindByArticleNumber(suite.ctx, "A1")
	suite.Require().NoError(err)

	suite.now = suite.now.Add(time.Hour)
	product.Description = "updated"
	suite.Require().NoError(suite.repo.Update(suite.ctx, product, []string{"Description"}))

	stored, err := suite.repo.FindByArticleNumber(suite.ctx, "A1")
	suite.Require().NoError(err)
	suite.Equal("updated", stored.Description)
	suite.Equal(suite.now, stored.UpdatedAt)

	deleted, err := suite.repo.DeleteByArticleNumber(suite.ctx, "A1")
	suite.Require().NoError(err)
	suite.True(deleted)

	_, err = suite.repo.FindByArticleNumber(suite.ctx, "A1")
	suite.ErrorIs(err, ErrNotFound)

	deleted, err = suite.repo.DeleteByArticleNumber(suite.ctx, "A1")
	suite.Require().NoError(err)
	suite.False(deleted)

	suite.ErrorIs(suite.repo.Update(suite.ctx, product, []string{"Description"}), ErrNotFound)
}

func (suite *MemoryRepositoryTestSuite) TestCountCreatedByDay() {
	day := func(daysAgo int) time.Time { return suite.now.AddDate(0, 0, -daysAgo) }

	suite.create("A1", "", "", day(6))
	suite.create("A2", "", "", day(3))
	suite.create("A3", "", "", day(3).Add(time.Hour))
	suite.create("A4", "", "", day(0))
	suite.create("A5", "", "", day(20))

	rows, err := suite.repo.CountCreatedByDay(suite.ctx, day(6).Truncate(24*time.Hour), time.UTC)
	suite.Require().NoError(err)
	suite.Equal([]models.DailyCount{
		{Date: "2024-03-04", Count: 1},
		{Date: "2024-03-07", Count: 2},
		{Date: "2024-03-10", Count: 1},
	}, rows)
}

func TestMemoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositoryTestSuite))
}
