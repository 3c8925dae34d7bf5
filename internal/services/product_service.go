// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/catalog-backend/internal/metrics"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/repository"
	"github.com/javajoker/catalog-backend/internal/utils"
)

type ProductRepository interface {
	FindByArticleNumber(ctx context.Context, articleNumber string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product, fields []string) error
	DeleteByArticleNumber(ctx context.Context, articleNumber string) (bool, error)
	Search(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error)
	Count(ctx context.Context, filter models.ProductFilter) (int64, error)
	CountCreatedByDay(ctx context.Context, since time.Time, loc *time.Location) ([]models.DailyCount, error)
}

type FileStorage interface {
	UploadFile(ctx context.Context, file FileUpload, options UploadOptions) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

type ProductService struct {
	repo          ProductRepository
	storage       FileStorage
	uploadOptions UploadOptions
	location      *time.Location
	activityDays  int
	now           func() time.Time
}

type ProductServiceOptions struct {
	UploadOptions UploadOptions
	Location      *time.Location
	ActivityDays  int
	Now           func() time.Time
}

type UpsertProductRequest struct {
	ArticleNumber string      `json:"articleNumber" validate:"required,article_number"`
	Description   string      `json:"description" validate:"max=5000"`
	File          *FileUpload `json:"-"`
}

type UpsertResult struct {
	Status  models.UpsertStatus `json:"status"`
	Product *models.Product     `json:"product"`

	// object key of the document the update replaced
	replacedKey string
}

func NewProductService(repo ProductRepository, storage FileStorage, opts ProductServiceOptions) *ProductService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ActivityDays < 1 {
		opts.ActivityDays = 7
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &ProductService{
		repo:          repo,
		storage:       storage,
		uploadOptions: opts.UploadOptions,
		location:      opts.Location,
		activityDays:  opts.ActivityDays,
		now:           opts.Now,
	}
}

// UpsertProduct uploads the attached file first, then creates the product or
// merges the request into the stored one. A failed store step removes the
// freshly uploaded object again; a successful one removes the document it
// replaced.
func (s *ProductService) UpsertProduct(ctx context.Context, req *UpsertProductRequest) (*UpsertResult, error) {
	const op = "upsert product"

	if err := utils.ValidateStruct(req); err != nil {
		return nil, newError(op, ErrValidation, err)
	}
	if req.File != nil && req.File.Name == "" {
		return nil, validationError(op, "uploaded file has no name")
	}

	patch := ProductPatch{Description: req.Description}

	if req.File != nil {
		document, err := s.storage.UploadFile(ctx, *req.File, s.uploadOptions)
		if err != nil {
			metrics.RecordUpload(false)
			if errors.Is(err, ErrValidation) {
				return nil, err
			}
			return nil, newError(op, ErrUpload, err)
		}
		metrics.RecordUpload(true)
		patch.Document = document
	}

	result, err := s.persist(ctx, req.ArticleNumber, patch)
	if err != nil {
		if patch.Document != nil {
			s.removeDocument(patch.Document.Key, "Removed upload after failed product save")
		}
		return nil, newError(op, ErrStore, err)
	}

	if result.replacedKey != "" {
		s.removeDocument(result.replacedKey, "Removed replaced product document")
	}

	metrics.RecordUpsert(string(result.Status))
	return result, nil
}

func (s *ProductService) persist(ctx context.Context, articleNumber string, patch ProductPatch) (*UpsertResult, error) {
	result, err := s.createOrUpdate(ctx, articleNumber, patch)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the race against a concurrent first write; merge into its record.
		result, err = s.createOrUpdate(ctx, articleNumber, patch)
	}
	return result, err
}

func (s *ProductService) createOrUpdate(ctx context.Context, articleNumber string, patch ProductPatch) (*UpsertResult, error) {
	existing, err := s.repo.FindByArticleNumber(ctx, articleNumber)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		product := NewProduct(articleNumber, patch)
		if err := s.repo.Create(ctx, &product); err != nil {
			return nil, err
		}
		return &UpsertResult{Status: models.UpsertStatusCreated, Product: &product}, nil
	case err != nil:
		return nil, err
	}

	merged, changed := MergeProduct(*existing, patch)
	if err := s.repo.Update(ctx, &merged, changed); err != nil {
		return nil, err
	}

	result := &UpsertResult{Status: models.UpsertStatusUpdated, Product: &merged}
	if existing.DocumentKey != "" && existing.DocumentKey != merged.DocumentKey {
		result.replacedKey = existing.DocumentKey
	}
	return result, nil
}

// removeDocument deletes an object no product refers to any more. Failures
// are logged only.
func (s *ProductService) removeDocument(key, message string) {
	// The request context may already be cancelled at this point.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.storage.DeleteFile(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to remove unreferenced document")
		return
	}
	logrus.WithField("key", key).Info(message)
}

func (s *ProductService) GetProduct(ctx context.Context, articleNumber string) (*models.Product, error) {
	const op = "get product"

	product, err := s.repo.FindByArticleNumber(ctx, articleNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(op, ErrNotFound, nil)
		}
		return nil, newError(op, ErrStore, err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, articleNumber string) error {
	const op = "delete product"

	deleted, err := s.repo.DeleteByArticleNumber(ctx, articleNumber)
	if err != nil {
		return newError(op, ErrStore, err)
	}
	if !deleted {
		return newError(op, ErrNotFound, nil)
	}
	return nil
}

func (s *ProductService) ListProducts(ctx context.Context, query models.ProductQuery) (*models.ProductPage, error) {
	products, total, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, newError("list products", ErrStore, err)
	}

	if products == nil {
		products = []models.Product{}
	}

	return &models.ProductPage{
		Items:      products,
		TotalCount: total,
	}, nil
}

// GetStats runs the three aggregate queries concurrently and zero-fills the
// activity window.
func (s *ProductService) GetStats(ctx context.Context) (*models.ProductStats, error) {
	start, window := ActivityWindow(s.now(), s.activityDays, s.location)
	withDocument := true

	var (
		stats models.ProductStats
		raw   []models.DailyCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.Count(gctx, models.ProductFilter{})
		stats.TotalCount = count
		return err
	})
	g.Go(func() error {
		count, err := s.repo.Count(gctx, models.ProductFilter{HasDocument: &withDocument})
		stats.WithDocumentCount = count
		return err
	})
	g.Go(func() error {
		rows, err := s.repo.CountCreatedByDay(gctx, start, s.location)
		raw = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, newError("product stats", ErrStore, err)
	}

	stats.DailyActivity = FillActivity(window, raw)
	return &stats, nil
}
