package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"marketplace-service/internal/models"
	"marketplace-service/internal/util"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CatalogStore is the data-access contract of the catalog service.
type CatalogStore interface {
	// ApplyImport performs the full catalog replace for one shop as a
	// single atomic unit.
	ApplyImport(ctx context.Context, plan models.ImportPlan) (*models.Shop, error)
	FirstActiveShop(ctx context.Context) (*models.Shop, error)
	ShopCategories(ctx context.Context, shopID int64) ([]models.Category, error)
	ShopExportOffers(ctx context.Context, shopID int64) ([]models.ExportOffer, error)
	BindShopUser(ctx context.Context, shopID, userID int64) error
}

// ImportPublisher enqueues asynchronous catalog imports and returns the
// queued task's id.
type ImportPublisher interface {
	PublishImport(ctx context.Context, filePath string) (string, error)
}

// CatalogService imports and exports shop catalogs.
type CatalogService struct {
	store   CatalogStore
	baseDir string
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service. Import file paths are
// resolved relative to baseDir.
func NewCatalogService(store CatalogStore, baseDir string) *CatalogService {
	return &CatalogService{
		store:   store,
		baseDir: baseDir,
		logger:  util.GetLogger(),
	}
}

// ImportPath resolves a caller-supplied relative path against the
// configured import directory.
func (s *CatalogService) ImportPath(relPath string) string {
	return filepath.Join(s.baseDir, filepath.Clean("/"+relPath))
}

// ImportFile reads a YAML catalog document from path and applies it to
// the store. The replace is all-or-nothing: a malformed document or a
// failure partway leaves the shop's previous offers in place.
func (s *CatalogService) ImportFile(ctx context.Context, path string) (*models.Shop, error) {
	ctx, span := util.StartImportSpan(ctx, path)
	defer span.End()

	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImportFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	doc, err := ParseCatalogDocument(file)
	if err != nil {
		util.ImportsTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}

	plan, err := doc.Plan()
	if err != nil {
		util.ImportsTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}

	shop, err := s.store.ApplyImport(ctx, *plan)
	if err != nil {
		util.ImportsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	util.ImportsTotal.WithLabelValues("ok").Inc()
	util.ImportDuration.Observe(time.Since(start).Seconds())
	util.ImportedOffersTotal.Add(float64(len(plan.Offers)))

	s.logger.Info("Catalog imported",
		zap.Int64("shop_id", shop.ID),
		zap.String("shop", shop.Name),
		zap.Int("offers", len(plan.Offers)))

	return shop, nil
}

// ImportForUser runs a partner-initiated import and binds the resulting
// shop to the caller if the shop has no owner yet.
func (s *CatalogService) ImportForUser(ctx context.Context, relPath string, userID int64) (*models.Shop, error) {
	shop, err := s.ImportFile(ctx, s.ImportPath(relPath))
	if err != nil {
		return nil, err
	}

	if shop.UserID == nil {
		if err := s.store.BindShopUser(ctx, shop.ID, userID); err != nil {
			return nil, fmt.Errorf("failed to bind shop to user: %w", err)
		}
		shop.UserID = &userID
	}

	return shop, nil
}

// Export serializes the first active shop's current catalog back into
// the document shape. External ids fall back to internal ids as text.
func (s *CatalogService) Export(ctx context.Context) (*CatalogDocument, error) {
	shop, err := s.store.FirstActiveShop(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ShopCategories(ctx, shop.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop categories: %w", err)
	}

	offers, err := s.store.ShopExportOffers(ctx, shop.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop offers: %w", err)
	}

	doc := CatalogDocument{
		Shop: shop.Name,
		Categories: lo.Map(categories, func(cat models.Category, _ int) DocumentCategory {
			return DocumentCategory{
				ID:   ScalarString(externalOrInternalID(cat.ExternalID, cat.ID)),
				Name: cat.Name,
			}
		}),
		Goods: lo.Map(offers, func(offer models.ExportOffer, _ int) DocumentGood {
			good := DocumentGood{
				ID:         ScalarString(externalOrInternalID(&offer.OfferExternalID, offer.OfferID)),
				Category:   ScalarString(externalOrInternalID(offer.CategoryExternalID, offer.CategoryID)),
				Name:       offer.ProductName,
				Model:      offer.Model,
				Quantity:   offer.Quantity,
				Price:      offer.Price,
				PriceRRC:   offer.PriceRRC,
				Parameters: make(map[string]ScalarString, len(offer.Parameters)),
			}
			for name, value := range offer.Parameters {
				good.Parameters[name] = ScalarString(value)
			}
			return good
		}),
	}

	return &doc, nil
}

func externalOrInternalID(externalID *string, id int64) string {
	if externalID != nil && *externalID != "" {
		return *externalID
	}
	return strconv.FormatInt(id, 10)
}
