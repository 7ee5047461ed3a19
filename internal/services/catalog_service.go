package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StoreInput holds the mutable fields of a store.
type StoreInput struct {
	Name        string
	Description string
	Category    string
	ImageURL    string
}

// ProductInput holds the mutable fields of a product. A nil OutOfStock keeps
// the current flag on update and means in stock on create.
type ProductInput struct {
	StoreID     uint64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	OutOfStock  *bool
}

// CatalogService merges the remote catalog with the locally created overlay.
// Overlay stores and products live above their ID floors; remote ones below.
type CatalogService struct {
	remote     catalog.Remote
	stores     repositories.StoreRepository
	products   repositories.ProductRepository
	storeIDs   models.IDSpace
	productIDs models.IDSpace
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(remote catalog.Remote, stores repositories.StoreRepository, products repositories.ProductRepository,
	storeIDs, productIDs models.IDSpace) *CatalogService {
	return &CatalogService{
		remote:     remote,
		stores:     stores,
		products:   products,
		storeIDs:   storeIDs,
		productIDs: productIDs,
	}
}

func remoteFailed(op string, err error) {
	metrics.RemoteCatalogErrorsTotal.WithLabelValues(op).Inc()
	logger.Get().Warn("remote catalog call failed", zap.String("op", op), zap.Error(err))
}

// ListStores returns the remote stores followed by the overlay stores. If the
// remote catalog fails only the overlay stores are returned.
func (s *CatalogService) ListStores(ctx context.Context) []models.Store {
	out := []models.Store{}
	remote, err := s.remote.ListStores(ctx)
	if err != nil {
		remoteFailed("ListStores", err)
	} else {
		out = append(out, remote...)
	}
	return append(out, s.stores.GetAll(ctx)...)
}

// ListProductsByStore returns the remote products of storeID (when it is a
// remote id) followed by the overlay products that reference it.
func (s *CatalogService) ListProductsByStore(ctx context.Context, storeID uint64) []models.Product {
	out := []models.Product{}
	if !s.storeIDs.Classify(storeID).IsLocal() {
		remote, err := s.remote.ListProductsByStore(ctx, storeID)
		if err != nil {
			remoteFailed("ListProductsByStore", err)
		} else {
			out = append(out, remote...)
		}
	}
	return append(out, s.products.GetByStore(ctx, storeID)...)
}

// GetProduct looks a product up on the side of the partition that owns its id.
func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	if s.productIDs.Classify(id).IsLocal() {
		p, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return p, nil
	}

	p, err := s.remote.GetProduct(ctx, id)
	if err != nil {
		remoteFailed("GetProduct", err)
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// ListReviews returns the remote reviews of a product. Overlay products have none.
func (s *CatalogService) ListReviews(ctx context.Context, productID uint64) ([]models.Review, error) {
	if s.productIDs.Classify(productID).IsLocal() {
		return []models.Review{}, nil
	}
	reviews, err := s.remote.ListReviews(ctx, productID)
	if err != nil {
		remoteFailed("ListReviews", err)
		return nil, fmt.Errorf("reviews of product %d: %w", productID, err)
	}
	return reviews, nil
}

func validateStore(in StoreInput) (StoreInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Name == "" {
		return in, invalid("name", "Store name is required.")
	}
	if in.Category == "" {
		return in, invalid("category", "Category is required.")
	}
	return in, nil
}

// CreateStore adds an overlay store and assigns it the next overlay id.
func (s *CatalogService) CreateStore(ctx context.Context, in StoreInput) (*models.Store, error) {
	in, err := validateStore(in)
	if err != nil {
		return nil, err
	}
	store := &models.Store{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
	storage.Swallow("stores.create", s.stores.Create(ctx, store))
	return store, nil
}

// UpdateStore replaces the fields of an overlay store. It reports false,
// without error, when no overlay store has that id.
func (s *CatalogService) UpdateStore(ctx context.Context, id uint64, in StoreInput) (bool, error) {
	in, err := validateStore(in)
	if err != nil {
		return false, err
	}
	store := models.Store{ID: id, Name: in.Name, Description: in.Description, Category: in.Category, ImageURL: in.ImageURL}
	return s.applied("stores.update", s.stores.Update(ctx, store)), nil
}

// DeleteStore removes an overlay store. Its products are kept.
func (s *CatalogService) DeleteStore(ctx context.Context, id uint64) bool {
	return s.applied("stores.delete", s.stores.Delete(ctx, id))
}

// applied turns a repository result into "did it touch a record". Missing
// records are a silent no-op; storage failures are logged and dropped.
func (s *CatalogService) applied(op string, err error) bool {
	if errors.Is(err, repositories.ErrNotFound) {
		return false
	}
	storage.Swallow(op, err)
	return true
}

// storeExists checks the store on the side of the partition that owns id. If
// the remote catalog cannot be reached a remote-range id is given the benefit
// of the doubt.
func (s *CatalogService) storeExists(ctx context.Context, id uint64) bool {
	if s.storeIDs.Classify(id).IsLocal() {
		_, err := s.stores.GetByID(ctx, id)
		return err == nil
	}
	remote, err := s.remote.ListStores(ctx)
	if err != nil {
		remoteFailed("ListStores", err)
		return id > 0
	}
	for _, st := range remote {
		if st.ID == id {
			return true
		}
	}
	return false
}

func validateProduct(in ProductInput) (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.StoreID == 0 {
		return in, invalid("storeId", "Store is required.")
	}
	if in.Name == "" {
		return in, invalid("name", "Product name is required.")
	}
	if in.Price.IsNegative() || !in.Price.IsInteger() {
		return in, invalid("price", "Price must be a non-negative whole amount.")
	}
	return in, nil
}

// CreateProduct adds an overlay product for an existing remote or overlay store.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	in, err := validateProduct(in)
	if err != nil {
		return nil, err
	}
	if !s.storeExists(ctx, in.StoreID) {
		return nil, invalid("storeId", fmt.Sprintf("Store %d does not exist.", in.StoreID))
	}

	product := &models.Product{
		StoreID:     in.StoreID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		OutOfStock:  in.OutOfStock != nil && *in.OutOfStock,
	}
	storage.Swallow("products.create", s.products.Create(ctx, product))
	return product, nil
}

// UpdateProduct replaces the fields of an overlay product. It reports false,
// without error, when no overlay product has that id.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint64, in ProductInput) (bool, error) {
	in, err := validateProduct(in)
	if err != nil {
		return false, err
	}
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return false, nil
	}
	if existing.StoreID != in.StoreID && !s.storeExists(ctx, in.StoreID) {
		return false, invalid("storeId", fmt.Sprintf("Store %d does not exist.", in.StoreID))
	}

	updated := models.Product{
		ID:          id,
		StoreID:     in.StoreID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		OutOfStock:  existing.OutOfStock,
	}
	if in.OutOfStock != nil {
		updated.OutOfStock = *in.OutOfStock
	}
	return s.applied("products.update", s.products.Update(ctx, updated)), nil
}

// DeleteProduct removes an overlay product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) bool {
	return s.applied("products.delete", s.products.Delete(ctx, id))
}

// ToggleOutOfStock flips the stock flag of an overlay product and returns the
// new value. Unknown ids yield false.
func (s *CatalogService) ToggleOutOfStock(ctx context.Context, id uint64) bool {
	state, err := s.products.ToggleOutOfStock(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return false
	}
	storage.Swallow("products.toggle", err)
	return state
}

// VerifyPartition checks that every remote store and product id sits below
// its overlay floor.
func (s *CatalogService) VerifyPartition(ctx context.Context) error {
	stores, err := s.remote.ListStores(ctx)
	if err != nil {
		return fmt.Errorf("verify partition: %w", err)
	}
	for _, st := range stores {
		if s.storeIDs.Classify(st.ID).IsLocal() {
			return fmt.Errorf("remote store id %d reaches the overlay floor %d", st.ID, s.storeIDs.Floor)
		}
		products, err := s.remote.ListProductsByStore(ctx, st.ID)
		if err != nil {
			return fmt.Errorf("verify partition: %w", err)
		}
		for _, p := range products {
			if s.productIDs.Classify(p.ID).IsLocal() {
				return fmt.Errorf("remote product id %d reaches the overlay floor %d", p.ID, s.productIDs.Floor)
			}
		}
	}
	return nil
}
