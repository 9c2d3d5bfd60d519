package product

import (
	"context"
	"errors"
	"fmt"

	"data-importer/core/database"
	"data-importer/feature/product/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when a delete matches no row.
	ErrProductNotFound = errors.New("product not found")
	// ErrSchemaMismatch is returned when the products table lacks columns.
	ErrSchemaMismatch = errors.New("products table does not match the model")
)

// Store reads the baseline from and applies jobs to the products table.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or extends the products table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products: %w", err)
	}
	return nil
}

// CheckSchema verifies that every column the importer writes exists.
func (s *Store) CheckSchema() error {
	missing, err := database.MissingColumns(s.db, models.Product{}.TableName(), models.Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %v", ErrSchemaMismatch, missing)
	}
	return nil
}

// LoadBaseline returns every stored product keyed by normalized SKU.
func (s *Store) LoadBaseline(ctx context.Context) (map[string]*models.Product, error) {
	var items []models.Product
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	baseline := make(map[string]*models.Product, len(items))
	for i := range items {
		p := &items[i]
		key := Key(p)
		if _, dup := baseline[key]; dup {
			s.logger.Warn("Duplicate SKU in products table", zap.String("sku", key), zap.Uint("id", p.ID))
			continue
		}
		baseline[key] = p
	}
	s.logger.Debug("Baseline loaded", zap.Int("products", len(baseline)))
	return baseline, nil
}

// Insert creates a product from an imported record.
func (s *Store) Insert(ctx context.Context, incoming *models.Product) error {
	row := *incoming
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert %s: %w", incoming.SKU, err)
	}
	return nil
}

// Update writes every imported value onto the stored product, zero values
// included.
func (s *Store) Update(ctx context.Context, incoming, baseline *models.Product) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", baseline.SKU).
		Updates(map[string]any{
			"name":           incoming.Name,
			"description":    incoming.Description,
			"category":       incoming.Category,
			"currency":       incoming.Currency,
			"price":          incoming.Price,
			"stock":          incoming.Stock,
			"weight":         incoming.Weight,
			"active":         incoming.Active,
			"available_from": incoming.AvailableFrom,
			"updated_at":     incoming.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update %s: %w", baseline.SKU, res.Error)
	}
	// mysql reports only changed rows, so RowsAffected cannot detect a
	// vanished product here
	return nil
}

// Delete removes the stored product.
func (s *Store) Delete(ctx context.Context, baseline *models.Product) error {
	res := s.db.WithContext(ctx).Where("sku = ?", baseline.SKU).Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", baseline.SKU, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, baseline.SKU)
	}
	return nil
}

// Count returns the number of stored products.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
