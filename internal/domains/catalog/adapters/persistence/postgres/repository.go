package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopora/shop-api/internal/domains/catalog/domain"
	"github.com/shopora/shop-api/internal/domains/catalog/ports"
	"github.com/shopora/shop-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM-mapped columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&productRecord{}); err != nil {
			log.Printf("postgres catalog migration failed: %v", err)
		}
	}
	return repo
}

type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name"`
	Brand       string          `gorm:"column:brand"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	ImageURLs   pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	SizeRange   pq.StringArray  `gorm:"column:size_range;type:text[]"`
	Stock       int             `gorm:"column:stock"`
	StockBySize map[string]int  `gorm:"column:stock_by_size;serializer:json"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func newProductRecord(p *domain.Product) productRecord {
	rec := productRecord{
		ID:        p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		ImageURLs: copyStringArray(p.ImageURLs),
		SizeRange: copyStringArray(p.SizeRange),
		// The scalar column always carries the derived total so stock-sorted
		// catalog queries never read a stale aggregate.
		Stock: p.TotalStock(),
	}
	if p.RequiresSize() {
		rec.StockBySize = make(map[string]int, len(p.Stock.BySize))
		for size, qty := range p.Stock.BySize {
			rec.StockBySize[size] = qty
		}
	}
	return rec
}

func (r productRecord) toDomain() *domain.Product {
	product := &domain.Product{
		ID:        r.ID,
		Name:      r.Name,
		Brand:     r.Brand,
		Price:     r.Price,
		ImageURLs: append([]string{}, r.ImageURLs...),
		SizeRange: append([]string{}, r.SizeRange...),
	}
	if len(r.SizeRange) > 0 {
		product.Stock.BySize = make(map[string]int, len(r.StockBySize))
		for size, qty := range r.StockBySize {
			product.Stock.BySize[size] = qty
		}
	} else {
		product.Stock.Scalar = r.Stock
	}
	return product
}

// Save inserts or updates a product aggregate.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	record := newProductRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":          record.Name,
				"brand":         record.Brand,
				"price":         record.Price,
				"image_urls":    record.ImageURLs,
				"size_range":    record.SizeRange,
				"stock":         record.Stock,
				"stock_by_size": record.StockBySize,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toProjection(&record), nil
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns every persisted product.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Product], 0, len(records))
	for i := range records {
		list = append(list, toProjection(&records[i]))
	}
	return list, nil
}

// ReserveStock commits every reservation inside one transaction. Size-less
// products use a single guarded UPDATE; sized products take a row lock before
// decrementing the bucket, so availability is never computed and written in
// separate unprotected steps.
func (r *Repository) ReserveStock(ctx context.Context, reservations []domain.Reservation) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(reservations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, res := range reservations {
			if res.Quantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			if err := reserveLine(tx, res); err != nil {
				return err
			}
		}
		return nil
	})
}

func reserveLine(tx *gorm.DB, res domain.Reservation) error {
	// Fast path: scalar stock decrements conditionally in one statement.
	result := tx.Model(&productRecord{}).
		Where("id = ? AND cardinality(size_range) = 0 AND stock >= ?", res.ProductID, res.Quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", res.Quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Either the product is sized, missing, or short on stock. Take the row
	// lock and let the aggregate decide which.
	var record productRecord
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", res.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ErrNotFound
		}
		return err
	}
	product := record.toDomain()
	if err := product.Reserve(res.Size, res.Quantity); err != nil {
		return err
	}
	updated := newProductRecord(product)
	return tx.Model(&productRecord{}).
		Where("id = ?", res.ProductID).
		Updates(map[string]any{
			"stock":         updated.Stock,
			"stock_by_size": updated.StockBySize,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toProjection(record *productRecord) *projection.Projection[*domain.Product] {
	return &projection.Projection[*domain.Product]{
		Entity: record.toDomain(),
		Metadata: projection.Metadata{
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		},
	}
}

func copyStringArray(values []string) pq.StringArray {
	if len(values) == 0 {
		return pq.StringArray{}
	}
	return pq.StringArray(append([]string{}, values...))
}
