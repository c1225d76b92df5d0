package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopora/shop-api/internal/domains/cart/domain"
	"github.com/shopora/shop-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists carts in PostgreSQL, one row per user with the lines
// embedded as JSON. Replacing the row wholesale keeps each cart's mutations
// serialized on its primary key.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed cart store. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&cartRecord{}); err != nil {
			log.Printf("postgres cart migration failed: %v", err)
		}
	}
	return repo
}

type cartRecord struct {
	UserID    int64        `gorm:"primaryKey;column:user_id"`
	Lines     []lineRecord `gorm:"column:lines;serializer:json"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

type lineRecord struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// GetByUser loads the stored cart or an empty aggregate when none exists.
func (r *Repository) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewCart(userID), nil
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts the whole cart snapshot.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if cart == nil {
		return errors.New("cannot save nil cart")
	}
	record := newCartRecord(cart)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"lines":      record.Lines,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

// Clear drops the user's cart row. Clearing an absent cart is not an error.
func (r *Repository) Clear(ctx context.Context, userID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&cartRecord{}, "user_id = ?", userID).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func newCartRecord(cart *domain.Cart) cartRecord {
	record := cartRecord{UserID: cart.UserID, Lines: []lineRecord{}}
	for _, line := range cart.Lines {
		record.Lines = append(record.Lines, lineRecord{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
	}
	return record
}

func (r cartRecord) toDomain() *domain.Cart {
	cart := domain.NewCart(r.UserID)
	for _, line := range r.Lines {
		cart.Lines = append(cart.Lines, domain.Line{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
		})
	}
	return cart
}
