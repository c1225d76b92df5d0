package postgres

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopora/shop-api/internal/domains/users/domain"
	"github.com/shopora/shop-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&userRecord{}); err != nil {
			log.Printf("postgres users migration failed: %v", err)
		}
	}
	return repo
}

type userRecord struct {
	ID        int64         `gorm:"primaryKey;column:id;autoIncrement"`
	Name      string        `gorm:"column:name"`
	Email     string        `gorm:"column:email;uniqueIndex"`
	Password  string        `gorm:"column:password_hash"`
	Phone     string        `gorm:"column:phone"`
	Role      string        `gorm:"column:role;type:varchar(16)"`
	Orders    pq.Int64Array `gorm:"column:orders;type:bigint[]"`
	CreatedAt time.Time     `gorm:"column:created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Save inserts or updates a user keyed by email.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(&clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "phone", "role", "orders", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByEmail(ctx, record.Email)
}

// GetByID fetches a user by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByEmail fetches a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes a user by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&userRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all users.
func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

// AttachOrder appends an order reference using an array append so concurrent
// checkouts do not overwrite each other's references.
func (r *Repository) AttachOrder(ctx context.Context, userID, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ? AND NOT (orders @> ARRAY[?]::bigint[])", userID, orderID).
		Updates(map[string]any{
			"orders":     gorm.Expr("array_append(orders, ?)", orderID),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, userID)
	}
	return nil
}

// DetachOrder removes an order reference.
func (r *Repository) DetachOrder(ctx context.Context, userID, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"orders":     gorm.Expr("array_remove(orders, ?)", orderID),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureExists(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
		Phone:    user.Phone,
		Role:     string(user.Role),
		Orders:   append(pq.Int64Array{}, user.Orders...),
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Role:     domain.Role(r.Role),
		Orders:   append([]int64{}, r.Orders...),
	}
}
