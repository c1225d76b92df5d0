package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopora/shop-api/internal/domains/orders/domain"
	"github.com/shopora/shop-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		if err := db.AutoMigrate(&orderRecord{}); err != nil {
			log.Printf("postgres orders migration failed: %v", err)
		}
	}
	return repo
}

type orderRecord struct {
	ID            int64           `gorm:"primaryKey;column:id;autoIncrement"`
	Number        string          `gorm:"column:number;uniqueIndex"`
	UserID        int64           `gorm:"column:user_id;index:idx_orders_user_status"`
	Lines         []lineRecord    `gorm:"column:lines;serializer:json"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(16)"`
	ShipAddress   string          `gorm:"column:ship_address"`
	ShipCity      string          `gorm:"column:ship_city"`
	ShipCountry   string          `gorm:"column:ship_country"`
	ShipPostal    string          `gorm:"column:ship_postal_code"`
	ShipPhone     string          `gorm:"column:ship_phone"`
	Status        string          `gorm:"column:status;type:varchar(32);index:idx_orders_user_status"`
	PlacedAt      time.Time       `gorm:"column:placed_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type lineRecord struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Size        string          `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Save inserts or updates an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     record.Status,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateNumber
		}
		return nil, err
	}
	order.ID = record.ID
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes an order by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns orders, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *domain.Status) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("id")
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToDomain(records), nil
}

// ListByUser returns one user's orders.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToDomain(records), nil
}

// Summary aggregates order count and revenue in the database.
func (r *Repository) Summary(ctx context.Context) (ports.Summary, error) {
	if err := r.ensureDB(); err != nil {
		return ports.Summary{}, err
	}
	var row struct {
		Orders  int64
		Revenue decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Scan(&row).Error; err != nil {
		return ports.Summary{}, err
	}
	summary := ports.Summary{Orders: row.Orders, Revenue: row.Revenue, AverageValue: decimal.Zero}
	if row.Orders > 0 {
		summary.AverageValue = row.Revenue.Div(decimal.NewFromInt(row.Orders))
	}
	return summary, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres orders repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:            order.ID,
		Number:        order.Number,
		UserID:        order.UserID,
		Total:         order.Total,
		PaymentMethod: string(order.Method),
		ShipAddress:   order.Shipping.Address,
		ShipCity:      order.Shipping.City,
		ShipCountry:   order.Shipping.Country,
		ShipPostal:    order.Shipping.PostalCode,
		ShipPhone:     order.Shipping.Phone,
		Status:        string(order.Status),
		PlacedAt:      order.PlacedAt,
	}
	for _, line := range order.Lines {
		record.Lines = append(record.Lines, lineRecord{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:     r.ID,
		Number: r.Number,
		UserID: r.UserID,
		Total:  r.Total,
		Method: domain.PaymentMethod(r.PaymentMethod),
		Shipping: domain.ShippingAddress{
			Address:    r.ShipAddress,
			City:       r.ShipCity,
			Country:    r.ShipCountry,
			PostalCode: r.ShipPostal,
			Phone:      r.ShipPhone,
		},
		Status:   domain.Status(r.Status),
		PlacedAt: r.PlacedAt,
	}
	for _, line := range r.Lines {
		order.Lines = append(order.Lines, domain.Line{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}
	return order
}

func recordsToDomain(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
