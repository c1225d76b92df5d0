package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&cartRecord{},
		&orderRecord{},
		&userRecord{},
		&sessionRecord{},
		&idempotencyRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
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

// Cart schema mirrors the cart Postgres adapter.
type cartRecord struct {
	UserID    int64          `gorm:"primaryKey;column:user_id"`
	Lines     []cartLine     `gorm:"column:lines;serializer:json"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

type cartLine struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

func (cartRecord) TableName() string { return "carts" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID            int64           `gorm:"primaryKey;column:id;autoIncrement"`
	Number        string          `gorm:"column:number;uniqueIndex"`
	UserID        int64           `gorm:"column:user_id;index:idx_orders_user_status"`
	Lines         []orderLine     `gorm:"column:lines;serializer:json"`
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

type orderLine struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Size        string          `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func (orderRecord) TableName() string { return "orders" }

// User schema mirrors the users Postgres adapter.
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

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Email     string     `gorm:"column:email;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Idempotency schema mirrors the checkout Postgres store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }
