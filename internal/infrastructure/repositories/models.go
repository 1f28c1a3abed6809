package repositories

import (
	"time"

	"github.com/you/storefront/domain"
)

// DBBuyer is the buyers table; session columns live on the row
type DBBuyer struct {
	ID             uint       `gorm:"primaryKey"`
	Phone          string     `gorm:"uniqueIndex;size:16;not null"`
	Name           string     `gorm:"size:128"`
	SessionToken   string     `gorm:"size:128"`
	SessionExpires *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DBBuyer) TableName() string { return "buyers" }

// DBSeller is the sellers table; session columns live on the row
type DBSeller struct {
	ID             uint       `gorm:"primaryKey"`
	Phone          string     `gorm:"uniqueIndex;size:16;not null"`
	SessionToken   string     `gorm:"size:128"`
	SessionExpires *time.Time
	Shop           *DBShop    `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DBSeller) TableName() string { return "sellers" }

// DBShop is the seller's storefront profile
type DBShop struct {
	ID         uint     `gorm:"primaryKey"`
	SellerID   uint     `gorm:"uniqueIndex;not null"`
	Seller     DBSeller `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Slug       string   `gorm:"uniqueIndex;size:40;not null"`
	Name       string   `gorm:"size:128"`
	PickupInfo string   `gorm:"type:text"`
	ChatID     string   `gorm:"size:64"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DBShop) TableName() string { return "shops" }

// DBProduct belongs to a seller and is erased with it
type DBProduct struct {
	ID         uint     `gorm:"primaryKey"`
	SellerID   uint     `gorm:"index;not null"`
	Seller     DBSeller `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name       string   `gorm:"size:255"`
	PriceCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DBProduct) TableName() string { return "products" }

// DBOrder belongs to a seller and is erased with it
type DBOrder struct {
	ID         uint     `gorm:"primaryKey"`
	SellerID   uint     `gorm:"index;not null"`
	Seller     DBSeller `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BuyerID    *uint    `gorm:"index"`
	Status     string   `gorm:"size:32"`
	TotalCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DBOrder) TableName() string { return "orders" }

// DBOrderItem belongs to an order and is erased with it
type DBOrderItem struct {
	ID         uint    `gorm:"primaryKey"`
	OrderID    uint    `gorm:"index;not null"`
	Order      DBOrder `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ProductID  *uint   `gorm:"index"`
	Quantity   int
	PriceCents int64
}

func (DBOrderItem) TableName() string { return "order_items" }

// DBAdmin is the admins table; session columns live on the row
type DBAdmin struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash   string `gorm:"column:password;not null"`
	SessionToken   string `gorm:"size:128"`
	SessionExpires *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DBAdmin) TableName() string { return "admins" }

// Models lists every table in migration order
func Models() []interface{} {
	return []interface{}{
		&DBBuyer{},
		&DBSeller{},
		&DBShop{},
		&DBProduct{},
		&DBOrder{},
		&DBOrderItem{},
		&DBAdmin{},
	}
}

// sessionTables maps each role to the table holding its session columns
var sessionTables = map[domain.Role]string{
	domain.RoleBuyer:  DBBuyer{}.TableName(),
	domain.RoleSeller: DBSeller{}.TableName(),
	domain.RoleAdmin:  DBAdmin{}.TableName(),
}
