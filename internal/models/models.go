package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is owned by the catalog. Orders only read it.
type Product struct {
	ID    uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name  string          `gorm:"size:200;not null"            json:"name"`
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null"  json:"price"`
}

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement"  json:"id"`
	FirstName  string      `gorm:"size:50;not null"          json:"first_name"`
	LastName   string      `gorm:"size:50;not null"          json:"last_name"`
	Email      string      `gorm:"size:254;not null"         json:"email"`
	Address    string      `gorm:"size:250;not null"         json:"address"`
	PostalCode string      `gorm:"size:20;not null"          json:"postal_code"`
	City       string      `gorm:"size:100;not null"         json:"city"`
	Created    time.Time   `gorm:"autoCreateTime;index"      json:"created"`
	Updated    time.Time   `gorm:"autoUpdateTime"            json:"updated"`
	Paid       bool        `gorm:"not null;default:false"    json:"paid"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"        json:"items"`
}

// OrderItem keeps the price the customer paid, independent of the current product price.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"             json:"id"`
	OrderID   uint            `gorm:"index;not null"                       json:"order_id"`
	ProductID uint            `gorm:"index;not null"                       json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID"                 json:"product"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"          json:"price"`
	Quantity  int             `gorm:"not null;default:1;check:quantity>0"  json:"quantity"`
}

func (Order) TableName() string {
	return "orders"
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (Product) TableName() string {
	return "products"
}

func (i OrderItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalCost is always derived from the items and never stored.
func (o *Order) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Cost())
	}
	return total
}

func (o *Order) FullName() string {
	return o.FirstName + " " + o.LastName
}
