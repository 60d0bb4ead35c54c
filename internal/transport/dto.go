package transport

import (
	"strings"
	"time"

	"github.com/Skotchmaster/orders/internal/models"
)

type CreateOrderForm struct {
	FirstName  string `form:"first_name"   json:"first_name"   validate:"required,max=50"`
	LastName   string `form:"last_name"    json:"last_name"    validate:"required,max=50"`
	Email      string `form:"email"        json:"email"        validate:"required,email,max=254"`
	Address    string `form:"address"      json:"address"      validate:"required,max=250"`
	PostalCode string `form:"postal_code"  json:"postal_code"  validate:"required,max=20"`
	City       string `form:"city"         json:"city"         validate:"required,max=100"`
}

func (f *CreateOrderForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.City = strings.TrimSpace(f.City)
}

type OrderItemResponse struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Cost        string `json:"cost"`
}

type OrderResponse struct {
	ID         uint                `json:"id"`
	FirstName  string              `json:"first_name"`
	LastName   string              `json:"last_name"`
	Email      string              `json:"email"`
	Address    string              `json:"address"`
	PostalCode string              `json:"postal_code"`
	City       string              `json:"city"`
	Created    time.Time           `json:"created"`
	Paid       bool                `json:"paid"`
	Items      []OrderItemResponse `json:"items"`
	Total      string              `json:"total"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Price:       it.Price.StringFixed(2),
			Quantity:    it.Quantity,
			Cost:        it.Cost().StringFixed(2),
		})
	}

	return OrderResponse{
		ID:         o.ID,
		FirstName:  o.FirstName,
		LastName:   o.LastName,
		Email:      o.Email,
		Address:    o.Address,
		PostalCode: o.PostalCode,
		City:       o.City,
		Created:    o.Created,
		Paid:       o.Paid,
		Items:      items,
		Total:      o.TotalCost().StringFixed(2),
	}
}

type OrderSummaryResponse struct {
	ID       uint      `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	City     string    `json:"city"`
	Created  time.Time `json:"created"`
	Paid     bool      `json:"paid"`
	Total    string    `json:"total"`
}

type OrderListResponse struct {
	Items    []OrderSummaryResponse `json:"items"`
	Page     int                    `json:"page"`
	Size     int                    `json:"size"`
	Pages    int                    `json:"pages"`
	Total    int64                  `json:"total"`
	PrevPage *int                   `json:"prev_page"`
	NextPage *int                   `json:"next_page"`
}

func NewOrderSummaryResponse(o *models.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:       o.ID,
		FullName: o.FullName(),
		Email:    o.Email,
		City:     o.City,
		Created:  o.Created,
		Paid:     o.Paid,
		Total:    o.TotalCost().StringFixed(2),
	}
}
