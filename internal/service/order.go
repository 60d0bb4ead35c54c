package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/orders/internal/cart"
	"github.com/Skotchmaster/orders/internal/invoice"
	"github.com/Skotchmaster/orders/internal/logging"
	"github.com/Skotchmaster/orders/internal/models"
	"github.com/Skotchmaster/orders/internal/notify"
	"github.com/Skotchmaster/orders/internal/transport"
)

type Repository interface {
	CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error)
	MarkPaid(ctx context.Context, id uint) error
	ProductsByID(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

type OrderService struct {
	Repo       Repository
	Dispatcher notify.Dispatcher

	validate *validator.Validate
}

func NewOrderService(repo Repository, dispatcher notify.Dispatcher) *OrderService {
	return &OrderService{
		Repo:       repo,
		Dispatcher: dispatcher,
		validate:   NewValidator(),
	}
}

// Validate trims the form in place. Failures are FieldErrors, which match ErrValidation.
func (s *OrderService) Validate(form *transport.CreateOrderForm) error {
	form.Normalize()
	if err := s.validate.Struct(form); err != nil {
		return toFieldErrors(err)
	}
	return nil
}

// CreateOrder turns the cart into an order. Nothing is written unless the form is valid,
// and the order and its items are committed together.
func (s *OrderService) CreateOrder(ctx context.Context, form transport.CreateOrderForm, c cart.Cart) (*models.Order, error) {
	l := logging.FromContext(ctx).With("op", "order.create")

	if err := s.Validate(&form); err != nil {
		return nil, err
	}

	lines, err := c.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	lines, _, err = s.availableLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Email:      form.Email,
		Address:    form.Address,
		PostalCode: form.PostalCode,
		City:       form.City,
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, li := range lines {
		items = append(items, models.OrderItem{
			ProductID: li.ProductID,
			Price:     li.Price,
			Quantity:  li.Quantity,
		})
	}

	if err := s.Repo.CreateOrderWithItems(ctx, order, items); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := c.Clear(ctx); err != nil {
		l.Warn("cart_clear_error", "order_id", order.ID, "error", err)
	}

	s.Dispatcher.Submit(order.ID)

	l.Info("order_created", "order_id", order.ID, "items", len(items))
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, offset, limit)
}

// Invoice returns the order together with its rendered PDF.
func (s *OrderService) Invoice(ctx context.Context, id uint) (*models.Order, *bytes.Reader, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := invoice.Render(order)
	if err != nil {
		return nil, nil, err
	}
	return order, pdf, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, id uint) error {
	err := s.Repo.MarkPaid(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return err
}

type SummaryLine struct {
	ProductID uint
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Cost      decimal.Decimal
}

type CartSummary struct {
	Lines []SummaryLine
	Total decimal.Decimal
}

// availableLines drops cart lines whose product no longer exists.
func (s *OrderService) availableLines(ctx context.Context, lines []cart.LineItem) ([]cart.LineItem, map[uint]models.Product, error) {
	ids := make([]uint, 0, len(lines))
	for _, li := range lines {
		ids = append(ids, li.ProductID)
	}
	products, err := s.Repo.ProductsByID(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}

	kept := make([]cart.LineItem, 0, len(lines))
	for _, li := range lines {
		if _, ok := products[li.ProductID]; !ok {
			logging.FromContext(ctx).Warn("cart_line_dropped", "product_id", li.ProductID, "reason", "unknown product")
			continue
		}
		kept = append(kept, li)
	}
	return kept, products, nil
}

// Summarize resolves product names for the checkout page. Lines for products that no longer
// exist are left out, as they are at checkout.
func (s *OrderService) Summarize(ctx context.Context, c cart.Cart) (CartSummary, error) {
	lines, err := c.Items(ctx)
	if err != nil {
		return CartSummary{}, fmt.Errorf("read cart: %w", err)
	}
	lines, products, err := s.availableLines(ctx, lines)
	if err != nil {
		return CartSummary{}, err
	}

	out := CartSummary{Lines: make([]SummaryLine, 0, len(lines)), Total: cart.Total(lines)}
	for _, li := range lines {
		out.Lines = append(out.Lines, SummaryLine{
			ProductID: li.ProductID,
			Name:      products[li.ProductID].Name,
			Price:     li.Price,
			Quantity:  li.Quantity,
			Cost:      li.Cost(),
		})
	}
	return out, nil
}
