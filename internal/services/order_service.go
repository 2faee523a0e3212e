package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ibrahim/dbpulse/internal/metrics"
	"github.com/ibrahim/dbpulse/internal/models"
	"github.com/ibrahim/dbpulse/internal/repository"
)

// OrderLineInput is one (product, quantity) pair of a placement request.
type OrderLineInput struct {
	ProductID uint
	Quantity  int
}

// OrderInput is a placement request. Lines are processed in the given
// order, which fixes which line reports an insufficient-stock failure
// first.
type OrderInput struct {
	ClientID        uint
	Items           []OrderLineInput
	ShippingAddress string
	Notes           string
}

type OrderService struct {
	db       *gorm.DB
	orders   *repository.OrderRepository
	clients  *repository.ClientRepository
	products *repository.ProductRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger

	// strictTransitions turns on the guarded status state machine. The
	// permissive default overwrites any status with any other.
	strictTransitions bool
}

func NewOrderService(
	db *gorm.DB,
	orders *repository.OrderRepository,
	clients *repository.ClientRepository,
	products *repository.ProductRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:       db,
		orders:   orders,
		clients:  clients,
		products: products,
		metrics:  m,
		logger:   logger,
	}
}

// WithStrictTransitions enables the guarded status workflow.
func (s *OrderService) WithStrictTransitions() *OrderService {
	s.strictTransitions = true
	return s
}

// CreateOrder places an order: it resolves the client, checks and
// decrements stock per line, snapshots unit prices, and persists the order
// with its items and a computed total as one transaction. Any failure
// rolls back every stock decrement and leaves no order rows behind.
//
// Placement is not idempotent: re-submitting the same request mints a new
// order number and decrements stock again.
func (s *OrderService) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	s.logger.Info("creating order", zap.Uint("client_id", in.ClientID), zap.Int("lines", len(in.Items)))

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := s.clients.WithTx(tx)
		products := s.products.WithTx(tx)
		orders := s.orders.WithTx(tx)

		if _, err := clients.FindByID(ctx, in.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "Client", ID: in.ClientID}
			}
			return err
		}

		builder := models.NewOrderBuilder(generateOrderNumber(), in.ClientID).
			ShippingAddress(in.ShippingAddress).
			Notes(in.Notes)

		for _, line := range in.Items {
			product, err := products.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "Product", ID: line.ProductID}
				}
				return err
			}
			if !product.HasEnoughStock(line.Quantity) {
				return &InsufficientStockError{
					Product:   product.Name,
					Available: product.StockQuantity,
					Requested: line.Quantity,
				}
			}

			// The conditional UPDATE is authoritative; the read above only
			// supplies the name and quantity for the error message. A
			// failed guard here means a concurrent placement got between
			// the read and the decrement.
			ok, err := products.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				current, err := products.FindByID(ctx, product.ID)
				if err != nil {
					return err
				}
				return &InsufficientStockError{
					Product:   product.Name,
					Available: current.StockQuantity,
					Requested: line.Quantity,
				}
			}

			builder.AddLine(product, line.Quantity)
		}

		order = builder.Build()
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated(ctx, order.TotalAmount)
	s.logger.Info("order created",
		zap.Uint("id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Order", ID: id}
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *OrderService) GetByClientID(ctx context.Context, clientID uint) ([]models.Order, error) {
	return s.orders.FindByClientID(ctx, clientID)
}

// UpdateStatus overwrites the order status. With strict transitions off
// any move is accepted, including away from terminal states; with the flag
// on, only the forward delivery chain and cancellation of non-terminal
// orders are allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	s.logger.Info("updating order status", zap.Uint("id", id), zap.String("status", string(status)))

	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Order", ID: id}
		}
		return nil, err
	}

	if s.strictTransitions && !order.Status.CanTransitionTo(status) {
		return nil, &InvalidTransitionError{From: string(order.Status), To: string(status)}
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// generateOrderNumber builds ORD-<14-digit UTC timestamp>-<8 hex chars>.
// Uniqueness is probabilistic via the random suffix; the unique index on
// order_number is the backstop.
func generateOrderNumber() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return "ORD-" + timestamp + "-" + suffix
}
