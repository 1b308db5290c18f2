package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"mealplan/model"
)

// OrderItemRequest is one dish-quantity pair from a checkout cart.
type OrderItemRequest struct {
	DishID   uint `json:"dish_id"`
	Quantity int  `json:"quantity"`
}

// OrderSummary is the projection returned right after checkout.
type OrderSummary struct {
	ID          uint              `json:"id"`
	OrderNumber string            `json:"order_number"`
	CreatedAt   time.Time         `json:"created_at"`
	Status      model.OrderStatus `json:"status"`
	TotalPrice  float64           `json:"total_price"`
	PlanType    string            `json:"plan_type"`
	ItemsCount  int               `json:"items_count"`
}

// OrderService owns order creation, numbering and status transitions.
// Order-number allocation reads the last number for the day and increments
// it, so the whole generate+insert critical section is serialized by mu.
type OrderService struct {
	db        *gorm.DB
	plans     map[string]float64
	publisher EventPublisher
	topic     string
	logger    zerolog.Logger

	mu sync.Mutex
}

// NewOrderService builds an OrderService. publisher may be nil, in which
// case no order events are emitted.
func NewOrderService(db *gorm.DB, plans map[string]float64, publisher EventPublisher, topic string, logger zerolog.Logger) *OrderService {
	return &OrderService{
		db:        db,
		plans:     plans,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

const orderNumberPrefix = "ORD"

// GenerateOrderNumber allocates the next ORD-YYYYMMDD-NNNNN number for
// today. The sequence resets daily and starts at 1. Callers must hold mu
// through the subsequent insert or two concurrent checkouts can allocate
// the same number.
func (s *OrderService) GenerateOrderNumber(tx *gorm.DB) (string, error) {
	dateStr := time.Now().Format("20060102")
	prefix := fmt.Sprintf("%s-%s-", orderNumberPrefix, dateStr)

	var last model.Order
	sequence := 1
	err := tx.Where("order_number LIKE ?", prefix+"%").
		Order("id DESC").
		First(&last).Error
	if err == nil {
		parts := strings.Split(last.OrderNumber, "-")
		if n, perr := strconv.Atoi(parts[len(parts)-1]); perr == nil {
			sequence = n + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, sequence), nil
}

// CreateOrder validates the cart against the catalog, allocates an order
// number and persists the order plus its items in one transaction. The
// total price is the flat price of the chosen plan; per-item snapshot
// prices are recorded as zero under the flat-plan model.
func (s *OrderService) CreateOrder(customerID uint, items []OrderItemRequest, note, planType string) (*OrderSummary, error) {
	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	totalPrice, ok := s.plans[planType]
	if !ok {
		return nil, model.ErrInvalidPlan
	}

	orderItems := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, model.ErrInvalidQuantity
		}
		var dish model.Dish
		err := s.db.Where("id = ? AND is_available = ?", item.DishID, true).First(&dish).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("dish %d: %w", item.DishID, model.ErrDishUnavailable)
			}
			return nil, err
		}
		orderItems = append(orderItems, model.OrderItem{
			DishID:            dish.ID,
			Quantity:          item.Quantity,
			UnitPriceSnapshot: 0,
			DishName:          dish.Name,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderNumber, err := s.GenerateOrderNumber(tx)
		if err != nil {
			return err
		}

		order = model.Order{
			OrderNumber: orderNumber,
			CustomerID:  customerID,
			Status:      model.StatusSubmitted,
			Note:        note,
			TotalPrice:  totalPrice,
			PlanType:    planType,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		return tx.Create(&orderItems).Error
	})
	if err != nil {
		return nil, err
	}

	summary := &OrderSummary{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		CreatedAt:   order.CreatedAt,
		Status:      order.Status,
		TotalPrice:  order.TotalPrice,
		PlanType:    order.PlanType,
		ItemsCount:  len(orderItems),
	}
	s.publishCreated(summary)
	return summary, nil
}

// publishCreated emits an order-created event. The order is already durable,
// so a publish failure is logged and swallowed.
func (s *OrderService) publishCreated(summary *OrderSummary) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal order event")
		return
	}
	if err := s.publisher.Publish(s.topic, payload); err != nil {
		s.logger.Error().Err(err).Str("order_number", summary.OrderNumber).Msg("failed to publish order event")
	}
}

// UpdateStatus moves an order to one of the enumerated statuses.
func (s *OrderService) UpdateStatus(orderID uint, status string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	var order model.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = model.OrderStatus(status)
	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes an order and its items, items first to satisfy the
// foreign key on databases without cascading deletes.
func (s *OrderService) DeleteOrder(orderID uint) error {
	var order model.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrOrderNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, orderID).Error
	})
}
