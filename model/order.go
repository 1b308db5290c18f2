package model

import "time"

// OrderStatus enumerates the order lifecycle.
type OrderStatus string

const (
	StatusSubmitted OrderStatus = "submitted"
	StatusAccepted  OrderStatus = "accepted"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ValidStatus reports whether s is one of the recognized order statuses.
func ValidStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusSubmitted, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is one purchase transaction. TotalPrice is the flat price of the
// chosen meal plan, never a sum over items. OrderNumber is unique and
// monotonic within its calendar day (ORD-YYYYMMDD-NNNNN).
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	OrderNumber string      `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID  uint        `json:"customer_id" gorm:"index;not null"`
	Customer    Customer    `json:"-" gorm:"foreignKey:CustomerID"`
	Status      OrderStatus `json:"status" gorm:"default:submitted"`
	Note        string      `json:"note"`
	TotalPrice  float64     `json:"total_price"`
	PlanType    string      `json:"plan_type"`
	Items       []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem is one dish-quantity pair within an order. UnitPriceSnapshot is
// fixed at order time; the flat-plan model records it as zero on purpose and
// it is never recomputed from the live dish price.
type OrderItem struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	OrderID           uint    `json:"order_id" gorm:"index;not null"`
	DishID            uint    `json:"dish_id" gorm:"not null"`
	Quantity          int     `json:"quantity" gorm:"not null"`
	UnitPriceSnapshot float64 `json:"unit_price_snapshot"`
	DishName          string  `json:"dish_name"`
}
