package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mealplan/database"
	"mealplan/model"
	"mealplan/service"
)

// CreateOrder submits the authenticated customer's cart as a new order.
func CreateOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	type Request struct {
		Items    []service.OrderItemRequest `json:"items"`
		Note     string                     `json:"note"`
		PlanType string                     `json:"plan_type"`
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	summary, err := orders.CreateOrder(userID, req.Items, req.Note, req.PlanType)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyCart),
			errors.Is(err, model.ErrInvalidPlan),
			errors.Is(err, model.ErrInvalidQuantity),
			errors.Is(err, model.ErrDishUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
		default:
			log.Error().Err(err).Uint("customer_id", userID).Msg("failed to create order")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to create order",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "order submitted",
		"order":   summary,
	})
}

// orderListRow is one row of a customer's order history.
type orderListRow struct {
	ID          uint      `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	TotalPrice  float64   `json:"total_price"`
	PlanType    string    `json:"plan_type"`
	ItemsCount  int       `json:"items_count"`
}

// GetOrders lists the authenticated customer's orders, newest first.
func GetOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	var rows []orderListRow
	err := database.DB.Model(&model.Order{}).
		Select("orders.id, orders.order_number, orders.status, orders.note, orders.created_at, orders.updated_at, orders.total_price, orders.plan_type, (SELECT COUNT(*) FROM order_items WHERE order_items.order_id = orders.id) AS items_count").
		Where("orders.customer_id = ?", userID).
		Order("orders.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// orderItemRow joins an item with the live dish record for category and
// image; the dish name comes from the item's own snapshot.
type orderItemRow struct {
	ID                uint    `json:"id"`
	DishID            uint    `json:"dish_id"`
	DishName          string  `json:"dish_name"`
	Category          string  `json:"category"`
	Quantity          int     `json:"quantity"`
	UnitPriceSnapshot float64 `json:"unit_price_snapshot"`
}

func loadOrderItems(orderID uint) ([]orderItemRow, error) {
	var items []orderItemRow
	err := database.DB.Table("order_items").
		Select("order_items.id, order_items.dish_id, order_items.dish_name, COALESCE(dishes.category, '') AS category, order_items.quantity, order_items.unit_price_snapshot").
		Joins("LEFT JOIN dishes ON dishes.id = order_items.dish_id").
		Where("order_items.order_id = ?", orderID).
		Scan(&items).Error
	return items, err
}

// GetOrderByID returns one of the customer's own orders with its items.
// Another customer's order id is a plain 404.
func GetOrderByID(c *gin.Context) {
	userID := c.GetUint("user_id")
	id := c.Param("id")

	var order model.Order
	err := database.DB.Where("id = ? AND customer_id = ?", id, userID).First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "order not found",
		})
		return
	}

	items, err := loadOrderItems(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch order items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"note":         order.Note,
			"total_price":  order.TotalPrice,
			"plan_type":    order.PlanType,
			"created_at":   order.CreatedAt,
			"updated_at":   order.UpdatedAt,
			"items":        items,
		},
	})
}

// adminOrderRow is one row of the admin order list.
type adminOrderRow struct {
	ID           uint      `json:"id"`
	OrderNumber  string    `json:"order_number"`
	CustomerName string    `json:"customer_name"`
	Phone        string    `json:"phone"`
	Status       string    `json:"status"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
	TotalPrice   float64   `json:"total_price"`
	PlanType     string    `json:"plan_type"`
	ItemsCount   int       `json:"items_count"`
	ItemsDisplay string    `json:"items_display" gorm:"-"`
}

// GetAllOrders lists every order with customer display fields and a
// concatenated items summary.
func GetAllOrders(c *gin.Context) {
	var rows []adminOrderRow
	err := database.DB.Model(&model.Order{}).
		Select("orders.id, orders.order_number, COALESCE(customers.full_name, '') AS customer_name, COALESCE(customers.phone, '') AS phone, orders.status, orders.note, orders.created_at, orders.total_price, orders.plan_type, (SELECT COUNT(*) FROM order_items WHERE order_items.order_id = orders.id) AS items_count").
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
		Order("orders.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch orders",
		})
		return
	}

	// Build the items summary in one query instead of a GROUP_CONCAT,
	// which is not portable between sqlite and postgres.
	orderIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.ID)
	}
	if len(orderIDs) > 0 {
		var items []model.OrderItem
		if err := database.DB.Where("order_id IN ?", orderIDs).Order("id").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to fetch order items",
			})
			return
		}
		names := make(map[uint][]string, len(rows))
		for _, item := range items {
			names[item.OrderID] = append(names[item.OrderID], item.DishName)
		}
		for i := range rows {
			rows[i].ItemsDisplay = strings.Join(names[rows[i].ID], ", ")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// UpdateOrderStatus moves an order through its lifecycle. Admin only.
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid order id",
		})
		return
	}

	type Request struct {
		Status string `json:"status"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	order, err := orders.UpdateStatus(uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "invalid order status",
			})
		case errors.Is(err, model.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "order not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to update order status",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "order status updated",
		"data": gin.H{
			"id":         order.ID,
			"status":     order.Status,
			"updated_at": order.UpdatedAt,
		},
	})
}

// GetOrderDetailAdmin returns an order with the full customer profile joined.
func GetOrderDetailAdmin(c *gin.Context) {
	id := c.Param("id")

	var order model.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "order not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to fetch order",
			})
		}
		return
	}

	var customer model.Customer
	if err := database.DB.First(&customer, order.CustomerID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch customer",
		})
		return
	}

	items, err := loadOrderItems(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch order items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":              order.ID,
			"order_number":    order.OrderNumber,
			"status":          order.Status,
			"note":            order.Note,
			"total_price":     order.TotalPrice,
			"plan_type":       order.PlanType,
			"created_at":      order.CreatedAt,
			"updated_at":      order.UpdatedAt,
			"customer_id":     customer.ID,
			"full_name":       customer.FullName,
			"phone":           customer.Phone,
			"email":           customer.Email,
			"address":         customer.Address,
			"height":          customer.Height,
			"weight":          customer.Weight,
			"additional_info": customer.AdditionalInfo,
			"items":           items,
		},
	})
}

// DeleteOrderAdmin removes an order and its items. Admin only.
func DeleteOrderAdmin(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid order id",
		})
		return
	}

	if err := orders.DeleteOrder(uint(id)); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "order not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to delete order",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "order deleted",
	})
}
