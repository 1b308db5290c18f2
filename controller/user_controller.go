package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mealplan/database"
	"mealplan/model"
)

// customerRow is one row of the admin customer directory. TotalSpent sums
// quantity times the per-item snapshot price, which the flat-plan model
// records as zero; the figure is kept as-is for compatibility with the
// admin views that consume it.
type customerRow struct {
	ID         uint      `json:"id"`
	Phone      string    `json:"phone"`
	FullName   string    `json:"full_name"`
	Address    *string   `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	OrderCount int       `json:"order_count"`
	TotalSpent float64   `json:"total_spent"`
}

// GetAllUsers lists every customer with derived order statistics.
func GetAllUsers(c *gin.Context) {
	var rows []customerRow
	err := database.DB.Model(&model.Customer{}).
		Select("customers.id, customers.phone, customers.full_name, customers.address, customers.created_at, " +
			"(SELECT COUNT(*) FROM orders WHERE orders.customer_id = customers.id) AS order_count, " +
			"COALESCE((SELECT SUM(order_items.quantity * order_items.unit_price_snapshot) FROM order_items JOIN orders ON order_items.order_id = orders.id WHERE orders.customer_id = customers.id), 0) AS total_spent").
		Order("customers.id DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch customers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// GetUserDetail returns one customer with their order history.
func GetUserDetail(c *gin.Context) {
	id := c.Param("id")

	var customer model.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "customer not found",
		})
		return
	}

	type orderRow struct {
		ID          uint      `json:"id"`
		OrderNumber string    `json:"order_number"`
		Status      string    `json:"status"`
		TotalPrice  float64   `json:"total_price"`
		CreatedAt   time.Time `json:"created_at"`
	}
	var orderRows []orderRow
	err := database.DB.Model(&model.Order{}).
		Select("id, order_number, status, total_price, created_at").
		Where("customer_id = ?", customer.ID).
		Order("created_at DESC").
		Scan(&orderRows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch customer orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":              customer.ID,
			"full_name":       customer.FullName,
			"phone":           customer.Phone,
			"email":           customer.Email,
			"address":         customer.Address,
			"height":          customer.Height,
			"weight":          customer.Weight,
			"wechat":          customer.Wechat,
			"additional_info": customer.AdditionalInfo,
			"created_at":      customer.CreatedAt,
			"orders":          orderRows,
		},
	})
}

// DeleteUser removes a customer and everything they own: order items first,
// then orders, then the customer row, to satisfy referential constraints.
func DeleteUser(c *gin.Context) {
	id := c.Param("id")

	var customer model.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "customer not found",
		})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id IN (?)",
			tx.Model(&model.Order{}).Select("id").Where("customer_id = ?", customer.ID),
		).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&model.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Uint("customer_id", customer.ID).Msg("failed to delete customer")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to delete customer",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "customer deleted",
	})
}
