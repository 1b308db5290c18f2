package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mealplan/config"
	"mealplan/service"
)

var (
	cfg    *config.Config
	orders *service.OrderService
	log    zerolog.Logger
)

// Setup wires the controllers to their collaborators. Called once at startup
// (and from tests) before any route is served.
func Setup(c *config.Config, orderService *service.OrderService, logger zerolog.Logger) {
	cfg = c
	orders = orderService
	log = logger
}

// Cookie lifetime in seconds, matching the 7-day token validity.
const cookieMaxAge = 7 * 24 * 60 * 60

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
