package route

import (
	"github.com/gin-gonic/gin"

	"mealplan/controller"
	"mealplan/utils"
)

// Register mounts the API routes.
func Register(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", controller.Health)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/login", controller.Login)
		authGroup.POST("/logout", controller.Logout)
		authGroup.POST("/admin/login", controller.AdminLogin)
		authGroup.POST("/admin/logout", controller.AdminLogout)
		authGroup.GET("/admin/check", controller.CheckAdminAuth)

		authGroup.GET("/me", utils.AuthMiddleware(), controller.GetCurrentUser)
		authGroup.GET("/profile", utils.AuthMiddleware(), controller.GetProfile)
		authGroup.PATCH("/profile", utils.AuthMiddleware(), controller.UpdateProfile)
	}

	dishGroup := api.Group("/dishes")
	{
		// Admin routes come first so /admin/... is not swallowed by /:id.
		dishGroup.GET("/admin/all-dishes", utils.AdminMiddleware(), controller.GetAllDishesAdmin)
		dishGroup.POST("/admin", utils.AdminMiddleware(), controller.CreateDish)
		dishGroup.POST("/admin/import", utils.AdminMiddleware(), controller.BulkImportDishes)
		dishGroup.PATCH("/admin/:id", utils.AdminMiddleware(), controller.UpdateDish)
		dishGroup.DELETE("/admin/:id", utils.AdminMiddleware(), controller.DeleteDish)

		dishGroup.GET("", controller.GetDishes)
		dishGroup.GET("/categories", controller.GetCategories)
		dishGroup.GET("/:id", controller.GetDishByID)
	}

	orderGroup := api.Group("/orders")
	{
		orderGroup.GET("/admin/all", utils.AdminMiddleware(), controller.GetAllOrders)
		orderGroup.GET("/admin/:id", utils.AdminMiddleware(), controller.GetOrderDetailAdmin)
		orderGroup.PATCH("/admin/:id/status", utils.AdminMiddleware(), controller.UpdateOrderStatus)
		orderGroup.DELETE("/admin/:id", utils.AdminMiddleware(), controller.DeleteOrderAdmin)

		orderGroup.POST("", utils.AuthMiddleware(), controller.CreateOrder)
		orderGroup.GET("", utils.AuthMiddleware(), controller.GetOrders)
		orderGroup.GET("/:id", utils.AuthMiddleware(), controller.GetOrderByID)
	}

	userGroup := api.Group("/users")
	{
		userGroup.GET("/admin/all", utils.AdminMiddleware(), controller.GetAllUsers)
		userGroup.GET("/admin/:id", utils.AdminMiddleware(), controller.GetUserDetail)
		userGroup.DELETE("/admin/:id", utils.AdminMiddleware(), controller.DeleteUser)
	}
}
