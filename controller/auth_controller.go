package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mealplan/auth"
	"mealplan/database"
	"mealplan/model"
)

// Register creates a customer account and returns a fresh token.
func Register(c *gin.Context) {
	type Request struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || req.FullName == "" || req.Phone == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "full name, phone and password are required",
		})
		return
	}

	var existing model.Customer
	if err := database.DB.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "this phone number is already registered",
		})
		return
	}

	if req.Email != "" {
		if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "this email is already registered",
			})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "registration failed",
		})
		return
	}

	customer := model.Customer{
		FullName:     req.FullName,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if req.Email != "" {
		customer.Email = &req.Email
	}

	if err := database.DB.Create(&customer).Error; err != nil {
		// Pre-checks race against concurrent registrations; the unique
		// indexes on phone and email are the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "this phone number or email is already registered",
			})
			return
		}
		log.Error().Err(err).Msg("failed to create customer")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "registration failed",
		})
		return
	}

	token, err := auth.GenerateCustomerToken(auth.CustomerClaims{
		ID:       customer.ID,
		Phone:    customer.Phone,
		FullName: customer.FullName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to generate token",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "registered",
		"token":   token,
		"user":    customer.PublicView(),
	})
}

// Login verifies a phone-or-email plus password pair. The failure message
// never reveals whether the identifier exists.
func Login(c *gin.Context) {
	type Request struct {
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || (req.Phone == "" && req.Email == "") || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "phone or email and password are required",
		})
		return
	}

	var customer model.Customer
	var err error
	if req.Phone != "" {
		err = database.DB.Where("phone = ?", req.Phone).First(&customer).Error
	} else {
		err = database.DB.Where("email = ?", req.Email).First(&customer).Error
	}
	if err != nil || !auth.CheckPassword(req.Password, customer.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "incorrect credentials",
		})
		return
	}

	token, err := auth.GenerateCustomerToken(auth.CustomerClaims{
		ID:       customer.ID,
		Phone:    customer.Phone,
		FullName: customer.FullName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to generate token",
		})
		return
	}

	c.SetCookie("token", token, cookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged in",
		"token":   token,
		"user":    customer.PublicView(),
	})
}

// Logout clears the customer cookie. Tokens are not revoked server-side;
// logout is client-side token discard.
func Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged out",
	})
}

// GetCurrentUser returns the short projection of the authenticated customer.
func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")

	var customer model.Customer
	if err := database.DB.First(&customer, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "user not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    customer.PublicView(),
	})
}

// GetProfile returns the full profile of the authenticated customer.
func GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var customer model.Customer
	if err := database.DB.First(&customer, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "user not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// UpdateProfile applies a partial update; absent fields keep their value.
func UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	type Request struct {
		FullName       *string `json:"full_name"`
		Email          *string `json:"email"`
		Height         *int    `json:"height"`
		Weight         *int    `json:"weight"`
		Address        *string `json:"address"`
		Wechat         *string `json:"wechat"`
		AdditionalInfo *string `json:"additional_info"`
		Password       *string `json:"password"`
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	var customer model.Customer
	if err := database.DB.First(&customer, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "user not found",
		})
		return
	}

	if req.Email != nil && *req.Email != "" {
		var other model.Customer
		err := database.DB.Where("email = ? AND id <> ?", *req.Email, userID).First(&other).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "this email is already registered",
			})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to update profile",
			})
			return
		}
		customer.Email = req.Email
	}
	if req.FullName != nil && *req.FullName != "" {
		customer.FullName = *req.FullName
	}
	if req.Height != nil {
		customer.Height = req.Height
	}
	if req.Weight != nil {
		customer.Weight = req.Weight
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.Wechat != nil {
		customer.Wechat = req.Wechat
	}
	if req.AdditionalInfo != nil {
		customer.AdditionalInfo = req.AdditionalInfo
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to update profile",
			})
			return
		}
		customer.PasswordHash = hash
	}

	if err := database.DB.Save(&customer).Error; err != nil {
		log.Error().Err(err).Uint("customer_id", userID).Msg("failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to update profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "profile updated",
		"data":    customer,
	})
}

// AdminLogin checks the configured admin credential pair and sets the admin
// cookie. Admin identity is a single shared credential, not a user row.
func AdminLogin(c *gin.Context) {
	type Request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "username and password are required",
		})
		return
	}

	if req.Username != cfg.Auth.AdminUsername || req.Password != cfg.Auth.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "incorrect credentials",
		})
		return
	}

	token, err := auth.GenerateAdminToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to generate token",
		})
		return
	}

	c.SetCookie("admin_token", token, cookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "admin logged in",
		"token":   token,
	})
}

// AdminLogout clears the admin cookie.
func AdminLogout(c *gin.Context) {
	c.SetCookie("admin_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "admin logged out",
	})
}

// CheckAdminAuth probes whether the request carries a valid admin cookie.
// Always 200; the body says whether the cookie passed.
func CheckAdminAuth(c *gin.Context) {
	token, err := c.Cookie("admin_token")
	if err != nil || token == "" {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"authenticated": false,
		})
		return
	}
	if err := auth.VerifyAdminToken(token); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"authenticated": false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
	})
}
