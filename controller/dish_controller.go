package controller

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"mealplan/database"
	"mealplan/model"
)

// GetDishes lists available dishes, optionally narrowed by category.
func GetDishes(c *gin.Context) {
	query := database.DB.Where("is_available = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var dishes []model.Dish
	if err := query.Order("category, name").Find(&dishes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch dishes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dishes,
	})
}

// GetDishByID returns one available dish. Hidden dishes are a 404 here.
func GetDishByID(c *gin.Context) {
	id := c.Param("id")

	var dish model.Dish
	err := database.DB.Where("id = ? AND is_available = ?", id, true).First(&dish).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "dish does not exist or is unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dish,
	})
}

// GetCategories lists the distinct categories among available dishes, each
// with its display label.
func GetCategories(c *gin.Context) {
	var categories []string
	err := database.DB.Model(&model.Dish{}).
		Where("is_available = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch categories",
		})
		return
	}

	data := make([]gin.H, 0, len(categories))
	for _, value := range categories {
		data = append(data, gin.H{
			"value": value,
			"label": model.CategoryLabel(value),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// dishInput carries the recognized dish fields for create and partial update.
type dishInput struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsAvailable *bool    `json:"is_available"`
}

// bindDishInput accepts either a JSON body or a multipart form (the latter
// when an image rides along).
func bindDishInput(c *gin.Context) (*dishInput, error) {
	var input dishInput
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBindJSON(&input); err != nil {
			return nil, err
		}
		return &input, nil
	}

	if v, ok := c.GetPostForm("name"); ok {
		input.Name = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		input.Category = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		input.Description = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price: %q", v)
		}
		input.Price = &price
	}
	if v, ok := c.GetPostForm("is_available"); ok {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid is_available: %q", v)
		}
		input.IsAvailable = &available
	}
	return &input, nil
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveDishImage stores an uploaded image, if any, and returns its URL path.
// Limits: 5MB, JPEG/PNG/GIF/WebP.
func saveDishImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // no image attached
	}

	if file.Size > 5<<20 {
		return "", errors.New("image size exceeds 5MB limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", errors.New("only JPEG, PNG, GIF and WebP images are allowed")
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := fmt.Sprintf("dish-%s%s", uuid.New().String(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(cfg.Upload.Dir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return "/uploads/dishes/" + fileName, nil
}

// CreateDish adds a catalog entry. Name, category and a non-negative price
// are required; new dishes default to available.
func CreateDish(c *gin.Context) {
	input, err := bindDishInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	if input.Name == nil || *input.Name == "" || input.Category == nil || *input.Category == "" || input.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "name, category and price are required",
		})
		return
	}
	if *input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "price must not be negative",
		})
		return
	}

	imageURL, err := saveDishImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	dish := model.Dish{
		Name:        *input.Name,
		Category:    *input.Category,
		Price:       *input.Price,
		IsAvailable: true,
		ImageURL:    imageURL,
	}
	if input.Description != nil {
		dish.Description = *input.Description
	}
	if input.IsAvailable != nil {
		dish.IsAvailable = *input.IsAvailable
	}

	if err := database.DB.Create(&dish).Error; err != nil {
		log.Error().Err(err).Msg("failed to create dish")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to create dish",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "dish created",
		"data":    dish,
	})
}

// UpdateDish applies a partial update; absent fields keep their value.
func UpdateDish(c *gin.Context) {
	id := c.Param("id")

	var dish model.Dish
	if err := database.DB.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "dish not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to fetch dish",
			})
		}
		return
	}

	input, err := bindDishInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	if input.Price != nil && *input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "price must not be negative",
		})
		return
	}

	imageURL, err := saveDishImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	if input.Name != nil && *input.Name != "" {
		dish.Name = *input.Name
	}
	if input.Category != nil && *input.Category != "" {
		dish.Category = *input.Category
	}
	if input.Description != nil {
		dish.Description = *input.Description
	}
	if input.Price != nil {
		dish.Price = *input.Price
	}
	if input.IsAvailable != nil {
		dish.IsAvailable = *input.IsAvailable
	}
	if imageURL != "" {
		dish.ImageURL = imageURL
	}

	if err := database.DB.Save(&dish).Error; err != nil {
		log.Error().Err(err).Str("dish_id", id).Msg("failed to update dish")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to update dish",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "dish updated",
		"data":    dish,
	})
}

// DeleteDish removes a catalog entry. Historical order items keep their own
// dish-name snapshot, so deletion does not corrupt past orders.
func DeleteDish(c *gin.Context) {
	id := c.Param("id")

	var dish model.Dish
	if err := database.DB.First(&dish, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "dish not found",
		})
		return
	}

	if err := database.DB.Delete(&dish).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to delete dish",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "dish deleted",
	})
}

// GetAllDishesAdmin lists every dish including unavailable ones.
func GetAllDishesAdmin(c *gin.Context) {
	var dishes []model.Dish
	if err := database.DB.Order("category, name").Find(&dishes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to fetch dishes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dishes,
	})
}

// BulkImportDishes loads dishes from an uploaded Excel sheet. Expected
// columns: name, price, category, description. Malformed rows are skipped.
func BulkImportDishes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Excel file is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "unable to open Excel file",
		})
		return
	}
	defer file.Close()

	xl, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "failed to parse Excel file",
		})
		return
	}

	rows, err := xl.GetRows("Sheet1")
	if err != nil || len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Excel must have a header row and at least one data row",
		})
		return
	}

	var dishes []model.Dish
	skipped := 0
	for _, row := range rows[1:] {
		if len(row) < 3 || row[0] == "" {
			skipped++
			continue
		}
		price, err := strconv.ParseFloat(row[1], 64)
		if err != nil || price < 0 {
			skipped++
			continue
		}
		dish := model.Dish{
			Name:        row[0],
			Price:       price,
			Category:    row[2],
			IsAvailable: true,
		}
		if len(row) > 3 {
			dish.Description = row[3]
		}
		dishes = append(dishes, dish)
	}

	if len(dishes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "no valid rows found in Excel file",
		})
		return
	}

	if err := database.DB.Create(&dishes).Error; err != nil {
		log.Error().Err(err).Msg("failed to import dishes")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to import dishes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "dishes imported",
		"imported": len(dishes),
		"skipped":  skipped,
	})
}
