package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mealplan/auth"
	"mealplan/config"
	"mealplan/controller"
	"mealplan/database"
	"mealplan/model"
	"mealplan/route"
	"mealplan/service"
)

var dbCounter int64

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Database.Driver = "sqlite"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AdminUsername = "mkchufang"
	cfg.Auth.AdminPassword = "zhengdaqian"
	cfg.Plans = map[string]float64{"5": 69.95, "10": 119.90}
	cfg.Upload.Dir = t.TempDir()
	return cfg
}

// setupRouter builds the full router against a fresh in-memory database.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:ctl_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := testConfig(t)
	auth.Setup(cfg.Auth.JWTSecret)
	orderService := service.NewOrderService(db, cfg.Plans, nil, "", zerolog.Nop())
	controller.Setup(cfg, orderService, zerolog.Nop())

	router := gin.New()
	route.Register(router)
	return router, db
}

// doJSON performs a JSON request; token, when set, rides the Authorization header.
func doJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerCustomer creates an account through the API and returns its token.
func registerCustomer(t *testing.T, router *gin.Engine, fullName, phone, password string) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/auth/register", map[string]string{
		"full_name": fullName,
		"phone":     phone,
		"password":  password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateAdminToken()
	require.NoError(t, err)
	return token
}

func seedDish(t *testing.T, db *gorm.DB, name, category string, price float64, available bool) model.Dish {
	t.Helper()
	dish := model.Dish{Name: name, Category: category, Price: price, IsAvailable: available}
	require.NoError(t, db.Create(&dish).Error)
	return dish
}
