package controller_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mealplan/model"
)

func TestGetDishesFiltersAvailability(t *testing.T) {
	router, db := setupRouter(t)
	seedDish(t, db, "Rice", "main", 8, true)
	seedDish(t, db, "Tea", "drink", 3, true)
	seedDish(t, db, "Off Menu", "main", 5, false)

	w := doJSON(router, "GET", "/api/dishes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 2)

	// Ordered by (category, name): drink before main.
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Tea", first["name"])

	w = doJSON(router, "GET", "/api/dishes?category=main", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Rice", data[0].(map[string]interface{})["name"])
}

func TestGetDishByIDHidesUnavailable(t *testing.T) {
	router, db := setupRouter(t)
	hidden := seedDish(t, db, "Off Menu", "main", 5, false)

	w := doJSON(router, "GET", fmt.Sprintf("/api/dishes/%d", hidden.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCategoriesLabels(t *testing.T) {
	router, db := setupRouter(t)
	seedDish(t, db, "Rice", "main", 8, true)
	seedDish(t, db, "Mystery", "seasonal", 9, true)
	seedDish(t, db, "Hidden", "dessert", 4, false)

	w := doJSON(router, "GET", "/api/dishes/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].([]interface{})
	labels := map[string]string{}
	for _, entry := range data {
		m := entry.(map[string]interface{})
		labels[m["value"].(string)] = m["label"].(string)
	}
	assert.Equal(t, "主食", labels["main"])
	// Unknown categories pass through with their raw value.
	assert.Equal(t, "seasonal", labels["seasonal"])
	// Categories of hidden dishes are not listed.
	_, ok := labels["dessert"]
	assert.False(t, ok)
}

func TestCreateDishRequiresAdmin(t *testing.T) {
	router, _ := setupRouter(t)
	customerToken := registerCustomer(t, router, "Zhang San", "13800000001", "secret1")

	payload := map[string]interface{}{"name": "Rice", "category": "main", "price": 8.0}

	w := doJSON(router, "POST", "/api/dishes/admin", payload, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "POST", "/api/dishes/admin", payload, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "POST", "/api/dishes/admin", payload, adminToken(t))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCreateDishValidation(t *testing.T) {
	router, _ := setupRouter(t)
	token := adminToken(t)

	w := doJSON(router, "POST", "/api/dishes/admin", map[string]interface{}{
		"name": "Rice",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/dishes/admin", map[string]interface{}{
		"name": "Rice", "category": "main", "price": -1.0,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDishHiddenPersistsUnavailable(t *testing.T) {
	router, db := setupRouter(t)
	token := adminToken(t)

	w := doJSON(router, "POST", "/api/dishes/admin", map[string]interface{}{
		"name": "Seasonal Special", "category": "main", "price": 12.0,
		"is_available": false,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dish model.Dish
	require.NoError(t, db.Where("name = ?", "Seasonal Special").First(&dish).Error)
	assert.False(t, dish.IsAvailable)

	// Hidden from creation: invisible to customers, unorderable.
	w = doJSON(router, "GET", fmt.Sprintf("/api/dishes/%d", dish.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateDishPartial(t *testing.T) {
	router, db := setupRouter(t)
	dish := seedDish(t, db, "Rice", "main", 8, true)

	w := doJSON(router, "PATCH", "/api/dishes/admin/1", map[string]interface{}{
		"price":        9.5,
		"is_available": false,
	}, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated model.Dish
	require.NoError(t, db.First(&updated, dish.ID).Error)
	assert.Equal(t, 9.5, updated.Price)
	assert.False(t, updated.IsAvailable)
	// Unspecified fields keep their previous value.
	assert.Equal(t, "Rice", updated.Name)
	assert.Equal(t, "main", updated.Category)
}

func TestUpdateDishNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, "PATCH", "/api/dishes/admin/99", map[string]interface{}{
		"price": 9.5,
	}, adminToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminListIncludesUnavailable(t *testing.T) {
	router, db := setupRouter(t)
	seedDish(t, db, "Rice", "main", 8, true)
	seedDish(t, db, "Off Menu", "main", 5, false)

	w := doJSON(router, "GET", "/api/dishes/admin/all-dishes", nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestDeleteDishKeepsOrderHistory(t *testing.T) {
	router, db := setupRouter(t)
	dish := seedDish(t, db, "Rice", "main", 8, true)
	token := registerCustomer(t, router, "Zhang San", "13800000001", "secret1")

	w := doJSON(router, "POST", "/api/orders", map[string]interface{}{
		"items":     []map[string]interface{}{{"dish_id": dish.ID, "quantity": 1}},
		"plan_type": "5",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, "DELETE", "/api/dishes/admin/1", nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	// Item rows keep their own name snapshot.
	var item model.OrderItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, "Rice", item.DishName)
}

func TestBulkImportDishes(t *testing.T) {
	router, db := setupRouter(t)

	xl := excelize.NewFile()
	_ = xl.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "price", "category", "description"})
	_ = xl.SetSheetRow("Sheet1", "A2", &[]interface{}{"Rice", 8.0, "main", "steamed"})
	_ = xl.SetSheetRow("Sheet1", "A3", &[]interface{}{"Tea", 3.5, "drink"})
	_ = xl.SetSheetRow("Sheet1", "A4", &[]interface{}{"Broken", "not-a-price", "main"})
	sheet, err := xl.WriteToBuffer()
	require.NoError(t, err)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "dishes.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sheet.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/api/dishes/admin/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	w := performRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["imported"])
	assert.Equal(t, float64(1), body["skipped"])

	var count int64
	require.NoError(t, db.Model(&model.Dish{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
