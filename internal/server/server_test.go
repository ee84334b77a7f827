package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/config"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/server"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	stores store.Stores
	token  string
}

func newTestAPI(t *testing.T, products ...models.Product) *testAPI {
	t.Helper()
	stores := store.NewMemory()
	ctx := context.Background()
	for _, p := range products {
		require.NoError(t, stores.Products.Create(ctx, p))
	}
	cfg := config.Config{
		AppName:        "saffron-api-test",
		JWTSecret:      "test-secret",
		AllowedOrigins: "http://localhost:3000",
	}
	api := &testAPI{t: t, engine: server.New(cfg, stores, nil).Engine(), stores: stores}

	res := api.do("POST", "/api/register", "", gin.H{
		"name": "Asha", "email": "asha@example.com", "password": "secret123",
	})
	require.Equal(t, 201, res.Code, res.Body.String())
	api.token = api.login("asha@example.com", "secret123")
	return api
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	a.engine.ServeHTTP(res, req)
	return res
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	res := a.do("POST", "/api/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, 200, res.Code, res.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(res.Body.Bytes(), &out))
	return out.Token
}

func (a *testAPI) promoteToAdmin(email string) {
	a.t.Helper()
	user, err := a.stores.Users.GetByEmail(context.Background(), email)
	require.NoError(a.t, err)
	user.IsAdmin = true
	require.NoError(a.t, a.stores.Users.Update(context.Background(), user))
}

func decodeItems(t *testing.T, res *httptest.ResponseRecorder) []models.CartItem {
	t.Helper()
	var out struct {
		Items []models.CartItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	return out.Items
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/cart", "/api/orders", "/api/wishlist", "/api/user/profile"} {
		res := api.do("GET", path, "", nil)
		assert.Equal(t, 401, res.Code, path)
	}
	res := api.do("GET", "/api/cart", "not-a-token", nil)
	assert.Equal(t, 401, res.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	res := api.do("POST", "/api/register", "", gin.H{
		"name": "Imposter", "email": "asha@example.com", "password": "secret123",
	})
	assert.Equal(t, 409, res.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)
	res := api.do("POST", "/api/login", "", gin.H{"email": "asha@example.com", "password": "nope"})
	assert.Equal(t, 401, res.Code)
}

func TestCartEndpoints(t *testing.T) {
	api := newTestAPI(t, models.Product{ID: 1, Name: "Negin Saffron 5g", Price: 18.5, Stock: 5})

	res := api.do("POST", "/api/cart", api.token, gin.H{"productId": 1, "quantity": 3})
	require.Equal(t, 201, res.Code, res.Body.String())
	items := decodeItems(t, res)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	// 3 + 3 > 5
	res = api.do("POST", "/api/cart", api.token, gin.H{"productId": 1, "quantity": 3})
	assert.Equal(t, 409, res.Code)
	assert.Contains(t, res.Body.String(), "only 5 available")

	res = api.do("GET", "/api/cart", api.token, nil)
	require.Equal(t, 200, res.Code)
	require.Len(t, decodeItems(t, res), 1)

	res = api.do("PUT", "/api/cart/1", api.token, gin.H{"quantity": 5})
	require.Equal(t, 200, res.Code)
	assert.Equal(t, 5, decodeItems(t, res)[0].Quantity)

	res = api.do("PUT", "/api/cart/1", api.token, gin.H{"quantity": 0})
	require.Equal(t, 200, res.Code)
	assert.Empty(t, decodeItems(t, res))

	res = api.do("POST", "/api/cart/clear", api.token, nil)
	assert.Equal(t, 200, res.Code)

	res = api.do("POST", "/api/cart", api.token, gin.H{"productId": 77, "quantity": 1})
	assert.Equal(t, 404, res.Code)

	res = api.do("PUT", "/api/cart/not-a-number", api.token, gin.H{"quantity": 1})
	assert.Equal(t, 400, res.Code)
}

func TestCheckoutAndCancelFlow(t *testing.T) {
	api := newTestAPI(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})

	res := api.do("POST", "/api/cart", api.token, gin.H{"productId": 1, "quantity": 2})
	require.Equal(t, 201, res.Code)

	res = api.do("POST", "/api/orders", api.token, gin.H{
		"items":         []gin.H{{"productId": 1, "quantity": 2, "name": "Saffron", "price": 10.0}},
		"subtotal":      20.0,
		"total":         24.0,
		"shipping":      4.0,
		"paymentMethod": "card",
	})
	require.Equal(t, 201, res.Code, res.Body.String())
	var order models.Order
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &order))
	assert.Equal(t, models.StatusPaid, order.Status)
	assert.NotEmpty(t, order.Code)

	p, err := api.stores.Products.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	res = api.do("GET", "/api/cart", api.token, nil)
	require.Equal(t, 200, res.Code)
	assert.Empty(t, decodeItems(t, res))

	res = api.do("GET", "/api/orders/"+order.Code, api.token, nil)
	assert.Equal(t, 200, res.Code)

	res = api.do("POST", fmt.Sprintf("/api/orders/%s/cancel", order.Code), api.token, nil)
	require.Equal(t, 200, res.Code, res.Body.String())
	p, err = api.stores.Products.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	res = api.do("POST", fmt.Sprintf("/api/orders/%s/cancel", order.Code), api.token, nil)
	assert.Equal(t, 409, res.Code)

	res = api.do("POST", "/api/orders/SAF-NOPE/cancel", api.token, nil)
	assert.Equal(t, 404, res.Code)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	api := newTestAPI(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 1})

	res := api.do("POST", "/api/orders", api.token, gin.H{
		"items":         []gin.H{{"productId": 1, "quantity": 2, "name": "Saffron", "price": 10.0}},
		"paymentMethod": "card",
	})
	assert.Equal(t, 409, res.Code)
	assert.Contains(t, res.Body.String(), "only 1 available")
}

func TestReviewEndpoints(t *testing.T) {
	api := newTestAPI(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})

	body := gin.H{"productId": 1, "rating": 5, "reviewText": "Deep colour, great aroma"}
	res := api.do("POST", "/api/reviews", api.token, body)
	assert.Equal(t, 403, res.Code, "review without purchase must be forbidden")

	res = api.do("POST", "/api/orders", api.token, gin.H{
		"items":         []gin.H{{"productId": 1, "quantity": 1, "name": "Saffron", "price": 10.0}},
		"paymentMethod": "card",
	})
	require.Equal(t, 201, res.Code)

	res = api.do("POST", "/api/reviews", api.token, body)
	require.Equal(t, 201, res.Code, res.Body.String())

	res = api.do("POST", "/api/reviews", api.token, body)
	assert.Equal(t, 409, res.Code)

	// listing is public and carries the reviewer's name
	res = api.do("GET", "/api/reviews?productId=1", "", nil)
	require.Equal(t, 200, res.Code)
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Asha", reviews[0].UserName)

	// the product aggregate was updated
	res = api.do("GET", "/api/products/1", "", nil)
	require.Equal(t, 200, res.Code)
	var p models.Product
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &p))
	assert.Equal(t, 5.0, p.Rating)
	assert.Equal(t, 1, p.ReviewCount)
}

func TestAdminEndpoints(t *testing.T) {
	api := newTestAPI(t)

	product := gin.H{"id": 1, "name": "Saffron", "price": 10.0, "stock": 5}
	res := api.do("POST", "/api/admin/products", api.token, product)
	assert.Equal(t, 403, res.Code, "non-admin must be rejected")

	api.promoteToAdmin("asha@example.com")

	res = api.do("POST", "/api/admin/products", api.token, product)
	require.Equal(t, 201, res.Code, res.Body.String())

	res = api.do("PUT", "/api/admin/products/1", api.token, gin.H{"price": 12.5})
	require.Equal(t, 200, res.Code)
	var p models.Product
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &p))
	assert.Equal(t, 12.5, p.Price)
	assert.Equal(t, "Saffron", p.Name)

	// fulfillment status transition on a real order
	res = api.do("POST", "/api/orders", api.token, gin.H{
		"items":         []gin.H{{"productId": 1, "quantity": 1, "name": "Saffron", "price": 12.5}},
		"paymentMethod": "card",
	})
	require.Equal(t, 201, res.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &order))

	res = api.do("PUT", fmt.Sprintf("/api/admin/orders/%s/status", order.Code), api.token, gin.H{"status": "shipped"})
	require.Equal(t, 200, res.Code, res.Body.String())

	res = api.do("PUT", fmt.Sprintf("/api/admin/orders/%s/status", order.Code), api.token, gin.H{"status": "confirmed"})
	assert.Equal(t, 409, res.Code, "backwards transition must be rejected")

	res = api.do("DELETE", "/api/admin/products/1", api.token, nil)
	require.Equal(t, 200, res.Code)
	res = api.do("GET", "/api/products/1", "", nil)
	assert.Equal(t, 404, res.Code)
}

func TestCartReconciliationOverHTTP(t *testing.T) {
	api := newTestAPI(t, models.Product{ID: 9, Name: "Saffron Box", Price: 10, Stock: 4})

	res := api.do("POST", "/api/cart", api.token, gin.H{"productId": 9, "quantity": 4})
	require.Equal(t, 201, res.Code)

	// stock drops behind the cart's back
	p, err := api.stores.Products.Get(context.Background(), 9)
	require.NoError(t, err)
	p.Stock = 1
	require.NoError(t, api.stores.Products.Update(context.Background(), p))

	res = api.do("GET", "/api/cart", api.token, nil)
	require.Equal(t, 200, res.Code)
	items := decodeItems(t, res)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}
