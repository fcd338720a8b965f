package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"riverview/internal/domain"
	"riverview/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// newTestRouter wires the full route table against an in-memory database.
// The Redis client points at a closed port on purpose: cache lookups fail
// and every handler falls through to the database.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.FoodItem{}, &domain.CartLine{},
		&domain.Transaction{}, &domain.Review{},
	))

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	r := gin.New()
	r.POST("/signup", SignupHandler(db))
	r.POST("/login", LoginHandler(db, testJWTSecret))
	r.GET("/foods", ListFoodsHandler(db, rdb))
	r.GET("/reviews", ListReviewsHandler(db, rdb))

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	auth.GET("/me", MeHandler(db))
	auth.POST("/cart", AddCartLineHandler(db))
	auth.GET("/cart", GetCartHandler(db))
	auth.POST("/cart/order", PlaceOrderHandler(db))
	auth.POST("/wallet/add", AddFundsHandler(db))
	auth.GET("/transactions", ListTransactionsHandler(db))
	auth.POST("/reviews", AddReviewHandler(db, rdb))
	return r, db
}

// performJSON sends a JSON request through the router. An empty token sends
// no Authorization header.
func performJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signupAndLogin registers a user through the API and returns their token
func signupAndLogin(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	w := performJSON(t, r, http.MethodPost, "/signup",
		gin.H{"name": name, "email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performJSON(t, r, http.MethodPost, "/login",
		gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}
