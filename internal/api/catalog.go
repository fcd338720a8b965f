package api

import (
	"context"                       // Context for Redis operations
	"errors"                        // Sentinel error matching
	"net/http"                      // HTTP status codes
	"riverview/internal/domain"     // Importing domain models
	"riverview/internal/middleware" // Verified user ID lookup
	"riverview/internal/utils"      // Cache helpers
	"time"                          // Review timestamps

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// AddCartRequest adds one food item to the user's cart
type AddCartRequest struct {
	FoodID   uint `json:"food_id" binding:"required"` // Food item to add
	Quantity int  `json:"quantity"`                   // Optional, defaults to 1
}

// AddReviewRequest carries a new review message
type AddReviewRequest struct {
	Message string `json:"message" binding:"required"` // Review text must be provided
}

// CartView is one line of the joined cart listing
type CartView struct {
	CartID   uint    `json:"cart_id"`  // Cart line ID
	Name     string  `json:"name"`     // Food item name
	Price    float64 `json:"price"`    // Unit price
	Quantity int     `json:"quantity"` // Pending quantity
}

// ReviewView is one line of the joined review listing
type ReviewView struct {
	Message string    `json:"message"` // Review text
	Date    time.Time `json:"date"`    // Posted at
	Name    string    `json:"name"`    // Author display name
}

// ListFoodsHandler returns the food catalog, cached briefly in Redis since
// the catalog is read-only from this service's perspective
func ListFoodsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		var foods []domain.FoodItem
		// Try the cache first
		found, err := utils.GetCache(ctx, rdb, utils.FoodsCacheKey, &foods)
		if err == nil && found {
			c.JSON(http.StatusOK, foods) // Return cached catalog
			return
		}
		// Fall back to the database
		if err := db.Find(&foods).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch foods"})
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.FoodsCacheKey, foods, utils.CacheTTL) // Cache the listing
		c.JSON(http.StatusOK, foods)                                             // Return the catalog
	}
}

// AddCartLineHandler appends a food item to the authenticated user's cart
func AddCartLineHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Verified by the JWT middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req AddCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// The food reference must exist before a line points at it
		var food domain.FoodItem
		if err := db.First(&food, "food_id = ?", req.FoodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Food not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		}
		qty := req.Quantity // Clients that omit quantity get a single item
		if qty < 1 {
			qty = 1
		}
		line := domain.CartLine{UserID: userID, FoodID: req.FoodID, Quantity: qty}
		if err := db.Create(&line).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Added to cart!"})
	}
}

// GetCartHandler returns the authenticated user's cart joined with the
// catalog for names and prices
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Verified by the JWT middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var lines []CartView // Joined cart view
		err := db.Table("cart").
			Select("cart.cart_id, food_items.name, food_items.price, cart.quantity").
			Joins("JOIN food_items ON cart.food_id = food_items.food_id").
			Where("cart.user_id = ?", userID).
			Scan(&lines).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, lines) // Return the joined cart
	}
}

// ListReviewsHandler returns all reviews joined with author names, newest
// first, cached briefly in Redis
func ListReviewsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		var reviews []ReviewView
		// Try the cache first
		found, err := utils.GetCache(ctx, rdb, utils.ReviewsCacheKey, &reviews)
		if err == nil && found {
			c.JSON(http.StatusOK, reviews) // Return cached listing
			return
		}
		// Fall back to the database
		err = db.Table("reviews").
			Select("reviews.message, reviews.date, users.name").
			Joins("JOIN users ON reviews.user_id = users.user_id").
			Order("reviews.date desc").
			Scan(&reviews).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reviews"})
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.ReviewsCacheKey, reviews, utils.CacheTTL) // Cache the listing
		c.JSON(http.StatusOK, reviews)                                               // Return the listing
	}
}

// AddReviewHandler stores a review for the authenticated user and drops the
// cached listing so the new review shows up immediately
func AddReviewHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Verified by the JWT middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req AddReviewRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		review := domain.Review{UserID: userID, Message: req.Message}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add review"})
			return
		}
		// Invalidate the cached listing
		_ = utils.DeleteCache(context.Background(), rdb, utils.ReviewsCacheKey)
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Review added!"})
	}
}
