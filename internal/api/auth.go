package api

import (
	"errors"                        // Sentinel error matching
	"net/http"                      // HTTP status codes
	"riverview/internal/domain"     // Importing domain models
	"riverview/internal/middleware" // Verified user ID lookup
	"riverview/internal/utils"      // JWT utility functions
	"strings"                       // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// SignupRequest is the registration payload
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`        // Display name must be provided
	Email    string `json:"email" binding:"required,email"` // Valid email must be provided
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginResponse carries the issued token and the public user view
type LoginResponse struct {
	Token string          `json:"token"` // JWT token
	User  domain.UserView `json:"user"`  // Public view: id, name, wallet
}

// SignupHandler registers a new user with a zero wallet balance
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Hash the password before persisting, cost factor 10
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		// New users start with an empty wallet; email is lowercased so the
		// uniqueness constraint is case-insensitive in practice
		user := domain.User{
			Name:         req.Name,
			Email:        strings.ToLower(req.Email),
			PasswordHash: string(hash),
			Wallet:       0,
		}
		// The unique index on email is the duplicate check: inserting and
		// inspecting the error avoids the race a pre-check would have
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Email already used!"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered!"})
	}
}

// LoginHandler authenticates a user and returns a token plus the public view
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database by email
		if err := db.First(&user, "email = ?", strings.ToLower(req.Email)).Error; err != nil {
			// Unknown email; anything else is a store failure, not a miss
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Wrong password"})
			return
		}
		// Issue a session token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		// Return the token with the public view, never the hash
		c.JSON(http.StatusOK, LoginResponse{Token: token, User: user.View()})
	}
}

// MeHandler returns the authenticated user's profile
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Verified by the JWT middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
			// Token was valid but the row is gone; store failures are 500s
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch profile"})
			return
		}
		// Profile shape expected by the frontend
		c.JSON(http.StatusOK, gin.H{
			"id":     user.ID,     // User ID
			"name":   user.Name,   // Display name
			"email":  user.Email,  // Email address
			"wallet": user.Wallet, // Current wallet balance
		})
	}
}
