package api

import (
	"errors"                        // Sentinel error matching
	"net/http"                      // HTTP status codes
	"riverview/internal/ledger"     // Wallet ledger core
	"riverview/internal/middleware" // Verified user ID lookup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// PlaceOrderRequest carries the client's cart snapshot
type PlaceOrderRequest struct {
	Cart []ledger.OrderLine `json:"cart"` // Snapshot lines; prices are re-coerced server side
}

// AddFundsRequest carries a wallet credit with the step-up password
type AddFundsRequest struct {
	Amount   any    `json:"amount"`                      // Untyped: coercion policy applies
	Password string `json:"password" binding:"required"` // Account password, re-verified
}

// PlaceOrderHandler charges the authenticated user's wallet for the
// submitted cart snapshot and clears the cart
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Verified by the JWT middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req PlaceOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// All mutation happens inside the ledger's transaction scope
		total, err := ledger.PlaceOrder(db, userID, req.Cart)
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
			case errors.Is(err, ledger.ErrInsufficientFunds):
				c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient wallet balance"})
			case errors.Is(err, ledger.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			default:
				// Infrastructure failure: the transaction rolled back, log
				// the detail and keep the response generic
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // Buyer
					"total":   total,       // Computed order total
					"error":   err.Error(), // Error message
				}).Error("Order failed")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Order failed"})
			}
			return
		}
		// Log successful purchase
		logrus.WithFields(logrus.Fields{
			"user_id": userID, // Buyer
			"total":   total,  // Charged total
			"type":    "purchase",
		}).Info("Order placed")
		// Return success response; callers re-fetch the balance via /me
		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully!"})
	}
}

// AddFundsHandler credits the authenticated user's wallet after re-verifying
// the account password
func AddFundsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Verified by the JWT middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req AddFundsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Password is the only required field; the amount may be
			// anything and falls through the coercion policy
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Credit inside the ledger's transaction scope
		amount, err := ledger.AddFunds(db, userID, req.Amount, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrWrongPassword):
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Wrong password"})
			case errors.Is(err, ledger.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			default:
				// Infrastructure failure: rolled back, log and stay generic
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // Account holder
					"error":   err.Error(), // Error message
				}).Error("Add funds failed")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Add funds failed"})
			}
			return
		}
		// Log successful credit
		logrus.WithFields(logrus.Fields{
			"user_id": userID, // Account holder
			"amount":  amount, // Credited amount after coercion
			"type":    "add",
		}).Info("Funds added")
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Money added successfully!"})
	}
}

// ListTransactionsHandler returns the authenticated user's wallet history,
// most recent first
func ListTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c) // Verified by the JWT middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		transactions, err := ledger.ListTransactions(db, userID) // Pure read
		if err != nil {
			// If fetching fails, return generic error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch transactions"})
			return
		}
		c.JSON(http.StatusOK, transactions) // Return transaction history
	}
}
