// Package ledger is the wallet core: every balance mutation happens here,
// inside a single database transaction paired with exactly one Transaction
// record, so the wallet and its history can never disagree.
package ledger

import (
	"errors"                    // Sentinel error matching
	"riverview/internal/domain" // Importing domain models

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// PlaceOrder debits the user's wallet by the coerced total of the given cart
// snapshot, records a purchase Transaction and clears the user's cart, all
// in one database transaction. Returns the charged total.
//
// The balance is re-read inside the transaction (client-supplied balances
// are never trusted) and the debit itself is guarded by a wallet >= total
// condition, so two concurrent orders against the same row cannot both
// spend the same funds.
func PlaceOrder(db *gorm.DB, userID uint, lines []OrderLine) (float64, error) {
	// Reject before touching the store
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}
	total := OrderTotal(lines) // Coerce and sum the snapshot
	// Coercion never yields a negative total; if one ever shows up the
	// snapshot is garbage and a debit must not become a credit.
	if total < 0 {
		return 0, ErrEmptyCart
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var user domain.User // Re-read current balance inside the transaction
		if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound // No such user
			}
			return err // Infrastructure failure, rolls back
		}
		// Insufficient balance fails the whole unit with no mutation
		if user.Wallet < total {
			return ErrInsufficientFunds
		}
		// Guarded debit: the store re-checks the balance condition so a
		// concurrent order that already spent the funds leaves zero rows
		// affected here instead of driving the wallet negative.
		res := tx.Model(&domain.User{}).
			Where("user_id = ? AND wallet >= ?", userID, total).
			Update("wallet", gorm.Expr("wallet - ?", total))
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds // Lost the race to another order
		}
		// Record the purchase in the same unit
		t := domain.Transaction{
			UserID: userID,            // Buyer
			Amount: total,             // Charged total
			Type:   domain.TxPurchase, // Transaction kind
		}
		if err := tx.Create(&t).Error; err != nil {
			return err // Return error to rollback
		}
		// The cart is cleared iff the order succeeded
		if err := tx.Where("user_id = ?", userID).Delete(&domain.CartLine{}).Error; err != nil {
			return err // Return error to rollback
		}
		return nil // Commit transaction
	})
	return total, err
}

// AddFunds credits the user's wallet after re-verifying the account password
// as a step-up authorization check. The amount follows the coercion policy:
// malformed or negative input credits 0, which is accepted as a no-op rather
// than rejected. Returns the credited amount.
func AddFunds(db *gorm.DB, userID uint, amount any, password string) (float64, error) {
	var user domain.User // Load the current hash for the step-up check
	if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	// A credit requires the password again, not just a live token
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, ErrWrongPassword
	}
	amt := CoerceAmount(amount) // Malformed or negative input credits 0

	err := db.Transaction(func(tx *gorm.DB) error {
		// Credit the wallet. Zero rows affected means the row vanished
		// after the step-up read; an add record must not outlive its user.
		res := tx.Model(&domain.User{}).
			Where("user_id = ?", userID).
			Update("wallet", gorm.Expr("wallet + ?", amt))
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		// Record the credit in the same unit
		t := domain.Transaction{
			UserID: userID,       // Account holder
			Amount: amt,          // Credited amount
			Type:   domain.TxAdd, // Transaction kind
		}
		if err := tx.Create(&t).Error; err != nil {
			return err // Return error to rollback
		}
		return nil // Commit transaction
	})
	return amt, err
}

// ListTransactions returns the user's wallet history, most recent first
func ListTransactions(db *gorm.DB, userID uint) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := db.Where("user_id = ?", userID).
		Order("date desc, id desc").
		Find(&transactions).Error
	return transactions, err
}
