package ledger

import "errors"

// Business errors surfaced to handlers. Anything else returned by a ledger
// operation is an infrastructure failure and maps to a generic 500.
var (
	ErrEmptyCart         = errors.New("cart is empty")               // Order placed with no lines
	ErrInsufficientFunds = errors.New("insufficient wallet balance") // Balance below the order total
	ErrWrongPassword     = errors.New("wrong password")              // Step-up check failed on addFunds
	ErrUserNotFound      = errors.New("user not found")              // No row for the given user ID
)
