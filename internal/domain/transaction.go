package domain

import "time"

// Transaction kinds: every wallet mutation records exactly one of these.
const (
	TxPurchase = "purchase" // Wallet debit from a placed order
	TxAdd      = "add"      // Wallet credit from /wallet/add
)

// Transaction Model (append-only wallet mutation record)
type Transaction struct {
	ID     uint      `gorm:"primaryKey" json:"id"`                   // Primary key
	UserID uint      `gorm:"index;not null" json:"user_id"`          // Foreign key to User
	Amount float64   `gorm:"not null" json:"amount"`                 // Mutation amount
	Type   string    `gorm:"not null" json:"type"`                   // Transaction kind: purchase or add
	Date   time.Time `gorm:"column:date;autoCreateTime" json:"date"` // Timestamp of creation
}

// TableName maps the model to the transactions table
func (Transaction) TableName() string { return "transactions" }
