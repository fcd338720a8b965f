package domain

// User Model
type User struct {
	ID           uint    `gorm:"column:user_id;primaryKey" json:"user_id"` // Primary key
	Name         string  `gorm:"not null" json:"name"`                     // Display name
	Email        string  `gorm:"unique;not null" json:"email"`             // Unique email address
	PasswordHash string  `gorm:"column:password_hash;not null" json:"-"`   // Bcrypt hash, never serialized
	Wallet       float64 `gorm:"not null;default:0" json:"wallet"`         // Wallet balance, mutated only by the ledger
}

// TableName maps the model to the users table
func (User) TableName() string { return "users" }

// UserView is the public shape returned on login and profile reads
type UserView struct {
	ID     uint    `json:"user_id"` // User ID
	Name   string  `json:"name"`    // Display name
	Wallet float64 `json:"wallet"`  // Current wallet balance
}

// View returns the public projection of a user (never the hash)
func (u User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Wallet: u.Wallet}
}
