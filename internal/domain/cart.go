package domain

// CartLine Model
type CartLine struct {
	ID       uint `gorm:"column:cart_id;primaryKey" json:"cart_id"` // Primary key
	UserID   uint `gorm:"index;not null" json:"user_id"`            // Foreign key to User
	FoodID   uint `gorm:"not null" json:"food_id"`                  // Foreign key to FoodItem
	Quantity int  `gorm:"not null;default:1" json:"quantity"`       // Pending quantity
}

// TableName maps the model to the cart table
func (CartLine) TableName() string { return "cart" }
