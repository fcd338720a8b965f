package domain

// FoodItem Model
type FoodItem struct {
	ID    uint    `gorm:"column:food_id;primaryKey" json:"food_id"` // Primary key
	Name  string  `gorm:"not null" json:"name"`                     // Item name
	Price float64 `gorm:"not null" json:"price"`                    // Unit price, non-negative
}

// TableName maps the model to the food_items table
func (FoodItem) TableName() string { return "food_items" }
