package domain

import "time"

// Review Model (append-only)
type Review struct {
	ID      uint      `gorm:"primaryKey" json:"id"`                   // Primary key
	UserID  uint      `gorm:"index;not null" json:"user_id"`          // Foreign key to User
	Message string    `gorm:"not null" json:"message"`                // Review text
	Date    time.Time `gorm:"column:date;autoCreateTime" json:"date"` // Timestamp of creation
}

// TableName maps the model to the reviews table
func (Review) TableName() string { return "reviews" }
