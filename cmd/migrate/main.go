package main

import (
	"riverview/internal/config" // Custom import path (Config)
	"riverview/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Create or update the five tables
}
