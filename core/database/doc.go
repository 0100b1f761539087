// Package database handles the inventory database connection and schema inspection.
//
// It wraps GORM to configure either a MySQL connection (production) or a sqlite
// database (local runs and tests) from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and verifies the
// connection with a bounded ping.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns back the schema integrity check, which verifies
// that the inventory, taxonomy and history tables carry the columns the sync engine writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "vehicles", []string{"identity", "status"})
package database
