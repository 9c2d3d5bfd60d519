// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures either a MySQL connection (production) or a
// SQLite database (local runs and tests) from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let import types verify that the table
// they persist into carries the columns their schema writes, before any job
// touches it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "products", []string{"sku", "price"})
package database
