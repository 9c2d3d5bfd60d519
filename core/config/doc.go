// Package config provides configuration management for the data importer.
//
// It uses Viper for loading configuration from environment variables and an
// optional .env file. Defaults are declared with `default` struct tags and
// registered by reflection so every key is visible to AutomaticEnv.
//
// # Configuration Structure
//
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Import: row cap, job timeout, charset, time zone, settings blob source
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Import.MaxRows)
package config
