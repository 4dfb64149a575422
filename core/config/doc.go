// Package config provides configuration management for the plate tracker.
//
// It utilizes Viper for loading configuration from environment variables and
// a .env file, with defaults declared as struct tags on each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings for the serve command
//   - Storage: optional S3/MinIO archive mirror credentials
//   - Log: logging level and format
//   - Market: auction platform API endpoint, paging and rate limits
//   - Auction: tracking and archive directories, final-hours threshold
//   - BuyNow: ledger and archive directories
//   - Dashboard: export output path
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Auction.DataDir)
package config
