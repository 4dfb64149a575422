package market

// Config holds configuration for the auction platform API client.
type Config struct {
	// BaseURL is the root of the platform API.
	BaseURL string `mapstructure:"base_url" default:"https://apiv8.emiratesauction.net/api"`
	// PageSize is the maximum number of auction lots requested per poll.
	PageSize int `mapstructure:"page_size" default:"150"`
	// BuyNowPageSize is the maximum number of buy-now items requested per poll.
	BuyNowPageSize int `mapstructure:"buynow_page_size" default:"200"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"PlateTracker/1.0"`
	// RequestsPerMinute caps the polling rate against the platform.
	RequestsPerMinute int `mapstructure:"requests_per_minute" default:"30"`
}
