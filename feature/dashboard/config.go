package dashboard

// Config holds configuration for the dashboard export.
type Config struct {
	// OutputPath is where the aggregated dashboard JSON is written.
	OutputPath string `mapstructure:"output_path" default:"data/dashboard.json"`
}
