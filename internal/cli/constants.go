package cli

import "time"

// Default values for CLI output.
const (
	// progressUpdateFrequency is how often progress bars are redrawn.
	progressUpdateFrequency = 100 * time.Millisecond
	// progressTrackerLength is the width of a progress bar in characters.
	progressTrackerLength = 25
	// metricsShutdownTimeout bounds the shutdown of the metrics endpoint.
	metricsShutdownTimeout = 2 * time.Second
	// metricsReadHeaderTimeout bounds reading request headers on the metrics endpoint.
	metricsReadHeaderTimeout = 5 * time.Second
)
