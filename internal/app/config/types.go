package config

type (
	DriverConfig struct {
		Logger  Logger
		Metrics Metrics
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	// Metrics.OutputFileName is a Prometheus text file written when a
	// command ends; empty disables it.
	Metrics struct {
		OutputFileName string
	}
)
