package config

import (
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "info"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "qbuilder.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "qbuilder_error.log"),
		},
		Metrics: Metrics{
			OutputFileName: utils.GetEnvString("METRICS_FILE", ""),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:     utils.GetEnvString("APP_ENV", constvars.EnvironmentDevelopment),
			Name:    utils.GetEnvString("APP_NAME", constvars.AppName),
			Version: utils.GetEnvString("APP_VERSION", "v1.0"),
		},
		Editor: Editor{
			InlineOptionThreshold:    utils.GetEnvInt("EDITOR_INLINE_OPTION_THRESHOLD", constvars.DefaultInlineOptionThreshold),
			RemapDuplicateReferences: utils.GetEnvBool("EDITOR_REMAP_DUPLICATE_REFERENCES", false),
			ValueSetLibraryPath:      utils.GetEnvString("EDITOR_VALUE_SET_LIBRARY_PATH", ""),
		},
	}
}
