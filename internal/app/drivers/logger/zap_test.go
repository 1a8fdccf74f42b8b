package logger

import (
	"os"
	"path/filepath"
	"testing"

	"questionnaire-builder/internal/app/config"
	"questionnaire-builder/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewZapLogger(t *testing.T) {
	t.Run("Level From Config", func(t *testing.T) {
		driverConfig := &config.DriverConfig{Logger: config.Logger{Level: "warn"}}
		internalConfig := &config.InternalConfig{App: config.App{Env: constvars.EnvironmentDevelopment, Name: "qbuilder"}}

		log, err := NewZapLogger(driverConfig, internalConfig)
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel), "info should be filtered at warn level")
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel), "warn should be logged at warn level")
	})

	t.Run("Unknown Level Falls Back To Info", func(t *testing.T) {
		driverConfig := &config.DriverConfig{Logger: config.Logger{Level: "loud"}}
		internalConfig := &config.InternalConfig{App: config.App{Env: constvars.EnvironmentDevelopment}}

		log, err := NewZapLogger(driverConfig, internalConfig)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Production Writes To File", func(t *testing.T) {
		dir := t.TempDir()
		driverConfig := &config.DriverConfig{Logger: config.Logger{
			Level:               "info",
			OutputFileName:      filepath.Join(dir, "out.log"),
			OutputErrorFileName: filepath.Join(dir, "err.log"),
		}}
		internalConfig := &config.InternalConfig{App: config.App{Env: constvars.EnvironmentProduction, Name: "qbuilder"}}

		log, err := NewZapLogger(driverConfig, internalConfig)
		require.NoError(t, err)
		log.Info("exported")
		require.NoError(t, log.Sync())

		written, err := os.ReadFile(driverConfig.Logger.OutputFileName)
		require.NoError(t, err)
		assert.Contains(t, string(written), `"msg":"exported"`, "production logs should be JSON lines in the output file")
	})
}
