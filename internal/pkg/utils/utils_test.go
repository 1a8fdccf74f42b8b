package utils

import (
	"errors"
	"testing"

	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogOperation(t *testing.T) {
	t.Run("Completed", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		err := LogOperation(zap.New(core), "create_item", func() (uint64, error) {
			return 7, nil
		})
		require.NoError(t, err)

		entries := logs.FilterMessage("Operation completed").All()
		require.Len(t, entries, 1, "a completed operation should be logged once")
		fields := entries[0].ContextMap()
		assert.Equal(t, "create_item", fields[constvars.LoggingOperationKey])
		assert.Equal(t, uint64(7), fields[constvars.LoggingVersionKey])
		assert.Equal(t, true, fields[constvars.LoggingSuccessKey])
	})

	t.Run("Rejected", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		want := exceptions.ErrNotFound("item", "q1")
		err := LogOperation(zap.New(core), "delete_item", func() (uint64, error) {
			return 3, want
		})
		assert.Same(t, want, err, "the error should be returned unchanged")

		entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
		require.Len(t, entries, 1)
		assert.Equal(t, constvars.ErrCodeNotFound, entries[0].ContextMap()[constvars.LoggingErrorCodeKey])
	})
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, constvars.ErrCodeTypeMismatch, ErrorCode(exceptions.ErrInvalidStatus("final")))
	assert.Equal(t, constvars.ErrCodeUnknown, ErrorCode(errors.New("boom")), "plain errors have no code")
}

func TestGenerators(t *testing.T) {
	t.Run("Sequence", func(t *testing.T) {
		ids := NewSequenceGenerator("q")
		assert.Equal(t, []string{"q-1", "q-2", "q-3"}, []string{ids.NewID(), ids.NewID(), ids.NewID()})
	})

	t.Run("UUID", func(t *testing.T) {
		ids := NewUUIDGenerator()
		first, second := ids.NewID(), ids.NewID()
		assert.NotEqual(t, first, second)
		_, err := uuid.Parse(first)
		assert.NoError(t, err, "identifiers should be valid UUIDs")
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("QB_TEST_INT", "12")
	t.Setenv("QB_TEST_BAD_INT", "twelve")
	t.Setenv("QB_TEST_BOOL", "true")

	assert.Equal(t, 12, GetEnvInt("QB_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("QB_TEST_BAD_INT", 1), "unparseable values should fall back")
	assert.Equal(t, 1, GetEnvInt("QB_TEST_UNSET", 1))
	assert.True(t, GetEnvBool("QB_TEST_BOOL", false))
	assert.Equal(t, "fallback", GetEnvString("QB_TEST_UNSET", "fallback"))
}
