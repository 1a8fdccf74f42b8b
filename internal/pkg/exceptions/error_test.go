package exceptions

import (
	"errors"
	"testing"

	"questionnaire-builder/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorMatching(t *testing.T) {
	t.Run("Matches By Code", func(t *testing.T) {
		err := ErrLinkIDAlreadyUsed("q1")
		assert.ErrorIs(t, err, InvalidTarget, "errors with the same code should match")
		assert.NotErrorIs(t, err, InvalidParent, "errors with another code should not match")
		assert.Equal(t, "q1", err.Target)
	})

	t.Run("Keeps The Cause", func(t *testing.T) {
		cause := errors.New("unexpected end of JSON input")
		err := ErrDecode(cause, "item[0]")
		assert.ErrorIs(t, err, cause, "the cause should stay reachable")
		assert.ErrorIs(t, err, DecodeFailure)
		assert.Contains(t, err.DevMessage, cause.Error(), "the cause should be part of the developer message")
		assert.Equal(t, constvars.ErrClientInvalidDocument, err.ClientMessage)
	})

	t.Run("Records The Caller", func(t *testing.T) {
		err := ErrNotFound("item", "q1")
		assert.Contains(t, err.Location.FunctionName, "TestCustomErrorMatching", "the location should point at the factory caller")
		assert.Contains(t, err.Error(), constvars.ErrCodeNotFound)
	})

	t.Run("Invalid Parent Path", func(t *testing.T) {
		err := ErrInvalidParent([]string{"g", "h"})
		assert.Equal(t, "/g/h", err.Target)
	})
}

type sample struct {
	Status string `json:"status" validate:"required,oneof=draft active"`
	Count  int    `json:"count" validate:"min=1"`
}

func TestFormatValidationErrors(t *testing.T) {
	validate := validator.New()
	err := validate.Struct(sample{Status: "final"})
	require.Error(t, err)

	first := FormatFirstValidationError(err)
	assert.Contains(t, first, "Status", "the first message should name the first failing field")

	all := FormatAllValidationErrors(err)
	assert.Contains(t, all, "Status")
	assert.Contains(t, all, "Count", "every failing field should be reported")
}
