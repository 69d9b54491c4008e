package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	TriggerPhrase string `validate:"required,min=3"`
	Category      string `validate:"oneof=general faq"`
}

func TestHandleValidationError_SingleField(t *testing.T) {
	err := validator.New().Struct(sampleRequest{TriggerPhrase: "hi", Category: "faq"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "triggerPhrase", detail.Field)
	assert.Equal(t, "triggerPhrase must be at least 3", detail.Message)
}

func TestHandleValidationError_ManyFields(t *testing.T) {
	err := validator.New().Struct(sampleRequest{Category: "other"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, "Validation failed", detail.Message)
	fields, ok := detail.Details.([]ErrorDetail)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "category must be one of: general, faq", fields[1].Message)
}

func TestHandleValidationError_NonValidatorError(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, "Invalid request format", detail.Message)
	assert.Equal(t, "unexpected EOF", detail.Details)
}
