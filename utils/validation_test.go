package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleQuery struct {
	ID      string `query:"_id" validate:"required,uuid"`
	Periods int    `query:"periods" validate:"min=1,max=10"`
	Email   string `json:"email" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleQuery{ID: "7f1c2a52-0d7e-4d7a-9a55-3b0c1f0f8e11", Periods: 3}))

	err := ValidateStruct(sampleQuery{ID: "nope", Periods: 20, Email: "x"})
	require.Error(t, err)

	verrs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, ValidationErrors{
		{Field: "_id", Message: "must be a valid UUID"},
		{Field: "periods", Message: "must be at most 10"},
		{Field: "email", Message: "must be a valid email"},
	}, verrs)
	assert.Contains(t, err.Error(), "_id: must be a valid UUID")
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(sampleQuery{Periods: 1})
	require.Error(t, err)
	assert.Equal(t, ValidationErrors{{Field: "_id", Message: "is required"}}, err)
}
