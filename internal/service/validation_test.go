package service

import (
	"academyhub/internal/apierr"
	"academyhub/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apierrFields(err error) map[string]string {
	return apierr.From(err).Fields
}

func TestValidPhone(t *testing.T) {
	valid := []string{"+5511955550000", "+55 11 5555-0000", "(11) 5555-0000", "555 0000", "+1 (415) 555.0100"}
	for _, p := range valid {
		assert.True(t, ValidPhone(p), p)
	}
	invalid := []string{"", "12345", "phone", "+55 11 5555-000a", "1234567890123456", "--5555555-"}
	for _, p := range invalid {
		assert.False(t, ValidPhone(p), p)
	}
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	err := validateStruct(&model.Contact{Name: "Ana", Email: "bad", Phone: "+5511955550000"})
	require.Error(t, err)
	fields := apierrFields(err)
	assert.Equal(t, map[string]string{"email": "must be a valid email"}, fields)

	assert.NoError(t, validateStruct(&model.Contact{Name: "Ana", Email: "ana@example.com", Phone: "+5511955550000"}))
}
