package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string `json:"name" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	Category string `json:"category" validate:"omitempty,oneof=core plugins themes"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "a", URL: "https://a.test"}))

	err := ValidateStruct(sample{URL: "not a url", Category: "kernel"})
	assert.Error(t, err)

	errs := TranslateError(err)
	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "url must be a valid URL", errs["url"])
	assert.Equal(t, "category must be one of: core plugins themes", errs["category"])
	assert.Equal(t, "name is required", Message(err))
}
