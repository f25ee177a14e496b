package validation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisansetu/pkg/cropdata"
)

type plot struct {
	Crop   string  `json:"crop" validate:"required,crop"`
	Area   float64 `json:"area" validate:"gt=0"`
	Method string  `json:"method" validate:"omitempty,irrigation_method"`
	Soil   string  `query:"soil" validate:"omitempty,soil"`
}

func TestValidate(t *testing.T) {
	v := New(cropdata.Default())

	assert.NoError(t, v.Validate(&plot{Crop: "wheat", Area: 2, Method: "drip", Soil: "loam"}))
	assert.NoError(t, v.Validate(&plot{Crop: "wheat", Area: 0.5}))

	err := v.Validate(&plot{Crop: "banana", Area: 0, Method: "bucket", Soil: "peat"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"crop":   "crop is not a known crop",
		"area":   "area must be greater than 0",
		"method": "method must be one of drip, sprinkler, furrow, flood",
		"soil":   "soil must be one of sand, loam, clay",
	}, v.Fields(err))
}

func TestFields_NotValidation(t *testing.T) {
	v := New(cropdata.Default())
	assert.Nil(t, v.Fields(errors.New("boom")))
	assert.Nil(t, v.Fields(nil))
}
