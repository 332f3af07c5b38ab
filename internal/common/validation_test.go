package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormatAccepted(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	for _, format := range supported {
		assert.NoError(t, ValidateOutputFormat(format, supported), format)
	}
}

func TestValidateOutputFormatRejected(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := map[string]string{
		"unknown format": "xml",
		"wrong case":     "JSON",
		"empty string":   "",
	}
	for name, format := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateOutputFormat(format, supported)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unsupported output format '"+format+"'")
			assert.Contains(t, err.Error(), "[json text markdown]")
		})
	}
}

func TestValidateOutputFormatEmptySetAllowsAnything(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat("xml", nil))
	assert.NoError(t, ValidateOutputFormat("anything", []string{}))
}

func TestValidateOutputFormatSingleEntry(t *testing.T) {
	supported := []string{"json"}

	assert.NoError(t, ValidateOutputFormat("json", supported))

	err := ValidateOutputFormat("text", supported)
	require.Error(t, err)
	assert.Equal(t, "unsupported output format 'text'. Supported formats: [json]", err.Error())
}
