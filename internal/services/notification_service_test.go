package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate(
		"Complaint {{.complaint_number}} moved from {{.previous_status}} to {{.current_status}}.",
		map[string]string{
			"complaint_number": "CMP-2025-00042",
			"previous_status":  "NEW",
			"current_status":   "IN_PROGRESS",
		})
	require.NoError(t, err)
	assert.Equal(t, "Complaint CMP-2025-00042 moved from NEW to IN_PROGRESS.", out)
}

func TestRenderTemplateToleratesMissingVariables(t *testing.T) {
	out, err := RenderTemplate("Hello {{.name}}", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "Hello <no value>", out)
}

func TestRenderTemplateRejectsMalformedTemplate(t *testing.T) {
	_, err := RenderTemplate("Hello {{.name", nil)
	assert.Error(t, err)
}
