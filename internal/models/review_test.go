package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklistCompleteAndMissingItems(t *testing.T) {
	checklist := &ReviewChecklist{}
	assert.False(t, checklist.Complete())
	assert.Equal(t, []string{
		ChecklistItemInvestigation,
		ChecklistItemCapa,
		ChecklistItemCustomer,
		ChecklistItemDocumentation,
	}, checklist.MissingItems())

	checklist.InvestigationVerified = true
	checklist.CustomerInformed = true
	assert.False(t, checklist.Complete())
	assert.Equal(t, []string{
		ChecklistItemCapa,
		ChecklistItemDocumentation,
	}, checklist.MissingItems())

	checklist.CapaVerified = true
	checklist.DocumentationComplete = true
	assert.True(t, checklist.Complete())
	assert.Empty(t, checklist.MissingItems())
}

func TestChecklistSetItem(t *testing.T) {
	checklist := &ReviewChecklist{}

	require.NoError(t, checklist.SetItem(ChecklistItemCapa, true))
	assert.True(t, checklist.CapaVerified)

	require.NoError(t, checklist.SetItem(ChecklistItemCapa, false))
	assert.False(t, checklist.CapaVerified)

	err := checklist.SetItem("legal_signoff", true)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "item", ve.Field)
}
