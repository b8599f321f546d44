package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComplaintStatusValid(t *testing.T) {
	for _, status := range []ComplaintStatus{StatusNew, StatusInProgress, StatusResolved, StatusClosed} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, ComplaintStatus("ARCHIVED").Valid())
	assert.False(t, ComplaintStatus("").Valid())
}

func TestCapaStatusBlocking(t *testing.T) {
	assert.True(t, CapaPlanned.Blocking())
	assert.True(t, CapaInProgress.Blocking())
	assert.False(t, CapaCompleted.Blocking())
	assert.False(t, CapaOnHold.Blocking())
}

func TestCorrectiveActionOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&CorrectiveAction{Status: CapaPlanned, DueDate: &past}).Overdue(now))
	assert.False(t, (&CorrectiveAction{Status: CapaPlanned, DueDate: &future}).Overdue(now))
	assert.False(t, (&CorrectiveAction{Status: CapaCompleted, DueDate: &past}).Overdue(now))
	assert.False(t, (&CorrectiveAction{Status: CapaPlanned}).Overdue(now))
}

func TestLifecycleTransitionsCoverEveryStatus(t *testing.T) {
	reachable := map[ComplaintStatus]bool{StatusNew: true}
	for _, tr := range LifecycleTransitions {
		reachable[tr.Dst] = true
	}
	for _, status := range []ComplaintStatus{StatusNew, StatusInProgress, StatusResolved, StatusClosed} {
		assert.True(t, reachable[status], "status %s is unreachable", status)
	}
}
