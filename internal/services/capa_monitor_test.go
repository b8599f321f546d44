package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOverdueNotifiesOncePerCapa(t *testing.T) {
	store := newMemCaseStore()
	notifier := newNotifierRecorder()
	monitor := NewCapaMonitor(store, notifier, time.Hour)
	ctx := context.Background()

	pastDue := time.Now().Add(-48 * time.Hour)
	overdue := models.CorrectiveAction{
		ComplaintID: uuid.New(),
		Description: "Replace faulty sensor batch",
		Status:      models.CapaPlanned,
		DueDate:     &pastDue,
	}
	require.NoError(t, store.CreateCapa(ctx, &overdue))

	future := time.Now().Add(48 * time.Hour)
	onTrack := models.CorrectiveAction{
		ComplaintID: uuid.New(),
		Description: "Update inspection checklist",
		Status:      models.CapaInProgress,
		DueDate:     &future,
	}
	require.NoError(t, store.CreateCapa(ctx, &onTrack))

	require.NoError(t, monitor.CheckOverdue(ctx))

	select {
	case id := <-notifier.overdueCapas:
		assert.Equal(t, overdue.ID, id)
	default:
		t.Fatal("expected an overdue notification")
	}

	marked, err := store.FindCapaByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.NotNil(t, marked.OverdueNotifiedAt)

	// A second scan must not notify the same CAPA again.
	require.NoError(t, monitor.CheckOverdue(ctx))
	select {
	case id := <-notifier.overdueCapas:
		t.Fatalf("unexpected duplicate notification for %s", id)
	default:
	}
}

// capaCompleter marks a target corrective action COMPLETED when any other
// notification arrives, standing in for a staffer acting mid-scan.
type capaCompleter struct {
	store  *memCaseStore
	target uuid.UUID
}

func (n *capaCompleter) ComplaintStatusChanged(*models.Complaint, models.ComplaintStatus, models.ComplaintStatus, string) {
}

func (n *capaCompleter) CapaOverdue(capa *models.CorrectiveAction) {
	if capa.ID == n.target {
		return
	}
	target, err := n.store.FindCapaByID(context.Background(), n.target)
	if err != nil {
		return
	}
	now := time.Now()
	target.Status = models.CapaCompleted
	target.CompletionDate = &now
	_ = n.store.SaveCapa(context.Background(), target)
}

func TestCheckOverdueKeepsConcurrentStatusChange(t *testing.T) {
	store := newMemCaseStore()
	ctx := context.Background()

	older := time.Now().Add(-72 * time.Hour)
	first := models.CorrectiveAction{
		ComplaintID: uuid.New(),
		Description: "Recall affected lot",
		Status:      models.CapaPlanned,
		DueDate:     &older,
	}
	require.NoError(t, store.CreateCapa(ctx, &first))

	newer := time.Now().Add(-24 * time.Hour)
	second := models.CorrectiveAction{
		ComplaintID: uuid.New(),
		Description: "Update supplier audit schedule",
		Status:      models.CapaPlanned,
		DueDate:     &newer,
	}
	require.NoError(t, store.CreateCapa(ctx, &second))

	// While the scan handles the first item, the second is completed out from
	// under it. The stale copy held by the scan must not undo that.
	monitor := NewCapaMonitor(store, &capaCompleter{store: store, target: second.ID}, time.Hour)
	require.NoError(t, monitor.CheckOverdue(ctx))

	updated, err := store.FindCapaByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CapaCompleted, updated.Status)
	require.NotNil(t, updated.CompletionDate)
	assert.NotNil(t, updated.OverdueNotifiedAt)
}

func TestMonitorStartAndStopAreSafeConcurrently(t *testing.T) {
	monitor := NewCapaMonitor(newMemCaseStore(), nil, time.Hour)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		monitor.Start(context.Background())
	}()
	go func() {
		defer wg.Done()
		monitor.Stop()
	}()
	wg.Wait()

	// Repeated stops must not close the channel twice.
	monitor.Stop()
	monitor.Stop()
}

func TestCheckOverdueSkipsCompletedCapas(t *testing.T) {
	store := newMemCaseStore()
	notifier := newNotifierRecorder()
	monitor := NewCapaMonitor(store, notifier, time.Hour)
	ctx := context.Background()

	pastDue := time.Now().Add(-24 * time.Hour)
	done := models.CorrectiveAction{
		ComplaintID:    uuid.New(),
		Description:    "Already finished",
		Status:         models.CapaCompleted,
		DueDate:        &pastDue,
		CompletionDate: &pastDue,
	}
	require.NoError(t, store.CreateCapa(ctx, &done))

	require.NoError(t, monitor.CheckOverdue(ctx))
	assert.Empty(t, notifier.overdueCapas)
}
