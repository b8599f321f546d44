package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleFixture struct {
	svc      *lifecycleService
	store    *memCaseStore
	users    *memUserRepo
	products *memProductRepo
	notifier *notifierRecorder
	product  models.Product
	staff    models.User
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	store := newMemCaseStore()
	users := newMemUserRepo()
	products := newMemProductRepo()
	notifier := newNotifierRecorder()

	svc := NewLifecycleService(store, users, products, NewTransitionValidator(), notifier).(*lifecycleService)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	product := models.Product{Name: "Thermostat X2", Code: "THX2"}
	require.NoError(t, products.Create(context.Background(), &product))

	staff := models.User{
		Email:    "investigator@example.com",
		Username: "investigator",
		Role:     models.RoleInvestigator,
		IsActive: true,
	}
	require.NoError(t, users.Create(context.Background(), &staff))

	return &lifecycleFixture{
		svc:      svc,
		store:    store,
		users:    users,
		products: products,
		notifier: notifier,
		product:  product,
		staff:    staff,
	}
}

func (f *lifecycleFixture) fileComplaint(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.svc.FileComplaint(context.Background(), &models.FileComplaintRequest{
		Description: "Unit overheats after two hours of continuous use",
		FiledDate:   "2025-06-01T09:00:00Z",
		ProductID:   f.product.ID.String(),
	}, models.RoleIntake)
	require.NoError(t, err)
	return resp.ID
}

// advance moves the complaint into IN_PROGRESS with an active assignment.
func (f *lifecycleFixture) beginAssessment(t *testing.T, id uuid.UUID) {
	t.Helper()
	_, err := f.svc.BeginAssessment(context.Background(), id,
		&models.BeginAssessmentRequest{StaffID: f.staff.ID.String()},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)
}

func (f *lifecycleFixture) finalizeInvestigation(t *testing.T, id uuid.UUID) {
	t.Helper()
	_, err := f.svc.RecordConclusion(context.Background(), id, &models.RecordConclusionRequest{
		Summary:    "Fan controller firmware defect confirmed",
		Conclusion: "RESOLVED",
		Finalize:   true,
	}, f.staff.ID)
	require.NoError(t, err)
}

func (f *lifecycleFixture) completeChecklist(t *testing.T, id uuid.UUID) {
	t.Helper()
	for _, item := range []string{
		models.ChecklistItemInvestigation,
		models.ChecklistItemCapa,
		models.ChecklistItemCustomer,
		models.ChecklistItemDocumentation,
	} {
		_, err := f.svc.UpdateChecklistItem(context.Background(), id,
			&models.UpdateChecklistItemRequest{Item: item, Value: true}, f.staff.ID)
		require.NoError(t, err)
	}
}

func TestFileComplaintAssignsSequentialNumbers(t *testing.T) {
	f := newLifecycleFixture(t)

	first, err := f.svc.FileComplaint(context.Background(), &models.FileComplaintRequest{
		Description: "Display flickers when ambient temperature drops",
		FiledDate:   "2025-06-01T09:00:00Z",
		ProductID:   f.product.ID.String(),
	}, models.RoleIntake)
	require.NoError(t, err)
	assert.Equal(t, "CMP-2025-00001", first.ComplaintNumber)
	assert.Equal(t, models.StatusNew, first.Status)
	assert.Equal(t, models.PriorityMedium, first.Priority)

	second, err := f.svc.FileComplaint(context.Background(), &models.FileComplaintRequest{
		Description: "Mounting bracket arrived cracked out of the box",
		FiledDate:   "2025-06-02T09:00:00Z",
		ProductID:   f.product.ID.String(),
		Priority:    "HIGH",
	}, models.RoleIntake)
	require.NoError(t, err)
	assert.Equal(t, "CMP-2025-00002", second.ComplaintNumber)
	assert.Equal(t, models.PriorityHigh, second.Priority)

	entries, err := f.store.AllLedger(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.StatusNew, entries[0].Status)
	assert.Equal(t, "complaint filed", entries[0].Reason)
	assert.Equal(t, models.RoleIntake, entries[0].ActorRole)
}

func TestFileComplaintRejectsFutureFiledDate(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.FileComplaint(context.Background(), &models.FileComplaintRequest{
		Description: "Device refuses to pair with the companion app",
		FiledDate:   "2025-07-01T09:00:00Z",
		ProductID:   f.product.ID.String(),
	}, models.RoleIntake)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "filed_date", ve.Field)
}

func TestFileComplaintRejectsUnknownProduct(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.FileComplaint(context.Background(), &models.FileComplaintRequest{
		Description: "Device refuses to pair with the companion app",
		FiledDate:   "2025-06-01T09:00:00Z",
		ProductID:   uuid.NewString(),
	}, models.RoleIntake)

	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Entity)
}

func TestFileComplaintStampsCallerRole(t *testing.T) {
	f := newLifecycleFixture(t)

	resp, err := f.svc.FileComplaint(context.Background(), &models.FileComplaintRequest{
		Description: "Escalated directly by the field investigator",
		FiledDate:   "2025-06-01T09:00:00Z",
		ProductID:   f.product.ID.String(),
	}, models.RoleInvestigator)
	require.NoError(t, err)

	entries, err := f.store.AllLedger(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RoleInvestigator, entries[0].ActorRole)

	// Unauthenticated intake falls back to the intake role.
	resp, err = f.svc.FileComplaint(context.Background(), &models.FileComplaintRequest{
		Description: "Filed through the public intake form",
		FiledDate:   "2025-06-01T10:00:00Z",
		ProductID:   f.product.ID.String(),
	}, "")
	require.NoError(t, err)

	entries, err = f.store.AllLedger(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RoleIntake, entries[0].ActorRole)
}

func TestFullLifecycle(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)

	f.beginAssessment(t, id)
	complaint, err := f.svc.GetComplaint(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, complaint.Status)

	f.finalizeInvestigation(t, id)

	resolved, err := f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "firmware patched"},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolutionDate)

	f.completeChecklist(t, id)

	closed, err := f.svc.Close(ctx, id,
		&models.CloseComplaintRequest{ReviewerNotes: "all verified"},
		models.RoleReviewer, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, closed.Status)

	// Closing completes the active assignment.
	assignments, err := f.svc.ListAssignments(ctx, id)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, models.AssignmentCompleted, assignments[0].Status)
	require.NotNil(t, assignments[0].CompletionDate)

	reopened, err := f.svc.Reopen(ctx, id,
		&models.ReopenComplaintRequest{Reason: "customer reports recurrence"},
		models.RoleReviewer, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, reopened.Status)
	assert.Nil(t, reopened.ResolutionDate)

	// Reopening is additive: the review checklist and assignment history
	// survive untouched.
	checklist, err := f.svc.GetChecklist(ctx, id)
	require.NoError(t, err)
	assert.True(t, checklist.InvestigationVerified)
	assert.True(t, checklist.CapaVerified)
	assert.True(t, checklist.CustomerInformed)
	assert.True(t, checklist.DocumentationComplete)
	require.NotNil(t, checklist.ReviewDate)

	assignments, err = f.svc.ListAssignments(ctx, id)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, models.AssignmentCompleted, assignments[0].Status)

	// The ledger replays the exact status path in insertion order.
	entries, err := f.store.AllLedger(ctx, id)
	require.NoError(t, err)
	var path []models.ComplaintStatus
	for i, entry := range entries {
		if i > 0 {
			assert.Greater(t, entry.ID, entries[i-1].ID)
		}
		path = append(path, entry.Status)
	}
	assert.Equal(t, []models.ComplaintStatus{
		models.StatusNew,
		models.StatusInProgress,
		models.StatusResolved,
		models.StatusClosed,
		models.StatusInProgress,
	}, path)
	assert.Equal(t, models.StatusInProgress, path[len(path)-1])
}

func TestLifecycleRejectsInvalidEdges(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)

	_, err := f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "n/a"},
		models.RoleInvestigator, f.staff.ID)
	var te *models.InvalidTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusNew, te.Current)

	_, err = f.svc.Close(ctx, id, &models.CloseComplaintRequest{}, models.RoleReviewer, f.staff.ID)
	require.ErrorAs(t, err, &te)

	_, err = f.svc.Reopen(ctx, id,
		&models.ReopenComplaintRequest{Reason: "n/a"},
		models.RoleReviewer, f.staff.ID)
	require.ErrorAs(t, err, &te)

	f.beginAssessment(t, id)
	_, err = f.svc.BeginAssessment(ctx, id,
		&models.BeginAssessmentRequest{StaffID: f.staff.ID.String()},
		models.RoleInvestigator, f.staff.ID)
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusInProgress, te.Current)
}

func TestConcurrentResolveHasSingleWinner(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.svc.Resolve(ctx, id,
				&models.ResolveComplaintRequest{ResolutionNote: "done"},
				models.RoleInvestigator, f.staff.ID)
			errs <- err
		}()
	}

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)
	var te *models.InvalidTransitionError
	require.ErrorAs(t, failures[0], &te)
	assert.Equal(t, models.StatusResolved, te.Current)

	// Only the winner appended to the ledger.
	entries, err := f.store.AllLedger(ctx, id)
	require.NoError(t, err)
	resolvedEntries := 0
	for _, entry := range entries {
		if entry.Status == models.StatusResolved {
			resolvedEntries++
		}
	}
	assert.Equal(t, 1, resolvedEntries)
}

func TestResolveLinksLatestInvestigationInLedger(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	// The investigation is advisory: resolve works without one.
	resolved, err := f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "no defect found"},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resolved.Status)

	entries, err := f.store.AllLedger(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, entries[len(entries)-1].InvestigationID)

	// When a record exists, the resolving ledger entry references it.
	_, err = f.svc.Reopen(ctx, id,
		&models.ReopenComplaintRequest{Reason: "second look requested"},
		models.RoleReviewer, f.staff.ID)
	require.NoError(t, err)
	f.finalizeInvestigation(t, id)
	investigation, err := f.svc.GetInvestigation(ctx, id)
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "confirmed after review"},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)

	entries, err = f.store.AllLedger(ctx, id)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	require.NotNil(t, last.InvestigationID)
	assert.Equal(t, investigation.ID, *last.InvestigationID)
}

func TestResolveBlockedByOpenCorrectiveActions(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)
	f.finalizeInvestigation(t, id)

	capa, err := f.svc.CreateCapa(ctx, id, &models.CreateCapaRequest{
		Description: "Roll out firmware fix to affected batch",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CapaPlanned, capa.Status)

	_, err = f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "done"},
		models.RoleInvestigator, f.staff.ID)
	var pe *models.PreconditionFailedError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.BlockingIDs, 1)
	assert.Equal(t, capa.ID, pe.BlockingIDs[0])

	// Complaint state is untouched by the failed attempt.
	complaint, err := f.svc.GetComplaint(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, complaint.Status)
	assert.Nil(t, complaint.ResolutionDate)

	completed, err := f.svc.UpdateCapaStatus(ctx, capa.ID,
		&models.UpdateCapaStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletionDate)

	_, err = f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "done"},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)
}

func TestOnHoldCapaDoesNotBlockResolve(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)
	f.finalizeInvestigation(t, id)

	capa, err := f.svc.CreateCapa(ctx, id, &models.CreateCapaRequest{
		Description: "Replace supplier for the bracket component",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateCapaStatus(ctx, capa.ID,
		&models.UpdateCapaStatusRequest{Status: "ON_HOLD"})
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "done"},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)
}

func TestCloseRequiresCompleteChecklist(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)
	f.finalizeInvestigation(t, id)
	_, err := f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "done"},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)

	// No checklist at all: every item is missing.
	_, err = f.svc.Close(ctx, id, &models.CloseComplaintRequest{}, models.RoleReviewer, f.staff.ID)
	var pe *models.PreconditionFailedError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, pe.MissingItems, 4)

	_, err = f.svc.UpdateChecklistItem(ctx, id, &models.UpdateChecklistItemRequest{
		Item:  models.ChecklistItemInvestigation,
		Value: true,
	}, f.staff.ID)
	require.NoError(t, err)

	_, err = f.svc.Close(ctx, id, &models.CloseComplaintRequest{}, models.RoleReviewer, f.staff.ID)
	require.ErrorAs(t, err, &pe)
	assert.NotContains(t, pe.MissingItems, models.ChecklistItemInvestigation)
	assert.Contains(t, pe.MissingItems, models.ChecklistItemCapa)
	assert.Contains(t, pe.MissingItems, models.ChecklistItemCustomer)
	assert.Contains(t, pe.MissingItems, models.ChecklistItemDocumentation)
}

func TestSecondActiveAssignmentIsRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	_, err := f.svc.AssignStaff(ctx, id, &models.AssignStaffRequest{StaffID: f.staff.ID.String()})
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)

	// Completing the assignment frees the slot.
	_, err = f.svc.CompleteAssignment(ctx, id, nil)
	require.NoError(t, err)

	_, err = f.svc.AssignStaff(ctx, id, &models.AssignStaffRequest{StaffID: f.staff.ID.String()})
	require.NoError(t, err)

	assignments, err := f.svc.ListAssignments(ctx, id)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
}

func TestCompleteAssignmentRejectsDateBeforeAssignment(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	early := f.svc.now().Add(-24 * time.Hour).Format(time.RFC3339)
	_, err := f.svc.CompleteAssignment(ctx, id, &models.CompleteAssignmentRequest{CompletionDate: early})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "completion_date", ve.Field)

	onTime := f.svc.now().Format(time.RFC3339)
	completed, err := f.svc.CompleteAssignment(ctx, id, &models.CompleteAssignmentRequest{CompletionDate: onTime})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentCompleted, completed.Status)
}

func TestStartAssignment(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	started, err := f.svc.StartAssignment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentInProgress, started.Status)

	_, err = f.svc.StartAssignment(ctx, id)
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestOverdueCapasListing(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	due := f.svc.now().Add(-72 * time.Hour).Format(time.RFC3339)
	capa, err := f.svc.CreateCapa(ctx, id, &models.CreateCapaRequest{
		Description: "Issue field service bulletin",
		DueDate:     &due,
	})
	require.NoError(t, err)

	overdue, err := f.svc.OverdueCapas(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, capa.ID, overdue[0].ID)

	_, err = f.svc.UpdateCapaStatus(ctx, capa.ID,
		&models.UpdateCapaStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)

	overdue, err = f.svc.OverdueCapas(ctx)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestAssignStaffRejectsInactiveUser(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)

	inactive := models.User{
		Email:    "former@example.com",
		Username: "former",
		Role:     models.RoleInvestigator,
		IsActive: false,
	}
	require.NoError(t, f.users.Create(ctx, &inactive))

	_, err := f.svc.AssignStaff(ctx, id, &models.AssignStaffRequest{StaffID: inactive.ID.String()})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "staff_id", ve.Field)
}

func TestRecordConclusionRequiresInProgress(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)

	_, err := f.svc.RecordConclusion(ctx, id, &models.RecordConclusionRequest{
		Summary:    "premature conclusion",
		Conclusion: "RESOLVED",
	}, f.staff.ID)
	var te *models.InvalidTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusNew, te.Current)
}

func TestFinalizedConclusionIsImmutable(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)
	f.finalizeInvestigation(t, id)

	_, err := f.svc.RecordConclusion(ctx, id, &models.RecordConclusionRequest{
		Summary:    "attempting to rewrite history",
		Conclusion: "CLOSED",
		Finalize:   true,
	}, f.staff.ID)
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestRecordConclusionUpdatesDraft(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	draft, err := f.svc.RecordConclusion(ctx, id, &models.RecordConclusionRequest{
		Summary:    "initial findings",
		Conclusion: "IN_PROGRESS",
	}, f.staff.ID)
	require.NoError(t, err)
	assert.False(t, draft.Finalized)

	final, err := f.svc.RecordConclusion(ctx, id, &models.RecordConclusionRequest{
		Summary:    "full root cause analysis",
		Conclusion: "RESOLVED",
		Finalize:   true,
	}, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, final.ID)
	assert.True(t, final.Finalized)
	assert.Equal(t, "full root cause analysis", final.Summary)
}

func TestCreateCapaRejectedOnClosedComplaint(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)
	f.finalizeInvestigation(t, id)
	_, err := f.svc.Resolve(ctx, id,
		&models.ResolveComplaintRequest{ResolutionNote: "done"},
		models.RoleInvestigator, f.staff.ID)
	require.NoError(t, err)
	f.completeChecklist(t, id)
	_, err = f.svc.Close(ctx, id, &models.CloseComplaintRequest{}, models.RoleReviewer, f.staff.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateCapa(ctx, id, &models.CreateCapaRequest{
		Description: "too late for this one",
	})
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestStatusChangeNotificationsAreEmitted(t *testing.T) {
	f := newLifecycleFixture(t)
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)

	select {
	case change := <-f.notifier.statusChanges:
		assert.Equal(t, id, change.complaintID)
		assert.Equal(t, models.StatusNew, change.previous)
		assert.Equal(t, models.StatusInProgress, change.current)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a status change notification")
	}
}

func TestSnapshotCollectsAllCaseEntities(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	id := f.fileComplaint(t)
	f.beginAssessment(t, id)
	f.finalizeInvestigation(t, id)
	_, err := f.svc.CreateCapa(ctx, id, &models.CreateCapaRequest{
		Description: "Retrain assembly line inspectors",
	})
	require.NoError(t, err)
	f.completeChecklist(t, id)

	snapshot, err := f.svc.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, snapshot.Complaint.ID)
	assert.Len(t, snapshot.Assignments, 1)
	require.NotNil(t, snapshot.Investigation)
	assert.True(t, snapshot.Investigation.Finalized)
	assert.Len(t, snapshot.Capas, 1)
	require.NotNil(t, snapshot.Checklist)
	assert.True(t, snapshot.Checklist.DocumentationComplete)
	assert.Len(t, snapshot.Ledger, 2)
}

func TestGetComplaintNotFound(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.GetComplaint(context.Background(), uuid.New())
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.False(t, errors.Is(err, context.Canceled))
}
