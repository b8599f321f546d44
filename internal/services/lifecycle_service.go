package services

import (
	"errors"
	"fmt"
	"time"

	"context"

	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier receives lifecycle events after they commit. Implementations must
// not block; the engine calls them on a separate goroutine and ignores
// failures.
type Notifier interface {
	ComplaintStatusChanged(complaint *models.Complaint, previous, current models.ComplaintStatus, reason string)
	CapaOverdue(capa *models.CorrectiveAction)
}

type LifecycleService interface {
	// Intake and reads
	FileComplaint(ctx context.Context, req *models.FileComplaintRequest, actorRole string) (*models.ComplaintResponse, error)
	GetComplaint(ctx context.Context, id uuid.UUID) (*models.ComplaintResponse, error)
	ListComplaints(ctx context.Context, filter *models.ComplaintFilter) ([]models.ComplaintResponse, int64, error)

	// Lifecycle transitions
	BeginAssessment(ctx context.Context, id uuid.UUID, req *models.BeginAssessmentRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error)
	Resolve(ctx context.Context, id uuid.UUID, req *models.ResolveComplaintRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error)
	Close(ctx context.Context, id uuid.UUID, req *models.CloseComplaintRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error)
	Reopen(ctx context.Context, id uuid.UUID, req *models.ReopenComplaintRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error)

	// Assignments
	AssignStaff(ctx context.Context, complaintID uuid.UUID, req *models.AssignStaffRequest) (*models.AssignmentResponse, error)
	StartAssignment(ctx context.Context, complaintID uuid.UUID) (*models.AssignmentResponse, error)
	CompleteAssignment(ctx context.Context, complaintID uuid.UUID, req *models.CompleteAssignmentRequest) (*models.AssignmentResponse, error)
	ListAssignments(ctx context.Context, complaintID uuid.UUID) ([]models.AssignmentResponse, error)

	// Investigation
	RecordConclusion(ctx context.Context, complaintID uuid.UUID, req *models.RecordConclusionRequest, actorID uuid.UUID) (*models.InvestigationResponse, error)
	GetInvestigation(ctx context.Context, complaintID uuid.UUID) (*models.InvestigationResponse, error)

	// Corrective actions
	CreateCapa(ctx context.Context, complaintID uuid.UUID, req *models.CreateCapaRequest) (*models.CapaResponse, error)
	UpdateCapaStatus(ctx context.Context, capaID uuid.UUID, req *models.UpdateCapaStatusRequest) (*models.CapaResponse, error)
	ListCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CapaResponse, error)
	OverdueCapas(ctx context.Context) ([]models.CapaResponse, error)

	// Review checklist
	UpdateChecklistItem(ctx context.Context, complaintID uuid.UUID, req *models.UpdateChecklistItemRequest, reviewerID uuid.UUID) (*models.ChecklistResponse, error)
	GetChecklist(ctx context.Context, complaintID uuid.UUID) (*models.ChecklistResponse, error)

	// History and reporting projections
	GetHistory(ctx context.Context, filter *models.LedgerFilter) ([]models.LedgerEntryResponse, int64, error)
	Snapshot(ctx context.Context, id uuid.UUID) (*models.CaseSnapshot, error)
}

type lifecycleService struct {
	store       repository.CaseStore
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	validator   TransitionValidator
	notifier    Notifier
	now         func() time.Time
}

func NewLifecycleService(store repository.CaseStore, userRepo repository.UserRepository, productRepo repository.ProductRepository, validator TransitionValidator, notifier Notifier) LifecycleService {
	return &lifecycleService{
		store:       store,
		userRepo:    userRepo,
		productRepo: productRepo,
		validator:   validator,
		notifier:    notifier,
		now:         time.Now,
	}
}

// domainError reports whether err is one of the typed errors that should pass
// through a transaction boundary untouched.
func domainError(err error) bool {
	var nf *models.NotFoundError
	var ve *models.ValidationError
	var te *models.InvalidTransitionError
	var ce *models.ConflictError
	var pe *models.PreconditionFailedError
	return errors.As(err, &nf) || errors.As(err, &ve) || errors.As(err, &te) ||
		errors.As(err, &ce) || errors.As(err, &pe)
}

func wrapStorage(op string, err error) error {
	if err == nil || domainError(err) {
		return err
	}
	return &models.StorageError{Op: op, Err: err}
}

func (s *lifecycleService) notifyStatusChanged(complaint *models.Complaint, previous, current models.ComplaintStatus, reason string) {
	if s.notifier == nil {
		return
	}
	go s.notifier.ComplaintStatusChanged(complaint, previous, current, reason)
}

// Intake and reads

func (s *lifecycleService) FileComplaint(ctx context.Context, req *models.FileComplaintRequest, actorRole string) (*models.ComplaintResponse, error) {
	if actorRole == "" {
		actorRole = models.RoleIntake
	}
	filedDate, err := time.Parse(time.RFC3339, req.FiledDate)
	if err != nil {
		return nil, &models.ValidationError{Field: "filed_date", Reason: "must be RFC 3339"}
	}
	if filedDate.After(s.now()) {
		return nil, &models.ValidationError{Field: "filed_date", Reason: "cannot be in the future"}
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, &models.ValidationError{Field: "product_id", Reason: "must be a uuid"}
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "product", ID: req.ProductID}
		}
		return nil, wrapStorage("product lookup", err)
	}

	complaint := &models.Complaint{
		Description:      req.Description,
		FiledDate:        filedDate,
		Status:           models.StatusNew,
		Priority:         models.PriorityMedium,
		ProductID:        &productID,
		CustomerFeedback: req.CustomerFeedback,
	}
	if req.Priority != "" {
		complaint.Priority = models.ComplaintPriority(req.Priority)
	}
	if req.CustomerID != nil && *req.CustomerID != "" {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, &models.ValidationError{Field: "customer_id", Reason: "must be a uuid"}
		}
		complaint.CustomerID = &customerID
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, &models.ValidationError{Field: "category_id", Reason: "must be a uuid"}
		}
		complaint.CategoryID = &categoryID
	}
	if req.SubcategoryID != nil && *req.SubcategoryID != "" {
		subcategoryID, err := uuid.Parse(*req.SubcategoryID)
		if err != nil {
			return nil, &models.ValidationError{Field: "subcategory_id", Reason: "must be a uuid"}
		}
		complaint.SubcategoryID = &subcategoryID
	}

	err = s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		count, err := tx.CountComplaints(ctx)
		if err != nil {
			return err
		}
		complaint.ComplaintNumber = fmt.Sprintf("CMP-%d-%05d", filedDate.Year(), count+1)

		if err := tx.CreateComplaint(ctx, complaint); err != nil {
			return err
		}
		return tx.AppendLedger(ctx, &models.StatusLedgerEntry{
			ComplaintID: complaint.ID,
			Timestamp:   s.now(),
			Status:      models.StatusNew,
			Reason:      "complaint filed",
			ActorRole:   actorRole,
		})
	})
	if err != nil {
		return nil, wrapStorage("file complaint", err)
	}

	resp := models.ToComplaintResponse(complaint)
	return &resp, nil
}

func (s *lifecycleService) GetComplaint(ctx context.Context, id uuid.UUID) (*models.ComplaintResponse, error) {
	complaint, err := s.store.FindComplaintByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "complaint", ID: id.String()}
		}
		return nil, wrapStorage("complaint lookup", err)
	}
	resp := models.ToComplaintResponse(complaint)
	return &resp, nil
}

func (s *lifecycleService) ListComplaints(ctx context.Context, filter *models.ComplaintFilter) ([]models.ComplaintResponse, int64, error) {
	complaints, total, err := s.store.ListComplaints(ctx, *filter)
	if err != nil {
		return nil, 0, wrapStorage("complaint list", err)
	}
	responses := make([]models.ComplaintResponse, len(complaints))
	for i := range complaints {
		responses[i] = models.ToComplaintResponse(&complaints[i])
	}
	return responses, total, nil
}

// Lifecycle transitions

func (s *lifecycleService) BeginAssessment(ctx context.Context, id uuid.UUID, req *models.BeginAssessmentRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error) {
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, &models.ValidationError{Field: "staff_id", Reason: "must be a uuid"}
	}
	staff, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "staff member", ID: req.StaffID}
		}
		return nil, wrapStorage("staff lookup", err)
	}
	if !staff.IsActive {
		return nil, &models.ValidationError{Field: "staff_id", Reason: "staff member is inactive"}
	}

	var complaint *models.Complaint
	var previous models.ComplaintStatus

	err = s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		complaint, err = tx.FindComplaintForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: id.String()}
			}
			return err
		}
		previous = complaint.Status

		next, err := s.validator.Apply(ctx, complaint.Status, models.EventBeginAssessment)
		if err != nil {
			return err
		}

		if _, err := tx.FindActiveAssignment(ctx, id); err == nil {
			return &models.ConflictError{Message: "complaint already has an active assignment"}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		priority := complaint.Priority
		if req.Priority != "" {
			priority = models.ComplaintPriority(req.Priority)
		}
		assignment := &models.ComplaintAssignment{
			ComplaintID:    id,
			StaffID:        staffID,
			Priority:       priority,
			Status:         models.AssignmentOpen,
			AssignmentDate: s.now(),
		}
		if err := tx.CreateAssignment(ctx, assignment); err != nil {
			return err
		}

		complaint.Status = next
		if err := tx.SaveComplaint(ctx, complaint); err != nil {
			return err
		}
		return tx.AppendLedger(ctx, &models.StatusLedgerEntry{
			ComplaintID:   id,
			Timestamp:     s.now(),
			Status:        next,
			Reason:        "assessment started",
			ActorRole:     actorRole,
			ProcessedByID: &actorID,
		})
	})
	if err != nil {
		return nil, wrapStorage("begin assessment", err)
	}

	s.notifyStatusChanged(complaint, previous, complaint.Status, "assessment started")
	resp := models.ToComplaintResponse(complaint)
	return &resp, nil
}

func (s *lifecycleService) Resolve(ctx context.Context, id uuid.UUID, req *models.ResolveComplaintRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error) {
	var complaint *models.Complaint
	var previous models.ComplaintStatus

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		var err error
		complaint, err = tx.FindComplaintForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: id.String()}
			}
			return err
		}
		previous = complaint.Status

		next, err := s.validator.Apply(ctx, complaint.Status, models.EventResolve)
		if err != nil {
			return err
		}

		// The investigation record is advisory evidence; resolve links the
		// latest one into the ledger but does not require it.
		var investigationID *uuid.UUID
		if investigation, err := tx.LatestInvestigation(ctx, id); err == nil {
			investigationID = &investigation.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		blocking, err := tx.BlockingCapas(ctx, id)
		if err != nil {
			return err
		}
		if len(blocking) > 0 {
			ids := make([]uuid.UUID, len(blocking))
			for i, capa := range blocking {
				ids[i] = capa.ID
			}
			return &models.PreconditionFailedError{
				Message:     "corrective actions still open",
				BlockingIDs: ids,
			}
		}

		now := s.now()
		complaint.Status = next
		complaint.ResolutionDate = &now
		if err := tx.SaveComplaint(ctx, complaint); err != nil {
			return err
		}
		return tx.AppendLedger(ctx, &models.StatusLedgerEntry{
			ComplaintID:     id,
			Timestamp:       now,
			Status:          next,
			Reason:          req.ResolutionNote,
			ActorRole:       actorRole,
			InvestigationID: investigationID,
			ProcessedByID:   &actorID,
		})
	})
	if err != nil {
		return nil, wrapStorage("resolve complaint", err)
	}

	s.notifyStatusChanged(complaint, previous, complaint.Status, req.ResolutionNote)
	resp := models.ToComplaintResponse(complaint)
	return &resp, nil
}

func (s *lifecycleService) Close(ctx context.Context, id uuid.UUID, req *models.CloseComplaintRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error) {
	var complaint *models.Complaint
	var previous models.ComplaintStatus

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		var err error
		complaint, err = tx.FindComplaintForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: id.String()}
			}
			return err
		}
		previous = complaint.Status

		next, err := s.validator.Apply(ctx, complaint.Status, models.EventClose)
		if err != nil {
			return err
		}

		checklist, err := tx.GetChecklist(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.PreconditionFailedError{
					Message: "review checklist incomplete",
					MissingItems: []string{
						models.ChecklistItemInvestigation,
						models.ChecklistItemCapa,
						models.ChecklistItemCustomer,
						models.ChecklistItemDocumentation,
					},
				}
			}
			return err
		}
		if !checklist.Complete() {
			return &models.PreconditionFailedError{
				Message:      "review checklist incomplete",
				MissingItems: checklist.MissingItems(),
			}
		}

		now := s.now()
		checklist.ReviewerID = &actorID
		checklist.ReviewerNotes = req.ReviewerNotes
		checklist.ReviewDate = &now
		if err := tx.SaveChecklist(ctx, checklist); err != nil {
			return err
		}

		// Close out the active assignment, if any.
		if assignment, err := tx.FindActiveAssignment(ctx, id); err == nil {
			assignment.Status = models.AssignmentCompleted
			assignment.CompletionDate = &now
			if err := tx.SaveAssignment(ctx, assignment); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		complaint.Status = next
		if err := tx.SaveComplaint(ctx, complaint); err != nil {
			return err
		}
		return tx.AppendLedger(ctx, &models.StatusLedgerEntry{
			ComplaintID:   id,
			Timestamp:     now,
			Status:        next,
			Reason:        "case closed after review",
			ActorRole:     actorRole,
			ProcessedByID: &actorID,
		})
	})
	if err != nil {
		return nil, wrapStorage("close complaint", err)
	}

	s.notifyStatusChanged(complaint, previous, complaint.Status, "case closed after review")
	resp := models.ToComplaintResponse(complaint)
	return &resp, nil
}

func (s *lifecycleService) Reopen(ctx context.Context, id uuid.UUID, req *models.ReopenComplaintRequest, actorRole string, actorID uuid.UUID) (*models.ComplaintResponse, error) {
	var complaint *models.Complaint
	var previous models.ComplaintStatus

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		var err error
		complaint, err = tx.FindComplaintForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: id.String()}
			}
			return err
		}
		previous = complaint.Status

		next, err := s.validator.Apply(ctx, complaint.Status, models.EventReopen)
		if err != nil {
			return err
		}

		// Assignment, investigation, CAPA, and review rows are left exactly as
		// they were; reopening only moves the status and appends to the ledger.
		complaint.Status = next
		complaint.ResolutionDate = nil
		if err := tx.SaveComplaint(ctx, complaint); err != nil {
			return err
		}

		return tx.AppendLedger(ctx, &models.StatusLedgerEntry{
			ComplaintID:   id,
			Timestamp:     s.now(),
			Status:        next,
			Reason:        req.Reason,
			ActorRole:     actorRole,
			ProcessedByID: &actorID,
		})
	})
	if err != nil {
		return nil, wrapStorage("reopen complaint", err)
	}

	s.notifyStatusChanged(complaint, previous, complaint.Status, req.Reason)
	resp := models.ToComplaintResponse(complaint)
	return &resp, nil
}

// Assignments

func (s *lifecycleService) AssignStaff(ctx context.Context, complaintID uuid.UUID, req *models.AssignStaffRequest) (*models.AssignmentResponse, error) {
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, &models.ValidationError{Field: "staff_id", Reason: "must be a uuid"}
	}
	staff, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "staff member", ID: req.StaffID}
		}
		return nil, wrapStorage("staff lookup", err)
	}
	if !staff.IsActive {
		return nil, &models.ValidationError{Field: "staff_id", Reason: "staff member is inactive"}
	}

	var assignment *models.ComplaintAssignment

	err = s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		complaint, err := tx.FindComplaintForUpdate(ctx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: complaintID.String()}
			}
			return err
		}

		if _, err := tx.FindActiveAssignment(ctx, complaintID); err == nil {
			return &models.ConflictError{Message: "complaint already has an active assignment"}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		priority := complaint.Priority
		if req.Priority != "" {
			priority = models.ComplaintPriority(req.Priority)
		}
		assignment = &models.ComplaintAssignment{
			ComplaintID:    complaintID,
			StaffID:        staffID,
			Priority:       priority,
			Status:         models.AssignmentOpen,
			AssignmentDate: s.now(),
		}
		return tx.CreateAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, wrapStorage("assign staff", err)
	}

	resp := models.ToAssignmentResponse(assignment)
	return &resp, nil
}

func (s *lifecycleService) StartAssignment(ctx context.Context, complaintID uuid.UUID) (*models.AssignmentResponse, error) {
	var assignment *models.ComplaintAssignment

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		var err error
		assignment, err = tx.FindActiveAssignment(ctx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "active assignment for complaint", ID: complaintID.String()}
			}
			return err
		}
		if assignment.Status != models.AssignmentOpen {
			return &models.ConflictError{Message: "assignment is already in progress"}
		}
		assignment.Status = models.AssignmentInProgress
		return tx.SaveAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, wrapStorage("start assignment", err)
	}

	resp := models.ToAssignmentResponse(assignment)
	return &resp, nil
}

func (s *lifecycleService) CompleteAssignment(ctx context.Context, complaintID uuid.UUID, req *models.CompleteAssignmentRequest) (*models.AssignmentResponse, error) {
	completion := s.now()
	if req != nil && req.CompletionDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.CompletionDate)
		if err != nil {
			return nil, &models.ValidationError{Field: "completion_date", Reason: "must be RFC 3339"}
		}
		completion = parsed
	}

	var assignment *models.ComplaintAssignment

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		var err error
		assignment, err = tx.FindActiveAssignment(ctx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "active assignment for complaint", ID: complaintID.String()}
			}
			return err
		}
		if completion.Before(assignment.AssignmentDate) {
			return &models.ValidationError{Field: "completion_date", Reason: "cannot predate the assignment date"}
		}
		assignment.Status = models.AssignmentCompleted
		assignment.CompletionDate = &completion
		return tx.SaveAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, wrapStorage("complete assignment", err)
	}

	resp := models.ToAssignmentResponse(assignment)
	return &resp, nil
}

func (s *lifecycleService) ListAssignments(ctx context.Context, complaintID uuid.UUID) ([]models.AssignmentResponse, error) {
	assignments, err := s.store.ListAssignments(ctx, complaintID)
	if err != nil {
		return nil, wrapStorage("assignment list", err)
	}
	responses := make([]models.AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = models.ToAssignmentResponse(&assignments[i])
	}
	return responses, nil
}

// Investigation

func (s *lifecycleService) RecordConclusion(ctx context.Context, complaintID uuid.UUID, req *models.RecordConclusionRequest, actorID uuid.UUID) (*models.InvestigationResponse, error) {
	conclusion := models.ComplaintStatus(req.Conclusion)
	if !conclusion.Valid() {
		return nil, &models.ValidationError{Field: "conclusion", Reason: "unknown status"}
	}

	var record *models.InvestigationRecord

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		complaint, err := tx.FindComplaintForUpdate(ctx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: complaintID.String()}
			}
			return err
		}
		if complaint.Status != models.StatusInProgress {
			return &models.InvalidTransitionError{Event: "record_conclusion", Current: complaint.Status}
		}

		existing, err := tx.LatestInvestigation(ctx, complaintID)
		switch {
		case err == nil && existing.Finalized:
			return &models.ConflictError{Message: "investigation conclusion is already finalized"}
		case err == nil:
			existing.Summary = req.Summary
			existing.Notes = req.Notes
			existing.Conclusion = conclusion
			existing.ConclusionRemarks = req.ConclusionRemarks
			existing.DurationDays = req.DurationDays
			existing.ResolvedByID = &actorID
			existing.Finalized = req.Finalize
			record = existing
			return tx.SaveInvestigation(ctx, existing)
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = &models.InvestigationRecord{
				ComplaintID:       complaintID,
				Summary:           req.Summary,
				Notes:             req.Notes,
				Conclusion:        conclusion,
				ConclusionRemarks: req.ConclusionRemarks,
				InvestigationDate: s.now(),
				DurationDays:      req.DurationDays,
				ResolvedByID:      &actorID,
				Finalized:         req.Finalize,
			}
			return tx.CreateInvestigation(ctx, record)
		default:
			return err
		}
	})
	if err != nil {
		return nil, wrapStorage("record conclusion", err)
	}

	resp := models.ToInvestigationResponse(record)
	return &resp, nil
}

func (s *lifecycleService) GetInvestigation(ctx context.Context, complaintID uuid.UUID) (*models.InvestigationResponse, error) {
	record, err := s.store.LatestInvestigation(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "investigation for complaint", ID: complaintID.String()}
		}
		return nil, wrapStorage("investigation lookup", err)
	}
	resp := models.ToInvestigationResponse(record)
	return &resp, nil
}

// Corrective actions

func (s *lifecycleService) CreateCapa(ctx context.Context, complaintID uuid.UUID, req *models.CreateCapaRequest) (*models.CapaResponse, error) {
	capa := &models.CorrectiveAction{
		ComplaintID: complaintID,
		Description: req.Description,
		Status:      models.CapaPlanned,
	}

	if req.AssignedToID != nil && *req.AssignedToID != "" {
		assigneeID, err := uuid.Parse(*req.AssignedToID)
		if err != nil {
			return nil, &models.ValidationError{Field: "assigned_to_id", Reason: "must be a uuid"}
		}
		if _, err := s.userRepo.FindByID(ctx, assigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &models.NotFoundError{Entity: "staff member", ID: *req.AssignedToID}
			}
			return nil, wrapStorage("staff lookup", err)
		}
		capa.AssignedToID = &assigneeID
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return nil, &models.ValidationError{Field: "due_date", Reason: "must be RFC 3339"}
		}
		capa.DueDate = &dueDate
	}

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		complaint, err := tx.FindComplaintForUpdate(ctx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: complaintID.String()}
			}
			return err
		}
		if complaint.Status == models.StatusClosed {
			return &models.ConflictError{Message: "cannot add corrective actions to a closed complaint"}
		}
		return tx.CreateCapa(ctx, capa)
	})
	if err != nil {
		return nil, wrapStorage("create corrective action", err)
	}

	resp := models.ToCapaResponse(capa)
	return &resp, nil
}

func (s *lifecycleService) UpdateCapaStatus(ctx context.Context, capaID uuid.UUID, req *models.UpdateCapaStatusRequest) (*models.CapaResponse, error) {
	status := models.CapaStatus(req.Status)
	if !status.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: "unknown status"}
	}

	var capa *models.CorrectiveAction

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		var err error
		capa, err = tx.FindCapaByID(ctx, capaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "corrective action", ID: capaID.String()}
			}
			return err
		}

		capa.Status = status
		if status == models.CapaCompleted {
			completion := s.now()
			if req.CompletionDate != nil && *req.CompletionDate != "" {
				parsed, err := time.Parse(time.RFC3339, *req.CompletionDate)
				if err != nil {
					return &models.ValidationError{Field: "completion_date", Reason: "must be RFC 3339"}
				}
				completion = parsed
			}
			capa.CompletionDate = &completion
		} else {
			capa.CompletionDate = nil
		}
		return tx.SaveCapa(ctx, capa)
	})
	if err != nil {
		return nil, wrapStorage("update corrective action", err)
	}

	resp := models.ToCapaResponse(capa)
	return &resp, nil
}

func (s *lifecycleService) ListCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CapaResponse, error) {
	capas, err := s.store.ListCapas(ctx, complaintID)
	if err != nil {
		return nil, wrapStorage("corrective action list", err)
	}
	responses := make([]models.CapaResponse, len(capas))
	for i := range capas {
		responses[i] = models.ToCapaResponse(&capas[i])
	}
	return responses, nil
}

// OverdueCapas lists every corrective action past its due date that still
// blocks resolution, across all complaints.
func (s *lifecycleService) OverdueCapas(ctx context.Context) ([]models.CapaResponse, error) {
	capas, err := s.store.OverdueCapas(ctx, s.now())
	if err != nil {
		return nil, wrapStorage("overdue corrective action list", err)
	}
	responses := make([]models.CapaResponse, len(capas))
	for i := range capas {
		responses[i] = models.ToCapaResponse(&capas[i])
	}
	return responses, nil
}

// Review checklist

func (s *lifecycleService) UpdateChecklistItem(ctx context.Context, complaintID uuid.UUID, req *models.UpdateChecklistItemRequest, reviewerID uuid.UUID) (*models.ChecklistResponse, error) {
	var checklist *models.ReviewChecklist

	err := s.store.Atomic(ctx, func(tx repository.CaseStore) error {
		complaint, err := tx.FindComplaintForUpdate(ctx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Entity: "complaint", ID: complaintID.String()}
			}
			return err
		}
		if complaint.Status == models.StatusClosed {
			return &models.ConflictError{Message: "complaint is already closed"}
		}

		checklist, err = tx.GetChecklist(ctx, complaintID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			checklist = &models.ReviewChecklist{ComplaintID: complaintID}
		} else if err != nil {
			return err
		}

		if err := checklist.SetItem(req.Item, req.Value); err != nil {
			return err
		}
		checklist.ReviewerID = &reviewerID
		if req.Notes != "" {
			checklist.ReviewerNotes = req.Notes
		}
		return tx.SaveChecklist(ctx, checklist)
	})
	if err != nil {
		return nil, wrapStorage("update checklist", err)
	}

	resp := models.ToChecklistResponse(checklist)
	return &resp, nil
}

func (s *lifecycleService) GetChecklist(ctx context.Context, complaintID uuid.UUID) (*models.ChecklistResponse, error) {
	checklist, err := s.store.GetChecklist(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "checklist for complaint", ID: complaintID.String()}
		}
		return nil, wrapStorage("checklist lookup", err)
	}
	resp := models.ToChecklistResponse(checklist)
	return &resp, nil
}

// History and reporting projections

func (s *lifecycleService) GetHistory(ctx context.Context, filter *models.LedgerFilter) ([]models.LedgerEntryResponse, int64, error) {
	entries, total, err := s.store.ListLedger(ctx, *filter)
	if err != nil {
		return nil, 0, wrapStorage("ledger list", err)
	}
	responses := make([]models.LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = models.ToLedgerEntryResponse(&entries[i])
	}
	return responses, total, nil
}

func (s *lifecycleService) Snapshot(ctx context.Context, id uuid.UUID) (*models.CaseSnapshot, error) {
	complaint, err := s.store.FindComplaintByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "complaint", ID: id.String()}
		}
		return nil, wrapStorage("complaint lookup", err)
	}

	snapshot := &models.CaseSnapshot{
		Complaint: models.ToComplaintResponse(complaint),
	}

	assignments, err := s.store.ListAssignments(ctx, id)
	if err != nil {
		return nil, wrapStorage("assignment list", err)
	}
	for i := range assignments {
		snapshot.Assignments = append(snapshot.Assignments, models.ToAssignmentResponse(&assignments[i]))
	}

	if investigation, err := s.store.LatestInvestigation(ctx, id); err == nil {
		invResp := models.ToInvestigationResponse(investigation)
		snapshot.Investigation = &invResp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStorage("investigation lookup", err)
	}

	capas, err := s.store.ListCapas(ctx, id)
	if err != nil {
		return nil, wrapStorage("corrective action list", err)
	}
	for i := range capas {
		snapshot.Capas = append(snapshot.Capas, models.ToCapaResponse(&capas[i]))
	}

	if checklist, err := s.store.GetChecklist(ctx, id); err == nil {
		checkResp := models.ToChecklistResponse(checklist)
		snapshot.Checklist = &checkResp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStorage("checklist lookup", err)
	}

	entries, err := s.store.AllLedger(ctx, id)
	if err != nil {
		return nil, wrapStorage("ledger list", err)
	}
	for i := range entries {
		snapshot.Ledger = append(snapshot.Ledger, models.ToLedgerEntryResponse(&entries[i]))
	}

	return snapshot, nil
}
