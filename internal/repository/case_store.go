package repository

import (
	"context"
	"time"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CaseStore is the persistence surface of the complaint lifecycle. All writes
// that change case state go through it; Atomic runs the given function inside
// one transaction against a store view bound to that transaction, so a
// lifecycle operation can re-read the complaint under lock, check its gates,
// and commit the status flip plus ledger append as one unit.
type CaseStore interface {
	Atomic(ctx context.Context, fn func(CaseStore) error) error

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	FindComplaintByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	// FindComplaintForUpdate loads the complaint row with a write lock. Only
	// meaningful inside Atomic.
	FindComplaintForUpdate(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	SaveComplaint(ctx context.Context, complaint *models.Complaint) error
	ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int64, error)
	CountComplaints(ctx context.Context) (int64, error)

	AppendLedger(ctx context.Context, entry *models.StatusLedgerEntry) error
	ListLedger(ctx context.Context, filter models.LedgerFilter) ([]models.StatusLedgerEntry, int64, error)
	AllLedger(ctx context.Context, complaintID uuid.UUID) ([]models.StatusLedgerEntry, error)

	CreateAssignment(ctx context.Context, assignment *models.ComplaintAssignment) error
	SaveAssignment(ctx context.Context, assignment *models.ComplaintAssignment) error
	FindActiveAssignment(ctx context.Context, complaintID uuid.UUID) (*models.ComplaintAssignment, error)
	ListAssignments(ctx context.Context, complaintID uuid.UUID) ([]models.ComplaintAssignment, error)

	CreateInvestigation(ctx context.Context, record *models.InvestigationRecord) error
	SaveInvestigation(ctx context.Context, record *models.InvestigationRecord) error
	LatestInvestigation(ctx context.Context, complaintID uuid.UUID) (*models.InvestigationRecord, error)

	CreateCapa(ctx context.Context, capa *models.CorrectiveAction) error
	SaveCapa(ctx context.Context, capa *models.CorrectiveAction) error
	FindCapaByID(ctx context.Context, id uuid.UUID) (*models.CorrectiveAction, error)
	ListCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CorrectiveAction, error)
	BlockingCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CorrectiveAction, error)
	OverdueCapas(ctx context.Context, asOf time.Time) ([]models.CorrectiveAction, error)
	// UnnotifiedOverdueCapas narrows OverdueCapas to items whose overdue
	// notification has not been sent yet.
	UnnotifiedOverdueCapas(ctx context.Context, asOf time.Time) ([]models.CorrectiveAction, error)
	// UpdateCapaNotified stamps overdue_notified_at without touching any other
	// column, so a scan working from a stale copy cannot clobber a concurrent
	// status change.
	UpdateCapaNotified(ctx context.Context, id uuid.UUID, at time.Time) error

	GetChecklist(ctx context.Context, complaintID uuid.UUID) (*models.ReviewChecklist, error)
	SaveChecklist(ctx context.Context, checklist *models.ReviewChecklist) error
}

type caseStore struct {
	db *gorm.DB
}

func NewCaseStore(db *gorm.DB) CaseStore {
	return &caseStore{db: db}
}

func (s *caseStore) Atomic(ctx context.Context, fn func(CaseStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&caseStore{db: tx})
	})
}

func (s *caseStore) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	return s.db.WithContext(ctx).Create(complaint).Error
}

func (s *caseStore) FindComplaintByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.db.WithContext(ctx).
		Preload("Product").
		Preload("Customer").
		Preload("Category").
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (s *caseStore) FindComplaintForUpdate(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (s *caseStore) SaveComplaint(ctx context.Context, complaint *models.Complaint) error {
	return s.db.WithContext(ctx).Save(complaint).Error
}

func (s *caseStore) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int64, error) {
	var complaints []models.Complaint
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Complaint{})

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("complaint_number ILIKE ? OR description ILIKE ?", search, search)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		query = query.Where("filed_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("filed_date <= ?", *filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	err := query.
		Preload("Product").
		Preload("Customer").
		Preload("Category").
		Order("filed_date DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

func (s *caseStore) CountComplaints(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Complaint{}).Unscoped().Count(&count).Error
	return count, err
}

func (s *caseStore) AppendLedger(ctx context.Context, entry *models.StatusLedgerEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *caseStore) ListLedger(ctx context.Context, filter models.LedgerFilter) ([]models.StatusLedgerEntry, int64, error) {
	var entries []models.StatusLedgerEntry
	var total int64

	query := s.db.WithContext(ctx).Model(&models.StatusLedgerEntry{}).
		Where("complaint_id = ?", filter.ComplaintID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	err := query.Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (s *caseStore) AllLedger(ctx context.Context, complaintID uuid.UUID) ([]models.StatusLedgerEntry, error) {
	var entries []models.StatusLedgerEntry
	err := s.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (s *caseStore) CreateAssignment(ctx context.Context, assignment *models.ComplaintAssignment) error {
	return s.db.WithContext(ctx).Create(assignment).Error
}

func (s *caseStore) SaveAssignment(ctx context.Context, assignment *models.ComplaintAssignment) error {
	return s.db.WithContext(ctx).Save(assignment).Error
}

func (s *caseStore) FindActiveAssignment(ctx context.Context, complaintID uuid.UUID) (*models.ComplaintAssignment, error) {
	var assignment models.ComplaintAssignment
	err := s.db.WithContext(ctx).
		Preload("Staff").
		Where("complaint_id = ? AND status <> ?", complaintID, models.AssignmentCompleted).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *caseStore) ListAssignments(ctx context.Context, complaintID uuid.UUID) ([]models.ComplaintAssignment, error) {
	var assignments []models.ComplaintAssignment
	err := s.db.WithContext(ctx).
		Preload("Staff").
		Where("complaint_id = ?", complaintID).
		Order("assignment_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (s *caseStore) CreateInvestigation(ctx context.Context, record *models.InvestigationRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *caseStore) SaveInvestigation(ctx context.Context, record *models.InvestigationRecord) error {
	return s.db.WithContext(ctx).Save(record).Error
}

func (s *caseStore) LatestInvestigation(ctx context.Context, complaintID uuid.UUID) (*models.InvestigationRecord, error) {
	var record models.InvestigationRecord
	err := s.db.WithContext(ctx).
		Preload("ResolvedBy").
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *caseStore) CreateCapa(ctx context.Context, capa *models.CorrectiveAction) error {
	return s.db.WithContext(ctx).Create(capa).Error
}

func (s *caseStore) SaveCapa(ctx context.Context, capa *models.CorrectiveAction) error {
	return s.db.WithContext(ctx).Save(capa).Error
}

func (s *caseStore) FindCapaByID(ctx context.Context, id uuid.UUID) (*models.CorrectiveAction, error) {
	var capa models.CorrectiveAction
	err := s.db.WithContext(ctx).
		Preload("AssignedTo").
		First(&capa, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &capa, nil
}

func (s *caseStore) ListCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CorrectiveAction, error) {
	var capas []models.CorrectiveAction
	err := s.db.WithContext(ctx).
		Preload("AssignedTo").
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&capas).Error
	return capas, err
}

func (s *caseStore) BlockingCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CorrectiveAction, error) {
	var capas []models.CorrectiveAction
	err := s.db.WithContext(ctx).
		Where("complaint_id = ? AND status IN ?", complaintID,
			[]models.CapaStatus{models.CapaPlanned, models.CapaInProgress}).
		Order("created_at ASC").
		Find(&capas).Error
	return capas, err
}

func (s *caseStore) OverdueCapas(ctx context.Context, asOf time.Time) ([]models.CorrectiveAction, error) {
	var capas []models.CorrectiveAction
	err := s.db.WithContext(ctx).
		Preload("AssignedTo").
		Where("due_date IS NOT NULL AND due_date < ? AND status IN ?",
			asOf, []models.CapaStatus{models.CapaPlanned, models.CapaInProgress}).
		Order("due_date ASC").
		Find(&capas).Error
	return capas, err
}

func (s *caseStore) UnnotifiedOverdueCapas(ctx context.Context, asOf time.Time) ([]models.CorrectiveAction, error) {
	var capas []models.CorrectiveAction
	err := s.db.WithContext(ctx).
		Preload("AssignedTo").
		Where("due_date IS NOT NULL AND due_date < ? AND status IN ? AND overdue_notified_at IS NULL",
			asOf, []models.CapaStatus{models.CapaPlanned, models.CapaInProgress}).
		Find(&capas).Error
	return capas, err
}

func (s *caseStore) UpdateCapaNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.CorrectiveAction{}).
		Where("id = ?", id).
		Update("overdue_notified_at", at).Error
}

func (s *caseStore) GetChecklist(ctx context.Context, complaintID uuid.UUID) (*models.ReviewChecklist, error) {
	var checklist models.ReviewChecklist
	err := s.db.WithContext(ctx).
		Preload("Reviewer").
		First(&checklist, "complaint_id = ?", complaintID).Error
	if err != nil {
		return nil, err
	}
	return &checklist, nil
}

func (s *caseStore) SaveChecklist(ctx context.Context, checklist *models.ReviewChecklist) error {
	return s.db.WithContext(ctx).Save(checklist).Error
}
