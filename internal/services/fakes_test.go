package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memCaseStore is an in-memory CaseStore. It copies records in and out so
// callers cannot mutate stored state except through Save* methods, matching
// how rows behave when scanned out of the database.
type memCaseStore struct {
	// txMu serializes Atomic blocks the way the row lock serializes
	// transactions, so concurrent lifecycle calls see committed state.
	txMu           sync.Mutex
	mu             sync.Mutex
	complaints     map[uuid.UUID]models.Complaint
	ledger         []models.StatusLedgerEntry
	nextLedgerID   int64
	assignments    map[uuid.UUID]models.ComplaintAssignment
	investigations map[uuid.UUID][]models.InvestigationRecord
	capas          map[uuid.UUID]models.CorrectiveAction
	checklists     map[uuid.UUID]models.ReviewChecklist
}

func newMemCaseStore() *memCaseStore {
	return &memCaseStore{
		complaints:     make(map[uuid.UUID]models.Complaint),
		assignments:    make(map[uuid.UUID]models.ComplaintAssignment),
		investigations: make(map[uuid.UUID][]models.InvestigationRecord),
		capas:          make(map[uuid.UUID]models.CorrectiveAction),
		checklists:     make(map[uuid.UUID]models.ReviewChecklist),
	}
}

func (s *memCaseStore) Atomic(ctx context.Context, fn func(repository.CaseStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

func (s *memCaseStore) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	s.complaints[complaint.ID] = *complaint
	return nil
}

func (s *memCaseStore) FindComplaintByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	complaint, ok := s.complaints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &complaint, nil
}

func (s *memCaseStore) FindComplaintForUpdate(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	return s.FindComplaintByID(ctx, id)
}

func (s *memCaseStore) SaveComplaint(ctx context.Context, complaint *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complaints[complaint.ID] = *complaint
	return nil
}

func (s *memCaseStore) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Complaint
	for _, complaint := range s.complaints {
		if filter.Status != nil && complaint.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && complaint.Priority != *filter.Priority {
			continue
		}
		out = append(out, complaint)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiledDate.After(out[j].FiledDate) })
	return out, int64(len(out)), nil
}

func (s *memCaseStore) CountComplaints(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.complaints)), nil
}

func (s *memCaseStore) AppendLedger(ctx context.Context, entry *models.StatusLedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLedgerID++
	entry.ID = s.nextLedgerID
	s.ledger = append(s.ledger, *entry)
	return nil
}

func (s *memCaseStore) ListLedger(ctx context.Context, filter models.LedgerFilter) ([]models.StatusLedgerEntry, int64, error) {
	entries, err := s.AllLedger(ctx, filter.ComplaintID)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(entries))
	if filter.Page > 0 && filter.Limit > 0 {
		start := (filter.Page - 1) * filter.Limit
		if start > len(entries) {
			start = len(entries)
		}
		end := start + filter.Limit
		if end > len(entries) {
			end = len(entries)
		}
		entries = entries[start:end]
	}
	return entries, total, nil
}

func (s *memCaseStore) AllLedger(ctx context.Context, complaintID uuid.UUID) ([]models.StatusLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StatusLedgerEntry
	for _, entry := range s.ledger {
		if entry.ComplaintID == complaintID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *memCaseStore) CreateAssignment(ctx context.Context, assignment *models.ComplaintAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *memCaseStore) SaveAssignment(ctx context.Context, assignment *models.ComplaintAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *memCaseStore) FindActiveAssignment(ctx context.Context, complaintID uuid.UUID) (*models.ComplaintAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, assignment := range s.assignments {
		if assignment.ComplaintID == complaintID && assignment.Status != models.AssignmentCompleted {
			return &assignment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memCaseStore) ListAssignments(ctx context.Context, complaintID uuid.UUID) ([]models.ComplaintAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ComplaintAssignment
	for _, assignment := range s.assignments {
		if assignment.ComplaintID == complaintID {
			out = append(out, assignment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignmentDate.Before(out[j].AssignmentDate) })
	return out, nil
}

func (s *memCaseStore) CreateInvestigation(ctx context.Context, record *models.InvestigationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.investigations[record.ComplaintID] = append(s.investigations[record.ComplaintID], *record)
	return nil
}

func (s *memCaseStore) SaveInvestigation(ctx context.Context, record *models.InvestigationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.investigations[record.ComplaintID]
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = *record
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *memCaseStore) LatestInvestigation(ctx context.Context, complaintID uuid.UUID) (*models.InvestigationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.investigations[complaintID]
	if len(records) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	latest := records[len(records)-1]
	return &latest, nil
}

func (s *memCaseStore) CreateCapa(ctx context.Context, capa *models.CorrectiveAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if capa.ID == uuid.Nil {
		capa.ID = uuid.New()
	}
	capa.CreatedAt = time.Now()
	s.capas[capa.ID] = *capa
	return nil
}

func (s *memCaseStore) SaveCapa(ctx context.Context, capa *models.CorrectiveAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capas[capa.ID] = *capa
	return nil
}

func (s *memCaseStore) FindCapaByID(ctx context.Context, id uuid.UUID) (*models.CorrectiveAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	capa, ok := s.capas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &capa, nil
}

func (s *memCaseStore) ListCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CorrectiveAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CorrectiveAction
	for _, capa := range s.capas {
		if capa.ComplaintID == complaintID {
			out = append(out, capa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memCaseStore) BlockingCapas(ctx context.Context, complaintID uuid.UUID) ([]models.CorrectiveAction, error) {
	all, err := s.ListCapas(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	var out []models.CorrectiveAction
	for _, capa := range all {
		if capa.Status.Blocking() {
			out = append(out, capa)
		}
	}
	return out, nil
}

func (s *memCaseStore) OverdueCapas(ctx context.Context, asOf time.Time) ([]models.CorrectiveAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CorrectiveAction
	for _, capa := range s.capas {
		if capa.DueDate != nil && capa.DueDate.Before(asOf) && capa.Status.Blocking() {
			out = append(out, capa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return out, nil
}

func (s *memCaseStore) UnnotifiedOverdueCapas(ctx context.Context, asOf time.Time) ([]models.CorrectiveAction, error) {
	all, err := s.OverdueCapas(ctx, asOf)
	if err != nil {
		return nil, err
	}
	var out []models.CorrectiveAction
	for _, capa := range all {
		if capa.OverdueNotifiedAt == nil {
			out = append(out, capa)
		}
	}
	return out, nil
}

func (s *memCaseStore) UpdateCapaNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	capa, ok := s.capas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	capa.OverdueNotifiedAt = &at
	s.capas[id] = capa
	return nil
}

func (s *memCaseStore) GetChecklist(ctx context.Context, complaintID uuid.UUID) (*models.ReviewChecklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	checklist, ok := s.checklists[complaintID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &checklist, nil
}

func (s *memCaseStore) SaveChecklist(ctx context.Context, checklist *models.ReviewChecklist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if checklist.ID == uuid.Nil {
		checklist.ID = uuid.New()
	}
	s.checklists[checklist.ComplaintID] = *checklist
	return nil
}

// memUserRepo holds users by id for staff lookups.
type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(ctx context.Context, role string, page, limit int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, user := range r.users {
		if role != "" && user.Role != role {
			continue
		}
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	r.users[id] = user
	return nil
}

// memProductRepo holds products by id for intake lookups.
type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]models.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]models.Product)}
}

func (r *memProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &product, nil
}

func (r *memProductRepo) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.Code == code {
			return &product, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) List(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, product := range r.products {
		out = append(out, product)
	}
	return out, nil
}

type statusChange struct {
	complaintID uuid.UUID
	previous    models.ComplaintStatus
	current     models.ComplaintStatus
	reason      string
}

// notifierRecorder captures notifications on buffered channels so tests can
// wait for the goroutine that delivers them.
type notifierRecorder struct {
	statusChanges chan statusChange
	overdueCapas  chan uuid.UUID
}

func newNotifierRecorder() *notifierRecorder {
	return &notifierRecorder{
		statusChanges: make(chan statusChange, 16),
		overdueCapas:  make(chan uuid.UUID, 16),
	}
}

func (n *notifierRecorder) ComplaintStatusChanged(complaint *models.Complaint, previous, current models.ComplaintStatus, reason string) {
	n.statusChanges <- statusChange{
		complaintID: complaint.ID,
		previous:    previous,
		current:     current,
		reason:      reason,
	}
}

func (n *notifierRecorder) CapaOverdue(capa *models.CorrectiveAction) {
	n.overdueCapas <- capa.ID
}
