package repository

import (
	"context"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository interface {
	Create(ctx context.Context, note *models.ComplaintNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ComplaintNote, error)
	ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.ComplaintNote, error)
	Update(ctx context.Context, note *models.ComplaintNote) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.ComplaintNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ComplaintNote, error) {
	var note models.ComplaintNote
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&note, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.ComplaintNote, error) {
	var notes []models.ComplaintNote
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Update(ctx context.Context, note *models.ComplaintNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ComplaintNote{}, "id = ?", id).Error
}
