package repository

import (
	"context"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LogAccess(ctx context.Context, log *models.DocumentAccessLog) error
	ListAccessLogs(ctx context.Context, documentID uuid.UUID) ([]models.DocumentAccessLog, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).
		Preload("UploadedBy").
		First(&document, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Preload("UploadedBy").
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&documents).Error
	return documents, err
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error
}

func (r *documentRepository) LogAccess(ctx context.Context, log *models.DocumentAccessLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *documentRepository) ListAccessLogs(ctx context.Context, documentID uuid.UUID) ([]models.DocumentAccessLog, error) {
	var logs []models.DocumentAccessLog
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("accessed_at DESC").
		Find(&logs).Error
	return logs, err
}
