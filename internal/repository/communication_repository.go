package repository

import (
	"context"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommunicationRepository interface {
	CreateTemplate(ctx context.Context, template *models.CommunicationTemplate) error
	FindTemplateByID(ctx context.Context, id uuid.UUID) (*models.CommunicationTemplate, error)
	FindTemplateByCode(ctx context.Context, code string) (*models.CommunicationTemplate, error)
	UpdateTemplate(ctx context.Context, template *models.CommunicationTemplate) error
	ListTemplates(ctx context.Context) ([]models.CommunicationTemplate, error)

	CreateLog(ctx context.Context, log *models.CommunicationLog) error
	UpdateLog(ctx context.Context, log *models.CommunicationLog) error
	ListLogsByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.CommunicationLog, error)
}

type communicationRepository struct {
	db *gorm.DB
}

func NewCommunicationRepository(db *gorm.DB) CommunicationRepository {
	return &communicationRepository{db: db}
}

func (r *communicationRepository) CreateTemplate(ctx context.Context, template *models.CommunicationTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *communicationRepository) FindTemplateByID(ctx context.Context, id uuid.UUID) (*models.CommunicationTemplate, error) {
	var template models.CommunicationTemplate
	err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *communicationRepository) FindTemplateByCode(ctx context.Context, code string) (*models.CommunicationTemplate, error) {
	var template models.CommunicationTemplate
	err := r.db.WithContext(ctx).First(&template, "code = ? AND is_active = ?", code, true).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *communicationRepository) UpdateTemplate(ctx context.Context, template *models.CommunicationTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *communicationRepository) ListTemplates(ctx context.Context) ([]models.CommunicationTemplate, error) {
	var templates []models.CommunicationTemplate
	err := r.db.WithContext(ctx).Order("code ASC").Find(&templates).Error
	return templates, err
}

func (r *communicationRepository) CreateLog(ctx context.Context, log *models.CommunicationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *communicationRepository) UpdateLog(ctx context.Context, log *models.CommunicationLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *communicationRepository) ListLogsByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.CommunicationLog, error) {
	var logs []models.CommunicationLog
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
