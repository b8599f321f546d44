package repository

import (
	"context"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegulatoryRepository interface {
	CreateBody(ctx context.Context, body *models.RegulatoryBody) error
	FindBodyByID(ctx context.Context, id uuid.UUID) (*models.RegulatoryBody, error)
	UpdateBody(ctx context.Context, body *models.RegulatoryBody) error
	DeleteBody(ctx context.Context, id uuid.UUID) error
	ListBodies(ctx context.Context) ([]models.RegulatoryBody, error)

	CreateReport(ctx context.Context, report *models.RegulatoryReport) error
	FindReportByID(ctx context.Context, id uuid.UUID) (*models.RegulatoryReport, error)
	ListReportsByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.RegulatoryReport, error)

	CreateSubmission(ctx context.Context, submission *models.ReportSubmission) error
	ListSubmissions(ctx context.Context, reportID uuid.UUID) ([]models.ReportSubmission, error)
}

type regulatoryRepository struct {
	db *gorm.DB
}

func NewRegulatoryRepository(db *gorm.DB) RegulatoryRepository {
	return &regulatoryRepository{db: db}
}

func (r *regulatoryRepository) CreateBody(ctx context.Context, body *models.RegulatoryBody) error {
	return r.db.WithContext(ctx).Create(body).Error
}

func (r *regulatoryRepository) FindBodyByID(ctx context.Context, id uuid.UUID) (*models.RegulatoryBody, error) {
	var body models.RegulatoryBody
	err := r.db.WithContext(ctx).First(&body, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *regulatoryRepository) UpdateBody(ctx context.Context, body *models.RegulatoryBody) error {
	return r.db.WithContext(ctx).Save(body).Error
}

func (r *regulatoryRepository) DeleteBody(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.RegulatoryBody{}, "id = ?", id).Error
}

func (r *regulatoryRepository) ListBodies(ctx context.Context) ([]models.RegulatoryBody, error) {
	var bodies []models.RegulatoryBody
	err := r.db.WithContext(ctx).Order("name ASC").Find(&bodies).Error
	return bodies, err
}

func (r *regulatoryRepository) CreateReport(ctx context.Context, report *models.RegulatoryReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *regulatoryRepository) FindReportByID(ctx context.Context, id uuid.UUID) (*models.RegulatoryReport, error) {
	var report models.RegulatoryReport
	err := r.db.WithContext(ctx).
		Preload("Body").
		Preload("PreparedBy").
		Preload("Submissions").
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *regulatoryRepository) ListReportsByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.RegulatoryReport, error) {
	var reports []models.RegulatoryReport
	err := r.db.WithContext(ctx).
		Preload("Body").
		Preload("Submissions").
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *regulatoryRepository) CreateSubmission(ctx context.Context, submission *models.ReportSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *regulatoryRepository) ListSubmissions(ctx context.Context, reportID uuid.UUID) ([]models.ReportSubmission, error) {
	var submissions []models.ReportSubmission
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}
