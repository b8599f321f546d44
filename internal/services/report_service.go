package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportService prepares regulatory reports from case snapshots and records
// their submissions. The snapshot JSON is archived in object storage so the
// report content is frozen at preparation time.
type ReportService interface {
	PrepareReport(ctx context.Context, complaintID uuid.UUID, req *models.PrepareReportRequest, preparerID uuid.UUID) (*models.ReportResponse, error)
	GetReport(ctx context.Context, reportID uuid.UUID) (*models.ReportResponse, error)
	ListReports(ctx context.Context, complaintID uuid.UUID) ([]models.ReportResponse, error)
	SubmitReport(ctx context.Context, reportID uuid.UUID, req *models.SubmitReportRequest, submitterID uuid.UUID) (*models.SubmissionResponse, error)
	ListSubmissions(ctx context.Context, reportID uuid.UUID) ([]models.SubmissionResponse, error)
	SnapshotURL(ctx context.Context, reportID uuid.UUID) (string, error)
}

type reportService struct {
	regulatoryRepo repository.RegulatoryRepository
	lifecycle      LifecycleService
	objects        *storage.MinIOStorage
}

func NewReportService(regulatoryRepo repository.RegulatoryRepository, lifecycle LifecycleService, objects *storage.MinIOStorage) ReportService {
	return &reportService{
		regulatoryRepo: regulatoryRepo,
		lifecycle:      lifecycle,
		objects:        objects,
	}
}

func (s *reportService) PrepareReport(ctx context.Context, complaintID uuid.UUID, req *models.PrepareReportRequest, preparerID uuid.UUID) (*models.ReportResponse, error) {
	bodyID, err := uuid.Parse(req.BodyID)
	if err != nil {
		return nil, &models.ValidationError{Field: "body_id", Reason: "must be a uuid"}
	}
	if _, err := s.regulatoryRepo.FindBodyByID(ctx, bodyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "regulatory body", ID: req.BodyID}
		}
		return nil, wrapStorage("regulatory body lookup", err)
	}

	snapshot, err := s.lifecycle.Snapshot(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	// A report freezes the case outcome, so the case must have one.
	if snapshot.Complaint.Status != models.StatusResolved && snapshot.Complaint.Status != models.StatusClosed {
		return nil, &models.PreconditionFailedError{Message: "complaint must be resolved or closed before a regulatory report is prepared"}
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}

	report := &models.RegulatoryReport{
		ID:           uuid.New(),
		ComplaintID:  complaintID,
		BodyID:       bodyID,
		Title:        req.Title,
		Summary:      req.Summary,
		PreparedByID: &preparerID,
	}
	report.SnapshotPath = fmt.Sprintf("reports/%s/%s.json", complaintID, report.ID)

	if err := s.objects.UploadBytes(ctx, report.SnapshotPath, payload, "application/json"); err != nil {
		return nil, &models.StorageError{Op: "snapshot upload", Err: err}
	}
	if err := s.regulatoryRepo.CreateReport(ctx, report); err != nil {
		return nil, wrapStorage("report create", err)
	}

	resp := models.ToReportResponse(report)
	return &resp, nil
}

func (s *reportService) GetReport(ctx context.Context, reportID uuid.UUID) (*models.ReportResponse, error) {
	report, err := s.regulatoryRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "report", ID: reportID.String()}
		}
		return nil, wrapStorage("report lookup", err)
	}
	resp := models.ToReportResponse(report)
	return &resp, nil
}

func (s *reportService) ListReports(ctx context.Context, complaintID uuid.UUID) ([]models.ReportResponse, error) {
	reports, err := s.regulatoryRepo.ListReportsByComplaint(ctx, complaintID)
	if err != nil {
		return nil, wrapStorage("report list", err)
	}
	responses := make([]models.ReportResponse, len(reports))
	for i := range reports {
		responses[i] = models.ToReportResponse(&reports[i])
	}
	return responses, nil
}

func (s *reportService) SubmitReport(ctx context.Context, reportID uuid.UUID, req *models.SubmitReportRequest, submitterID uuid.UUID) (*models.SubmissionResponse, error) {
	if _, err := s.regulatoryRepo.FindReportByID(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "report", ID: reportID.String()}
		}
		return nil, wrapStorage("report lookup", err)
	}

	submission := &models.ReportSubmission{
		ReportID:      reportID,
		Method:        models.SubmissionMethod(req.Method),
		Reference:     req.Reference,
		SubmittedAt:   time.Now(),
		SubmittedByID: &submitterID,
	}
	if err := s.regulatoryRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, wrapStorage("submission create", err)
	}

	resp := models.ToSubmissionResponse(submission)
	return &resp, nil
}

func (s *reportService) ListSubmissions(ctx context.Context, reportID uuid.UUID) ([]models.SubmissionResponse, error) {
	if _, err := s.regulatoryRepo.FindReportByID(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "report", ID: reportID.String()}
		}
		return nil, wrapStorage("report lookup", err)
	}

	submissions, err := s.regulatoryRepo.ListSubmissions(ctx, reportID)
	if err != nil {
		return nil, wrapStorage("submission list", err)
	}
	responses := make([]models.SubmissionResponse, len(submissions))
	for i := range submissions {
		responses[i] = models.ToSubmissionResponse(&submissions[i])
	}
	return responses, nil
}

func (s *reportService) SnapshotURL(ctx context.Context, reportID uuid.UUID) (string, error) {
	report, err := s.regulatoryRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &models.NotFoundError{Entity: "report", ID: reportID.String()}
		}
		return "", wrapStorage("report lookup", err)
	}

	url, err := s.objects.GetFileURL(ctx, report.SnapshotPath)
	if err != nil {
		return "", &models.StorageError{Op: "snapshot url", Err: err}
	}
	return url, nil
}
