package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentService interface {
	Upload(ctx context.Context, complaintID uuid.UUID, title string, docType models.DocumentType, file multipart.File, header *multipart.FileHeader, uploaderID uuid.UUID) (*models.DocumentResponse, error)
	Download(ctx context.Context, documentID, userID uuid.UUID) (io.ReadCloser, *models.Document, error)
	GetURL(ctx context.Context, documentID, userID uuid.UUID) (string, error)
	List(ctx context.Context, complaintID uuid.UUID) ([]models.DocumentResponse, error)
	Delete(ctx context.Context, documentID uuid.UUID) error
	AccessLogs(ctx context.Context, documentID uuid.UUID) ([]models.DocumentAccessLog, error)
}

type documentService struct {
	docRepo repository.DocumentRepository
	store   repository.CaseStore
	objects *storage.MinIOStorage
}

func NewDocumentService(docRepo repository.DocumentRepository, store repository.CaseStore, objects *storage.MinIOStorage) DocumentService {
	return &documentService{
		docRepo: docRepo,
		store:   store,
		objects: objects,
	}
}

func (s *documentService) Upload(ctx context.Context, complaintID uuid.UUID, title string, docType models.DocumentType, file multipart.File, header *multipart.FileHeader, uploaderID uuid.UUID) (*models.DocumentResponse, error) {
	if _, err := s.store.FindComplaintByID(ctx, complaintID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "complaint", ID: complaintID.String()}
		}
		return nil, wrapStorage("complaint lookup", err)
	}

	// Hash the stream while it is copied into the bucket.
	hasher := sha256.New()
	objectName, err := s.objects.UploadDocument(ctx, io.TeeReader(file, hasher), header, complaintID.String())
	if err != nil {
		return nil, &models.StorageError{Op: "document upload", Err: err}
	}

	document := &models.Document{
		ComplaintID:  complaintID,
		Title:        title,
		Type:         docType,
		FileName:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
		Checksum:     hex.EncodeToString(hasher.Sum(nil)),
		StoragePath:  objectName,
		UploadedByID: &uploaderID,
	}
	if err := s.docRepo.Create(ctx, document); err != nil {
		return nil, wrapStorage("document create", err)
	}

	resp := models.ToDocumentResponse(document)
	return &resp, nil
}

func (s *documentService) Download(ctx context.Context, documentID, userID uuid.UUID) (io.ReadCloser, *models.Document, error) {
	document, err := s.find(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.objects.GetFile(ctx, document.StoragePath)
	if err != nil {
		return nil, nil, &models.StorageError{Op: "document download", Err: err}
	}

	s.logAccess(ctx, documentID, userID, "download")
	return reader, document, nil
}

func (s *documentService) GetURL(ctx context.Context, documentID, userID uuid.UUID) (string, error) {
	document, err := s.find(ctx, documentID)
	if err != nil {
		return "", err
	}

	exists, err := s.objects.FileExists(ctx, document.StoragePath)
	if err != nil {
		return "", &models.StorageError{Op: "document stat", Err: err}
	}
	if !exists {
		return "", &models.NotFoundError{Entity: "document object", ID: documentID.String()}
	}

	url, err := s.objects.GetFileURL(ctx, document.StoragePath)
	if err != nil {
		return "", &models.StorageError{Op: "document url", Err: err}
	}

	s.logAccess(ctx, documentID, userID, "view")
	return url, nil
}

func (s *documentService) List(ctx context.Context, complaintID uuid.UUID) ([]models.DocumentResponse, error) {
	documents, err := s.docRepo.ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, wrapStorage("document list", err)
	}
	responses := make([]models.DocumentResponse, len(documents))
	for i := range documents {
		responses[i] = models.ToDocumentResponse(&documents[i])
	}
	return responses, nil
}

func (s *documentService) Delete(ctx context.Context, documentID uuid.UUID) error {
	document, err := s.find(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.objects.DeleteFile(ctx, document.StoragePath); err != nil {
		return &models.StorageError{Op: "document delete", Err: err}
	}
	if err := s.docRepo.Delete(ctx, documentID); err != nil {
		return wrapStorage("document delete", err)
	}
	return nil
}

func (s *documentService) AccessLogs(ctx context.Context, documentID uuid.UUID) ([]models.DocumentAccessLog, error) {
	if _, err := s.find(ctx, documentID); err != nil {
		return nil, err
	}
	logs, err := s.docRepo.ListAccessLogs(ctx, documentID)
	if err != nil {
		return nil, wrapStorage("access log list", err)
	}
	return logs, nil
}

func (s *documentService) find(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	document, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "document", ID: documentID.String()}
		}
		return nil, wrapStorage("document lookup", err)
	}
	return document, nil
}

func (s *documentService) logAccess(ctx context.Context, documentID, userID uuid.UUID, action string) {
	_ = s.docRepo.LogAccess(ctx, &models.DocumentAccessLog{
		DocumentID: documentID,
		UserID:     userID,
		Action:     action,
		AccessedAt: time.Now(),
	})
}
