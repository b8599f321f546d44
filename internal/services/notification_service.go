package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/smtp"
	"text/template"
	"time"

	"github.com/caseflow/backend/internal/config"
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/google/uuid"
)

// NotificationService sends customer and staff emails and records every
// attempt in the communication log. Delivery is best effort: a failed send is
// logged as FAILED and never propagated to the caller.
type NotificationService struct {
	commRepo     repository.CommunicationRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	store        repository.CaseStore
	smtpCfg      config.SMTPConfig
}

func NewNotificationService(
	commRepo repository.CommunicationRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	store repository.CaseStore,
	smtpCfg config.SMTPConfig,
) *NotificationService {
	return &NotificationService{
		commRepo:     commRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		store:        store,
		smtpCfg:      smtpCfg,
	}
}

// RenderTemplate fills {{.name}} placeholders from the variables map.
func RenderTemplate(text string, variables map[string]string) (string, error) {
	tpl, err := template.New("message").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, variables); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ComplaintStatusChanged emails the complaint's customer about a lifecycle
// move. Called on its own goroutine after the transaction commits.
func (s *NotificationService) ComplaintStatusChanged(complaint *models.Complaint, previous, current models.ComplaintStatus, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if complaint.CustomerID == nil {
		return
	}
	customer, err := s.customerRepo.FindByID(ctx, *complaint.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}

	s.sendFromTemplate(ctx, "status_changed", customer.Email, &complaint.ID, map[string]string{
		"complaint_number": complaint.ComplaintNumber,
		"previous_status":  string(previous),
		"status":           string(current),
		"reason":           reason,
	})
}

// CapaOverdue emails the assigned staff member about a corrective action past
// its due date.
func (s *NotificationService) CapaOverdue(capa *models.CorrectiveAction) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if capa.AssignedToID == nil {
		return
	}
	staff, err := s.userRepo.FindByID(ctx, *capa.AssignedToID)
	if err != nil || staff.Email == "" {
		return
	}

	complaintNumber := capa.ComplaintID.String()
	if complaint, err := s.store.FindComplaintByID(ctx, capa.ComplaintID); err == nil {
		complaintNumber = complaint.ComplaintNumber
	}

	dueDate := ""
	if capa.DueDate != nil {
		dueDate = capa.DueDate.Format("2006-01-02")
	}

	s.sendFromTemplate(ctx, "capa_overdue", staff.Email, &capa.ComplaintID, map[string]string{
		"complaint_number": complaintNumber,
		"description":      capa.Description,
		"due_date":         dueDate,
	})
}

func (s *NotificationService) sendFromTemplate(ctx context.Context, templateCode, recipient string, complaintID *uuid.UUID, variables map[string]string) {
	tpl, err := s.commRepo.FindTemplateByCode(ctx, templateCode)
	if err != nil {
		log.Printf("notification template %q not found: %v", templateCode, err)
		return
	}

	subject, err := RenderTemplate(tpl.Subject, variables)
	if err != nil {
		log.Printf("failed to render subject for %q: %v", templateCode, err)
		return
	}
	body, err := RenderTemplate(tpl.Body, variables)
	if err != nil {
		log.Printf("failed to render body for %q: %v", templateCode, err)
		return
	}

	entry := &models.CommunicationLog{
		ComplaintID: complaintID,
		TemplateID:  &tpl.ID,
		Recipient:   recipient,
		Subject:     subject,
		Body:        body,
		Status:      models.CommunicationPending,
	}
	if err := s.commRepo.CreateLog(ctx, entry); err != nil {
		log.Printf("failed to record communication log: %v", err)
		return
	}

	if err := s.send(recipient, subject, body); err != nil {
		entry.Status = models.CommunicationFailed
		entry.Error = err.Error()
	} else {
		now := time.Now()
		entry.Status = models.CommunicationSent
		entry.SentAt = &now
	}
	if err := s.commRepo.UpdateLog(ctx, entry); err != nil {
		log.Printf("failed to update communication log: %v", err)
	}
}

func (s *NotificationService) send(recipient, subject, body string) error {
	if !s.smtpCfg.Enabled {
		log.Printf("SMTP disabled, skipping send to %s: %s", recipient, subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.smtpCfg.From, recipient, subject, body)

	addr := s.smtpCfg.Host + ":" + s.smtpCfg.Port
	var auth smtp.Auth
	if s.smtpCfg.Username != "" {
		auth = smtp.PlainAuth("", s.smtpCfg.Username, s.smtpCfg.Password, s.smtpCfg.Host)
	}
	return smtp.SendMail(addr, auth, s.smtpCfg.From, []string{recipient}, []byte(msg))
}
