package models

// ComplaintStatus is the single status vocabulary shared by the complaint row,
// the investigation conclusion and the status ledger.
type ComplaintStatus string

const (
	StatusNew        ComplaintStatus = "NEW"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
	StatusClosed     ComplaintStatus = "CLOSED"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ComplaintPriority represents the urgency of a complaint.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "LOW"
	PriorityMedium ComplaintPriority = "MEDIUM"
	PriorityHigh   ComplaintPriority = "HIGH"
	PriorityUrgent ComplaintPriority = "URGENT"
)

func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// LifecycleEvent names a requested complaint status change.
type LifecycleEvent string

const (
	EventBeginAssessment LifecycleEvent = "begin_assessment"
	EventResolve         LifecycleEvent = "resolve"
	EventClose           LifecycleEvent = "close"
	EventReopen          LifecycleEvent = "reopen"
)

// LifecycleTransition is one permitted edge of the complaint state machine.
type LifecycleTransition struct {
	Event LifecycleEvent
	Src   ComplaintStatus
	Dst   ComplaintStatus
}

// LifecycleTransitions is the complete set of permitted status edges. Any
// requested change not listed here is an invalid transition. CLOSED can only
// be left through an explicit reopen.
var LifecycleTransitions = []LifecycleTransition{
	{Event: EventBeginAssessment, Src: StatusNew, Dst: StatusInProgress},
	{Event: EventResolve, Src: StatusInProgress, Dst: StatusResolved},
	{Event: EventClose, Src: StatusResolved, Dst: StatusClosed},
	{Event: EventReopen, Src: StatusResolved, Dst: StatusInProgress},
	{Event: EventReopen, Src: StatusClosed, Dst: StatusInProgress},
}

// AssignmentStatus is the sub-state of a complaint assignment, independent of
// the complaint's own status.
type AssignmentStatus string

const (
	AssignmentOpen       AssignmentStatus = "OPEN"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
)

// CapaStatus is the sub-state of a corrective action plan.
type CapaStatus string

const (
	CapaPlanned    CapaStatus = "PLANNED"
	CapaInProgress CapaStatus = "IN_PROGRESS"
	CapaCompleted  CapaStatus = "COMPLETED"
	CapaOnHold     CapaStatus = "ON_HOLD"
)

func (s CapaStatus) Valid() bool {
	switch s {
	case CapaPlanned, CapaInProgress, CapaCompleted, CapaOnHold:
		return true
	}
	return false
}

// Blocking reports whether a CAPA in this status prevents resolution.
func (s CapaStatus) Blocking() bool {
	return s == CapaPlanned || s == CapaInProgress
}

// DocumentType classifies stored documents and generated reports.
type DocumentType string

const (
	DocInvestigationReport DocumentType = "INVESTIGATION_REPORT"
	DocCustomerLetter      DocumentType = "CUSTOMER_LETTER"
	DocEvidence            DocumentType = "EVIDENCE"
	DocRegulatorySummary   DocumentType = "REGULATORY_SUMMARY"
	DocOther               DocumentType = "OTHER"
)

// CommunicationStatus tracks the delivery state of an outbound message.
type CommunicationStatus string

const (
	CommunicationPending CommunicationStatus = "PENDING"
	CommunicationSent    CommunicationStatus = "SENT"
	CommunicationFailed  CommunicationStatus = "FAILED"
)

// SubmissionMethod is how a regulatory report was delivered.
type SubmissionMethod string

const (
	SubmissionEmail  SubmissionMethod = "EMAIL"
	SubmissionPortal SubmissionMethod = "PORTAL"
	SubmissionMail   SubmissionMethod = "MAIL"
)
