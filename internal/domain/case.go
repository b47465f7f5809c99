package domain

import "time"

// CaseStatusNew is the lifecycle status written at record creation.
// Status transitions are owned by the lawyer-side tooling that reads the
// table, not by this system.
const CaseStatusNew = "new"

// IntakeData is the immutable snapshot of collected intake facts handed to
// summary generation and persistence.
type IntakeData struct {
	CaseDescription string
	DebtDetails     string
	City            string
	DocsInfo        string
	ContactInfo     string
	Classification  *Classification
	ClientName      string
	Notes           string
}

// CaseRecord is one durable row in the cases table. Append-only: records are
// never updated or deleted by this system.
type CaseRecord struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ChatID      string    `json:"chat_id"`
	Name        string    `json:"name,omitempty"`
	City        string    `json:"city,omitempty"`
	DebtType    string    `json:"debt_type,omitempty"`
	Urgency     string    `json:"urgency,omitempty"`
	DebtDetails string    `json:"debt_details,omitempty"`
	DocsInfo    string    `json:"docs_info,omitempty"`
	CaseSummary string    `json:"case_summary,omitempty"`
	ContactInfo string    `json:"contact_info,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}
