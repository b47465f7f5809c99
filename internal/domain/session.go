package domain

// Session holds the mutable fact bag collected during one intake dialogue.
// It is owned by a single state machine instance and mutated turn by turn.
type Session struct {
	ChatID          string
	CaseDescription string
	DebtDetails     string
	City            string
	DocsInfo        string
	ContactInfo     string
	ClientName      string
	Classification  *Classification
	Summary         string
	Notes           string
	MessageCount    int
	Attempts        map[Stage]int
}

// NewSession creates an empty session for a chat.
func NewSession(chatID string) *Session {
	return &Session{
		ChatID:   chatID,
		Attempts: make(map[Stage]int),
	}
}

// DescriptionBasis returns the text classification should run on: the case
// description when present, otherwise the debt details.
func (s *Session) DescriptionBasis() string {
	if s.CaseDescription != "" {
		return s.CaseDescription
	}
	return s.DebtDetails
}

// IntakeData snapshots the session facts for summary generation and
// persistence.
func (s *Session) IntakeData() IntakeData {
	return IntakeData{
		CaseDescription: s.CaseDescription,
		DebtDetails:     s.DebtDetails,
		City:            s.City,
		DocsInfo:        s.DocsInfo,
		ContactInfo:     s.ContactInfo,
		Classification:  s.Classification,
		ClientName:      s.ClientName,
		Notes:           s.Notes,
	}
}
