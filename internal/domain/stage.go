// Package domain contains core domain types for the intake bot.
package domain

// Stage is a step in the fixed intake dialogue sequence.
type Stage int

const (
	StageGreeting Stage = iota
	StageCaseDescription
	StageDebtDetails
	StageCity
	StageDocsInfo
	StageContacts
	StageConfirmation
	StageClose
)

// String returns the wire/log name of the stage.
func (s Stage) String() string {
	switch s {
	case StageGreeting:
		return "greeting"
	case StageCaseDescription:
		return "case_description"
	case StageDebtDetails:
		return "debt_details"
	case StageCity:
		return "city"
	case StageDocsInfo:
		return "docs_info"
	case StageContacts:
		return "contacts"
	case StageConfirmation:
		return "confirmation"
	case StageClose:
		return "close"
	default:
		return "unknown"
	}
}

// Terminal reports whether the stage has no outgoing transitions.
func (s Stage) Terminal() bool {
	return s == StageClose
}
