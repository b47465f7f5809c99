package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/avoronin/intakebot/internal/domain"
)

// keywordRule maps a lower-cased substring marker to a debt type label.
// Order matters: the first marker found wins, so more specific markers
// (mortgage, credit card) come before generic ones (loan).
type keywordRule struct {
	marker string
	label  string
}

var debtTypeRules = []keywordRule{
	{"mortgage", domain.DebtTypeMortgage},
	{"ипот", domain.DebtTypeMortgage},
	{"credit card", domain.DebtTypeCreditCard},
	{"card", domain.DebtTypeCreditCard},
	{"карт", domain.DebtTypeCreditCard},
	{"microloan", domain.DebtTypeMicroloan},
	{"микро", domain.DebtTypeMicroloan},
	{"payday", domain.DebtTypeMicroloan},
	{"consumer", domain.DebtTypeConsumerLoan},
	{"кредит", domain.DebtTypeConsumerLoan},
	{"loan", domain.DebtTypeConsumerLoan},
}

var highUrgencyMarkers = []string{
	"court",
	"lawsuit",
	"bailiff",
	"enforcement",
	"collector",
	"threat",
	"urgent",
	"tomorrow",
	"суд",
	"пристав",
	"коллект",
	"срочно",
}

// Rules is the deterministic Assistant: keyword classification and a fixed
// template summary. It never fails.
type Rules struct{}

// NewRules creates the deterministic assistant.
func NewRules() *Rules {
	return &Rules{}
}

// Classify scans the ordered keyword table and the urgency marker list.
// An empty description classifies as other/normal.
func (r *Rules) Classify(_ context.Context, description string) (domain.Classification, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Classification{Type: domain.DebtTypeOther, Urgency: domain.UrgencyNormal}, nil
	}

	lowered := strings.ToLower(description)

	debtType := domain.DebtTypeOther
	for _, rule := range debtTypeRules {
		if strings.Contains(lowered, rule.marker) {
			debtType = rule.label
			break
		}
	}

	urgency := domain.UrgencyNormal
	for _, marker := range highUrgencyMarkers {
		if strings.Contains(lowered, marker) {
			urgency = domain.UrgencyHigh
			break
		}
	}

	return domain.Classification{Type: debtType, Urgency: urgency}, nil
}

// Summarize concatenates the collected fields into the fixed template
// summary.
func (r *Rules) Summarize(_ context.Context, data domain.IntakeData) (string, error) {
	var b strings.Builder

	if data.ClientName != "" {
		fmt.Fprintf(&b, "Name provided: %s. ", data.ClientName)
	}
	fmt.Fprintf(&b, "The person reported: %s. ", data.CaseDescription)
	fmt.Fprintf(&b, "Debt details: %s. ", data.DebtDetails)
	fmt.Fprintf(&b, "City/region: %s. ", orText(data.City, "not provided"))
	fmt.Fprintf(&b, "Documents: %s. ", orText(data.DocsInfo, "not specified"))
	fmt.Fprintf(&b, "Contact: %s. ", data.ContactInfo)
	if data.Classification != nil {
		fmt.Fprintf(&b, "Debt type: %s. Urgency: %s. ", data.Classification.Type, data.Classification.Urgency)
	}
	if data.Notes != "" {
		fmt.Fprintf(&b, "Additional notes: %s. ", data.Notes)
	}

	return strings.TrimSpace(b.String()), nil
}

func orText(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
