package domain

// Debt type labels produced by classification.
const (
	DebtTypeConsumerLoan = "consumer_loan"
	DebtTypeCreditCard   = "credit_card"
	DebtTypeMortgage     = "mortgage"
	DebtTypeMicroloan    = "microloan"
	DebtTypeOther        = "other"
)

// Urgency levels for a classified case.
const (
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
)

// Classification is the (debt type, urgency) pair derived from a case
// description. Immutable once produced.
type Classification struct {
	Type    string `json:"type"`
	Urgency string `json:"urgency"`
}
