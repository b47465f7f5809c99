// Package dialog implements the intake dialogue state machine. The machine is
// pure turn-by-turn logic: it performs no I/O and knows nothing about the
// transport, the store, or the assistant behind the summarizer callback.
package dialog

import (
	"fmt"
	"strings"

	"github.com/avoronin/intakebot/internal/domain"
)

// Default dialogue limits.
const (
	DefaultMaxTotalResponses = 10
	DefaultMaxStageAttempts  = 2
)

// Summarizer produces the summary text embedded in the confirmation prompt.
// It may attach a classification and summary to the session as a side effect.
// An empty return falls back to the deterministic field concatenation.
type Summarizer func(session *domain.Session) string

// Response is the outcome of one dialogue turn.
type Response struct {
	ReplyText  string
	Stage      domain.Stage
	Session    *domain.Session
	ShouldSave bool
}

// Machine drives one session through the fixed stage sequence.
// Not safe for concurrent use; callers serialize turns per session key.
type Machine struct {
	session           *domain.Session
	stage             domain.Stage
	maxTotalResponses int
	maxStageAttempts  int
}

// NewMachine creates a machine for a chat with default limits.
func NewMachine(chatID string) *Machine {
	return NewMachineWithLimits(chatID, DefaultMaxTotalResponses, DefaultMaxStageAttempts)
}

// NewMachineWithLimits creates a machine with explicit turn and retry limits.
func NewMachineWithLimits(chatID string, maxTotalResponses, maxStageAttempts int) *Machine {
	if maxTotalResponses <= 0 {
		maxTotalResponses = DefaultMaxTotalResponses
	}
	if maxStageAttempts <= 0 {
		maxStageAttempts = DefaultMaxStageAttempts
	}
	return &Machine{
		session:           domain.NewSession(chatID),
		stage:             domain.StageGreeting,
		maxTotalResponses: maxTotalResponses,
		maxStageAttempts:  maxStageAttempts,
	}
}

// Stage returns the current dialogue stage.
func (m *Machine) Stage() domain.Stage {
	return m.stage
}

// Session returns the session owned by this machine.
func (m *Machine) Session() *domain.Session {
	return m.session
}

// Start opens the dialogue: greeting plus the first question, moving to the
// case description stage.
func (m *Machine) Start() Response {
	return m.reply(greetingText, domain.StageCaseDescription, false)
}

// HandleReply processes one user message and advances the machine.
func (m *Machine) HandleReply(userMessage string, summarize Summarizer) Response {
	if m.session.MessageCount >= m.maxTotalResponses {
		return m.reply(limitClosing, domain.StageClose, true)
	}

	message := strings.TrimSpace(userMessage)

	switch m.stage {
	case domain.StageCaseDescription:
		return m.handleCaseDescription(message)
	case domain.StageDebtDetails:
		return m.handleDebtDetails(message)
	case domain.StageCity:
		return m.handleCity(message)
	case domain.StageDocsInfo:
		return m.handleDocsInfo(message)
	case domain.StageContacts:
		return m.handleContacts(message, summarize)
	case domain.StageConfirmation:
		return m.handleConfirmation(message)
	default:
		// Greeting or Close: a message here means the caller misused the
		// machine or the dialogue already ended. Restart from the top.
		return m.Start()
	}
}

func (m *Machine) handleCaseDescription(message string) Response {
	if message == "" {
		return m.retryOrMove(domain.StageCaseDescription, caseDescriptionRetry, domain.StageDebtDetails)
	}
	m.session.CaseDescription = message
	return m.reply(debtDetailsPrompt, domain.StageDebtDetails, false)
}

func (m *Machine) handleDebtDetails(message string) Response {
	if message == "" {
		return m.retryOrMove(domain.StageDebtDetails, debtDetailsRetry, domain.StageCity)
	}
	m.session.DebtDetails = message
	return m.reply(cityPrompt, domain.StageCity, false)
}

func (m *Machine) handleCity(message string) Response {
	if message == "" {
		return m.retryOrMove(domain.StageCity, cityRetry, domain.StageDocsInfo)
	}
	m.session.City = message
	return m.reply(docsPrompt, domain.StageDocsInfo, false)
}

func (m *Machine) handleDocsInfo(message string) Response {
	if message == "" {
		return m.retryOrMove(domain.StageDocsInfo, docsRetry, domain.StageContacts)
	}
	m.session.DocsInfo = message
	return m.reply(contactsPrompt, domain.StageContacts, false)
}

func (m *Machine) handleContacts(message string, summarize Summarizer) Response {
	if message == "" {
		return m.retryOrMove(domain.StageContacts, contactsRetry, domain.StageConfirmation)
	}

	m.session.ContactInfo = message
	m.session.ClientName = ExtractName(message)

	var summary string
	if summarize != nil {
		summary = summarize(m.session)
	}
	if summary == "" {
		summary = m.fallbackSummary()
	}
	m.session.Summary = summary

	prompt := confirmationPreface + summary + confirmationSuffix
	return m.reply(prompt, domain.StageConfirmation, false)
}

func (m *Machine) handleConfirmation(message string) Response {
	if isAffirmative(message) {
		return m.reply(confirmedClosing, domain.StageClose, true)
	}

	attempts := m.session.Attempts[domain.StageConfirmation]
	m.session.Attempts[domain.StageConfirmation] = attempts + 1
	if message != "" {
		m.session.Notes = message
	}

	if attempts+1 >= m.maxStageAttempts {
		return m.reply(notedClosing, domain.StageClose, true)
	}
	return m.reply(confirmationRetry, domain.StageConfirmation, false)
}

// retryOrMove applies the per-stage retry policy for an empty answer: reissue
// the stage prompt until the attempt limit, then skip ahead to the fallback
// stage with a notice (or close the dialogue when no fallback exists).
func (m *Machine) retryOrMove(stage domain.Stage, prompt string, fallback domain.Stage) Response {
	attempts := m.session.Attempts[stage]
	if attempts+1 >= m.maxStageAttempts {
		if !fallback.Terminal() {
			notice := moveForwardNotice
			if stage == domain.StageContacts {
				notice = noContactsNotice
			}
			return m.reply(notice+nextPrompt(fallback), fallback, false)
		}
		return m.reply(wrapUpClosing, domain.StageClose, true)
	}

	m.session.Attempts[stage] = attempts + 1
	return m.reply(prompt, stage, false)
}

// nextPrompt is the question asked on entry to a data-collecting stage.
func nextPrompt(stage domain.Stage) string {
	switch stage {
	case domain.StageCaseDescription:
		return caseDescriptionRetry
	case domain.StageDebtDetails:
		return debtDetailsRetry
	case domain.StageCity:
		return cityRetry
	case domain.StageDocsInfo:
		return docsRetry
	case domain.StageContacts:
		return contactsRetry
	case domain.StageConfirmation:
		return confirmationRetry
	default:
		return ""
	}
}

func (m *Machine) fallbackSummary() string {
	return fmt.Sprintf("Case: %s. Debts: %s. City: %s. Documents: %s. Contact: %s.",
		orDefault(m.session.CaseDescription, "no description"),
		orDefault(m.session.DebtDetails, "no details"),
		orDefault(m.session.City, "unknown"),
		orDefault(m.session.DocsInfo, "not specified"),
		orDefault(m.session.ContactInfo, "not provided"))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

var affirmatives = map[string]struct{}{
	"yes":     {},
	"y":       {},
	"ok":      {},
	"okay":    {},
	"confirm": {},
	"да":      {},
	"ага":     {},
}

// isAffirmative matches the fixed confirmation set, case-insensitive and
// exact: "Yes" confirms, "yes please" does not.
func isAffirmative(message string) bool {
	_, ok := affirmatives[strings.ToLower(strings.TrimSpace(message))]
	return ok
}

// ExtractName takes a best-effort client name out of free-form contact text:
// the part before the first comma, slash, or pipe, otherwise the first two
// whitespace-delimited tokens. Returns "" when no name can be derived.
func ExtractName(contact string) string {
	if contact == "" {
		return ""
	}
	for _, sep := range []string{",", "/", "|"} {
		if before, _, found := strings.Cut(contact, sep); found {
			return strings.TrimSpace(before)
		}
	}
	words := strings.Fields(contact)
	if len(words) >= 2 {
		return words[0] + " " + words[1]
	}
	return ""
}

func (m *Machine) reply(text string, next domain.Stage, shouldSave bool) Response {
	m.session.MessageCount++
	m.stage = next
	return Response{
		ReplyText:  strings.TrimSpace(text),
		Stage:      next,
		Session:    m.session,
		ShouldSave: shouldSave,
	}
}
