package assist

import (
	"fmt"
	"strings"

	"github.com/avoronin/intakebot/internal/domain"
)

const classificationSystemPrompt = "You classify short debt intake descriptions into JSON labels only."

const classificationPromptTemplate = `You are a legal intake assistant who classifies debt or potential personal bankruptcy cases.
Read the user description and respond with a compact JSON object using the following shape:
{
  "type": "consumer_loan | credit_card | mortgage | microloan | other",
  "urgency": "normal | high"
}
Keep the response strictly as JSON without extra text.
If information is missing, choose the closest option.

User description:
%q`

const summarySystemPrompt = "You generate concise summaries for debt intake without legal advice."

const summaryPromptTemplate = `You are drafting a short, respectful summary of a debt or potential bankruptcy intake.
Use a concise tone (2-4 sentences). Do not provide legal advice. Include:
- short restatement of the situation;
- key debt details;
- city/region;
- documents mentioned;
- contact method provided.

Return only the summary text without bullet points.

Context:
%s`

func buildClassificationPrompt(description string) string {
	return fmt.Sprintf(classificationPromptTemplate, description)
}

func buildSummaryPrompt(data domain.IntakeData) string {
	return fmt.Sprintf(summaryPromptTemplate, renderContextBlock(data))
}

// renderContextBlock lists the collected fields one per line for the summary
// prompt.
func renderContextBlock(data domain.IntakeData) string {
	parts := []string{
		"Description: " + data.CaseDescription,
		"Debt details: " + data.DebtDetails,
		"City: " + orText(data.City, "not provided"),
		"Documents: " + orText(data.DocsInfo, "not specified"),
		"Contact: " + data.ContactInfo,
	}
	if data.ClientName != "" {
		parts = append(parts, "Name: "+data.ClientName)
	}
	if data.Classification != nil {
		parts = append(parts, fmt.Sprintf("Classification: type=%s, urgency=%s",
			data.Classification.Type, data.Classification.Urgency))
	}
	if data.Notes != "" {
		parts = append(parts, "Notes: "+data.Notes)
	}
	return strings.Join(parts, "\n")
}
