package extraction

import "lexflow/backend/pkg/models"

// fieldTemplate is the classification attached to a keyword.
type fieldTemplate struct {
	Label          string
	Type           models.FieldType
	Suggestion     string
	ValidationRule string
	AdvisoryNote   string
	Confidence     float64
}

type keywordRule struct {
	Keyword  string
	Template fieldTemplate
}

// suggestToday marks a template whose suggestion is the current date.
const suggestToday = "$today"

// keywordRules is checked in order; the first keyword contained in the token
// wins, so "Company Name" is a company field.
var keywordRules = []keywordRule{
	{"company", fieldTemplate{
		Label:          "Company Legal Name",
		Type:           models.FieldTypeText,
		Suggestion:     "YourStartup, Inc.",
		ValidationRule: "Must include entity type (Inc., LLC, Corp.)",
		AdvisoryNote:   "This will be your registered legal entity name",
		Confidence:     0.95,
	}},
	{"name", fieldTemplate{
		Label:          "Full Legal Name",
		Type:           models.FieldTypeText,
		Suggestion:     "John Doe",
		ValidationRule: "First and Last name required",
		AdvisoryNote:   "Must match government-issued ID",
		Confidence:     0.92,
	}},
	{"date", fieldTemplate{
		Label:          "Effective Date",
		Type:           models.FieldTypeDate,
		Suggestion:     suggestToday,
		ValidationRule: "Must be a valid date",
		AdvisoryNote:   "This is when the agreement becomes legally binding",
		Confidence:     0.97,
	}},
	{"address", fieldTemplate{
		Label:          "Legal Address",
		Type:           models.FieldTypeTextarea,
		Suggestion:     "123 Main St, San Francisco, CA 94105",
		ValidationRule: "Complete street address required",
		AdvisoryNote:   "This will be your registered business address",
		Confidence:     0.90,
	}},
	{"email", fieldTemplate{
		Label:          "Email Address",
		Type:           models.FieldTypeEmail,
		Suggestion:     "contact@yourcompany.com",
		ValidationRule: "Must be valid email format",
		AdvisoryNote:   "Official communication address",
		Confidence:     0.98,
	}},
	{"shares", fieldTemplate{
		Label:          "Number of Shares",
		Type:           models.FieldTypeNumber,
		Suggestion:     "10000000",
		ValidationRule: "Must be a positive integer",
		AdvisoryNote:   "Standard is 10M authorized shares for startups",
		Confidence:     0.93,
	}},
	{"salary", fieldTemplate{
		Label:          "Annual Salary",
		Type:           models.FieldTypeNumber,
		Suggestion:     "120000",
		ValidationRule: "Must be positive number",
		AdvisoryNote:   "Ensure compliance with minimum wage laws",
		Confidence:     0.94,
	}},
}

const (
	fallbackLabel      = "Custom Field"
	fallbackValidation = "Required field"
	fallbackNote       = "Please verify this information carefully"
	fallbackConfidence = 0.75
)
