package models

// FieldType is the input type collected for a field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
)

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeDate, FieldTypeNumber, FieldTypeTextarea:
		return true
	}
	return false
}

// Field is one classified placeholder of a document.
type Field struct {
	ID             string    `json:"id"`
	Placeholder    string    `json:"placeholder"`
	Label          string    `json:"label"`
	Type           FieldType `json:"type"`
	Value          string    `json:"value"`
	Confidence     float64   `json:"confidence"` // display only
	Context        string    `json:"context"`
	Suggestion     string    `json:"suggestion,omitempty"`
	ValidationRule string    `json:"validation_rule"`
	AdvisoryNote   string    `json:"advisory_note,omitempty"`
	// Anonymous placeholders ([ ], runs of underscores) carry a synthetic
	// Field_<n> name.
	Anonymous bool `json:"anonymous,omitempty"`
}

// Filled reports whether the field holds an answer.
func (f Field) Filled() bool {
	return f.Value != ""
}
