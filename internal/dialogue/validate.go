package dialogue

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lexflow/backend/pkg/models"
)

// ValidationError describes an answer rejected by its field's type rule.
type ValidationError struct {
	FieldID string
	Label   string
	Reason  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %v", e.FieldID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Reasons an answer is rejected. ReasonText gives the wording shown to users.
var (
	ErrEmptyAnswer   = errors.New("empty answer")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidNumber = errors.New("not a positive number")
	ErrInvalidDate   = errors.New("unrecognized date")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dateLayouts are the calendar formats accepted for date fields.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Validate checks input against the rule for fieldType and returns one of
// the rejection reasons when it does not pass.
func Validate(fieldType models.FieldType, input string) error {
	value := strings.TrimSpace(input)
	if value == "" {
		return ErrEmptyAnswer
	}

	switch fieldType {
	case models.FieldTypeEmail:
		if !emailPattern.MatchString(value) {
			return ErrInvalidEmail
		}
	case models.FieldTypeNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
			return ErrInvalidNumber
		}
	case models.FieldTypeDate:
		if !isDate(value) {
			return ErrInvalidDate
		}
	}
	return nil
}

func isDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
