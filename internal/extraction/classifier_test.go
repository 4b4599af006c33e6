package extraction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexflow/backend/pkg/models"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
}

func TestKeywordClassifier_Classify(t *testing.T) {
	c := NewKeywordClassifier(WithClock(fixedClock))
	ctx := context.Background()

	tests := []struct {
		token      string
		wantLabel  string
		wantType   models.FieldType
		suggestion string
	}{
		{"Company", "Company Legal Name", models.FieldTypeText, "YourStartup, Inc."},
		{"Company Name", "Company Legal Name", models.FieldTypeText, "YourStartup, Inc."},
		{"Employee Name", "Full Legal Name", models.FieldTypeText, "John Doe"},
		{"start date", "Effective Date", models.FieldTypeDate, "2024-03-15"},
		{"Registered Address", "Legal Address", models.FieldTypeTextarea, "123 Main St, San Francisco, CA 94105"},
		{"EMAIL", "Email Address", models.FieldTypeEmail, "contact@yourcompany.com"},
		{"Authorized Shares", "Number of Shares", models.FieldTypeNumber, "10000000"},
		{"salary", "Annual Salary", models.FieldTypeNumber, "120000"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			f, err := c.Classify(ctx, tt.token, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, f.Label)
			assert.Equal(t, tt.wantType, f.Type)
			assert.Equal(t, tt.suggestion, f.Suggestion)
			assert.GreaterOrEqual(t, f.Confidence, 0.85)
			assert.LessOrEqual(t, f.Confidence, 0.99)
		})
	}
}

func TestKeywordClassifier_Deterministic(t *testing.T) {
	c := NewKeywordClassifier(WithClock(fixedClock))
	a, err := c.Classify(context.Background(), "Company", "")
	require.NoError(t, err)
	b, err := c.Classify(context.Background(), "Company", "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKeywordClassifier_Fallback(t *testing.T) {
	c := NewKeywordClassifier()

	f, err := c.Classify(context.Background(), "Vesting_Schedule", "The [Vesting_Schedule] applies.")
	require.NoError(t, err)
	assert.Equal(t, "VestingSchedule", f.Label)
	assert.Equal(t, models.FieldTypeText, f.Type)
	assert.Empty(t, f.Suggestion)
	assert.Equal(t, "Required field", f.ValidationRule)
	assert.Equal(t, "Please verify this information carefully", f.AdvisoryNote)
	assert.Equal(t, 0.75, f.Confidence)
	assert.Equal(t, "...The [Vesting_Schedule] applies....", f.Context)
}

func TestFallbackLabel(t *testing.T) {
	assert.Equal(t, "Custom Field", FallbackLabel("__[]{}__"))
	assert.Equal(t, "Title", FallbackLabel(" [Title] "))
}

func TestKeywordClassifier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKeywordClassifier().Classify(ctx, "Company", "")
	assert.ErrorIs(t, err, context.Canceled)
}
