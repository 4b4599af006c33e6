package extraction

import (
	"context"
	"strings"
	"time"

	"lexflow/backend/pkg/models"
)

// Classifier maps one placeholder token to a semantic field. Implementations
// fill label, type, suggestion, validation rule, advisory note, confidence
// and context; the caller owns id, placeholder and value.
type Classifier interface {
	Classify(ctx context.Context, token, text string) (models.Field, error)
}

// KeywordClassifier classifies tokens with the built-in keyword table.
type KeywordClassifier struct {
	now func() time.Time
}

// KeywordOption configures a KeywordClassifier.
type KeywordOption func(*KeywordClassifier)

// WithClock overrides the clock used for date suggestions.
func WithClock(now func() time.Time) KeywordOption {
	return func(c *KeywordClassifier) {
		if now != nil {
			c.now = now
		}
	}
}

// NewKeywordClassifier creates a classifier over the ordered keyword table.
func NewKeywordClassifier(opts ...KeywordOption) *KeywordClassifier {
	c := &KeywordClassifier{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify never fails; unknown tokens become generic text fields.
func (c *KeywordClassifier) Classify(ctx context.Context, token, text string) (models.Field, error) {
	if err := ctx.Err(); err != nil {
		return models.Field{}, err
	}

	lower := strings.ToLower(token)
	for _, rule := range keywordRules {
		if !strings.Contains(lower, rule.Keyword) {
			continue
		}
		t := rule.Template
		suggestion := t.Suggestion
		if suggestion == suggestToday {
			suggestion = c.now().Format(time.DateOnly)
		}
		return models.Field{
			Label:          t.Label,
			Type:           t.Type,
			Suggestion:     suggestion,
			ValidationRule: t.ValidationRule,
			AdvisoryNote:   t.AdvisoryNote,
			Confidence:     t.Confidence,
			Context:        ExtractContext(text, token),
		}, nil
	}

	return models.Field{
		Label:          FallbackLabel(token),
		Type:           models.FieldTypeText,
		ValidationRule: fallbackValidation,
		AdvisoryNote:   fallbackNote,
		Confidence:     fallbackConfidence,
		Context:        ExtractContext(text, token),
	}, nil
}

var labelStripper = strings.NewReplacer("_", "", "[", "", "]", "", "{", "", "}", "")

// FallbackLabel derives a display label from a raw token.
func FallbackLabel(token string) string {
	label := strings.TrimSpace(labelStripper.Replace(token))
	if label == "" {
		return fallbackLabel
	}
	return label
}

var _ Classifier = (*KeywordClassifier)(nil)
