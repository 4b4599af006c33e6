package extraction

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"lexflow/backend/pkg/models"
)

// Analysis summarizes a whole document.
type Analysis struct {
	DocumentType string `json:"document_type"`
	Jurisdiction string `json:"jurisdiction"`
	FieldCount   int    `json:"field_count"`
}

// Result is the outcome of extracting one document.
type Result struct {
	Fields   []models.Field `json:"fields"`
	Analysis Analysis       `json:"analysis"`
}

// Extractor runs scan, classification and document detection.
type Extractor struct {
	classifier Classifier
}

// NewExtractor creates an extractor. A nil classifier selects the keyword table.
func NewExtractor(classifier Classifier) *Extractor {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &Extractor{classifier: classifier}
}

// Extract classifies every placeholder of text. Empty documents and input
// that is not valid UTF-8 text produce zero fields rather than an error.
// A cancelled context aborts the run and no partial result is returned.
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	res := &Result{
		Fields: []models.Field{},
		Analysis: Analysis{
			DocumentType: DetectDocumentType(text),
			Jurisdiction: DetectJurisdiction(text),
		},
	}
	if !utf8.ValidString(text) {
		res.Analysis = Analysis{DocumentType: DetectDocumentType(""), Jurisdiction: DetectJurisdiction("")}
		return res, nil
	}
	if strings.TrimSpace(text) == "" {
		return res, nil
	}

	for i, tok := range Scan(text) {
		field, err := e.classifier.Classify(ctx, tok.Text, text)
		if err != nil {
			return nil, fmt.Errorf("classify %q: %w", tok.Text, err)
		}
		if !field.Type.Valid() {
			field.Type = models.FieldTypeText
		}
		field.ID = fmt.Sprintf("field_%d", i)
		field.Placeholder = tok.Text
		field.Value = ""
		field.Anonymous = tok.Anonymous
		res.Fields = append(res.Fields, field)
	}
	res.Analysis.FieldCount = len(res.Fields)
	return res, nil
}
