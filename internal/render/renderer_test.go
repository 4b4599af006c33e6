package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexflow/backend/internal/extraction"
	"lexflow/backend/pkg/models"
)

func named(placeholder, value string) models.Field {
	return models.Field{Placeholder: placeholder, Value: value}
}

func anonymous(placeholder, value string) models.Field {
	return models.Field{Placeholder: placeholder, Value: value, Anonymous: true}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		fields []models.Field
		want   string
	}{
		{
			name:   "all syntaxes replaced globally",
			text:   "[Company] is {Company}; signed __Company__. [Company].",
			fields: []models.Field{named("Company", "Acme, Inc.")},
			want:   "Acme, Inc. is Acme, Inc.; signed Acme, Inc.. Acme, Inc..",
		},
		{
			name:   "salary scenario",
			text:   "The Company agrees to pay Employee a salary of [salary] starting [date].",
			fields: []models.Field{named("salary", "95000"), named("date", "2024-01-01")},
			want:   "The Company agrees to pay Employee a salary of 95000 starting 2024-01-01.",
		},
		{
			name:   "regex metacharacters are literal",
			text:   "Fee: [a.b*] and [axb]",
			fields: []models.Field{named("a.b*", "$1 & $&")},
			want:   "Fee: $1 & $& and [axb]",
		},
		{
			name:   "empty values untouched",
			text:   "Hello [Name], {Date}",
			fields: []models.Field{named("Name", ""), named("Date", "")},
			want:   "Hello [Name], {Date}",
		},
		{
			name: "anonymous blanks filled by position",
			text: "Title: ____ Phone: ______ Fax: ___",
			fields: []models.Field{
				anonymous("Field_0", "CEO"),
				anonymous("Field_2", "555-0100"),
			},
			want: "Title: CEO Phone: ______ Fax: 555-0100",
		},
		{
			name:   "empty brackets filled by occurrence",
			text:   "Signed by [ ] on [Date], witness { }.",
			fields: []models.Field{anonymous("Field_0", "Jane Roe"), named("Date", "2024-01-01"), anonymous("Field_2", "John Doe")},
			want:   "Signed by Jane Roe on 2024-01-01, witness John Doe.",
		},
		{
			name:   "padded placeholders filled",
			text:   "[ Name ] then [Name]",
			fields: []models.Field{named("Name", "Ada")},
			want:   "Ada then Ada",
		},
		{
			name:   "values are not rewritten",
			text:   "Note: ____ Date: [Date]",
			fields: []models.Field{named("Date", "2024-01-01"), anonymous("Field_1", "see [Date]")},
			want:   "Note: see [Date] Date: 2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.text, tt.fields)
			if diff := cmp.Diff(tt.want, got.Text); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_IdempotentWithoutValues(t *testing.T) {
	text := "[Company] {Name} __Date__ ____"
	fields := []models.Field{named("Company", ""), named("Name", ""), named("Date", ""), anonymous("Field_3", "")}

	out := Render(text, fields)
	assert.Equal(t, text, out.Text)
	assert.Empty(t, out.Conflicts)
}

func TestRender_OverlappingPlaceholders(t *testing.T) {
	text := "[Name] works for [Company Name]."
	fields := []models.Field{named("Name", "Jane Roe"), named("Company Name", "Acme, Inc.")}

	out := Render(text, fields)
	assert.Equal(t, "Jane Roe works for Acme, Inc..", out.Text)
	assert.Equal(t, []Conflict{{Placeholder: "Name", ContainedIn: "Company Name"}}, out.Conflicts)
}

func TestRender_OverlappingOccurrences(t *testing.T) {
	// "__Name__" starts inside the blank run "___".
	text := "Sign: ___Name__"
	fields := []models.Field{named("Name", "Ada"), anonymous("Field_1", "X")}

	out := Render(text, fields)
	assert.Equal(t, "Sign: _Ada", out.Text)
	assert.Equal(t, []Conflict{{Placeholder: "Field_1", ContainedIn: "Name"}}, out.Conflicts)
}

func TestRender_ExtractedAnonymousPlaceholders(t *testing.T) {
	text := "Signed by [ ] on [Date]."
	res, err := extraction.NewExtractor(nil).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, res.Fields, 2)

	for i := range res.Fields {
		res.Fields[i].Value = "VALUE" + res.Fields[i].ID
	}
	assert.Equal(t, "Signed by VALUEfield_0 on VALUEfield_1.", Render(text, res.Fields).Text)
}

func TestCompletedFilename(t *testing.T) {
	assert.Equal(t, "offer_completed.txt", CompletedFilename("offer.docx"))
	assert.Equal(t, "Offer_completed.txt", CompletedFilename("Offer.DOCX"))
	assert.Equal(t, "notes_completed.txt", CompletedFilename("/tmp/notes.txt"))
	assert.Equal(t, "document_completed.txt", CompletedFilename(""))
	assert.Equal(t, "archive.tar_completed.txt", CompletedFilename("archive.tar.gz"))
}
