package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTexts(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Text)
	}
	return out
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "bracket and brace",
			text: "Hello [Name], your start date is {Date}.",
			want: []string{"Name", "Date"},
		},
		{
			name: "double underscore",
			text: "Signed by __Signer__ on __Day__.",
			want: []string{"Signer", "Day"},
		},
		{
			name: "duplicates across syntaxes collapse",
			text: "[Company] and {Company} and __Company__",
			want: []string{"Company"},
		},
		{
			name: "tokens are trimmed",
			text: "[ Name ] then [Name]",
			want: []string{"Name"},
		},
		{
			name: "anonymous blanks count earlier tokens",
			text: "Name: [Name]  Title: ______  Phone: ___",
			want: []string{"Name", "Field_1", "Field_2"},
		},
		{
			name: "whitespace-only token gets a synthetic name",
			text: "[   ] and [Salary]",
			want: []string{"Field_0", "Salary"},
		},
		{
			name: "no placeholders",
			text: "Plain text with __ two underscores only.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, tokenTexts(got))
		})
	}
}

func TestScan_AnonymousTokens(t *testing.T) {
	tokens := Scan("A ____ B [X] C _____")

	assert.Equal(t, []string{"X", "Field_1", "Field_2"}, tokenTexts(tokens))
	assert.False(t, tokens[0].Anonymous)
	assert.True(t, tokens[1].Anonymous)
	assert.True(t, tokens[2].Anonymous)
}

func TestScan_SyntheticNamesAvoidNamedTokens(t *testing.T) {
	assert.Equal(t, []string{"Field_1", "Field_2"}, tokenTexts(Scan("[Field_1] ___")))
	// A later named token still wins its own name.
	assert.Equal(t, []string{"Field_1", "Field_0"}, tokenTexts(Scan("[ ] {Field_0}")))
	assert.Equal(t, []string{"Field_0", "Field_1", "Field_2"}, tokenTexts(Scan("[ ] { } ___")))
}

func TestSpans(t *testing.T) {
	text := "Signed by [ ] on [Date], witness [ ] and [ Date ]."
	spans := Spans(text)
	require.Len(t, spans, 4)

	got := make([]string, 0, len(spans))
	for _, s := range spans {
		got = append(got, text[s.Start:s.End]+"="+s.Token.Text)
	}
	assert.Equal(t, []string{"[ ]=Field_0", "[Date]=Date", "[ ]=Field_2", "[ Date ]=Date"}, got)
	assert.Equal(t, []string{"Field_0", "Date", "Field_2"}, tokenTexts(Scan(text)))
}
