// Package render substitutes collected field values back into the original
// document text.
package render

import (
	"path/filepath"
	"sort"
	"strings"

	"lexflow/backend/internal/extraction"
	"lexflow/backend/pkg/models"
)

// Conflict records two placeholders that cannot both be replaced as
// written: either one name contains the other, or their occurrences overlap
// in the text. Overlaps resolve in favour of the longer occurrence.
type Conflict struct {
	Placeholder string `json:"placeholder"`
	ContainedIn string `json:"contained_in"`
}

// Output is a rendered document.
type Output struct {
	Text      string     `json:"text"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// Render replaces every occurrence of each filled field's placeholder with
// its value in a single pass over text, so inserted values are never
// rewritten. Occurrences are those found by extraction.Spans, which makes
// padded ([ Name ]) and anonymous ([ ], ____) placeholders fillable. Values
// are inserted literally. Fields without a value are left untouched, so
// rendering an unfilled field list returns text unchanged.
func Render(text string, fields []models.Field) Output {
	values := make(map[string]string, len(fields))
	named := make([]models.Field, 0, len(fields))
	for _, f := range fields {
		if !f.Filled() {
			continue
		}
		values[f.Placeholder] = f.Value
		if !f.Anonymous {
			named = append(named, f)
		}
	}

	var out Output
	out.Conflicts = findConflicts(named)

	var candidates []extraction.Span
	for _, sp := range extraction.Spans(text) {
		if _, ok := values[sp.Token.Text]; ok {
			candidates = append(candidates, sp)
		}
	}

	picked, overlaps := pickSpans(candidates)
	out.Conflicts = appendUnique(out.Conflicts, overlaps...)

	var b strings.Builder
	last := 0
	for _, sp := range picked {
		b.WriteString(text[last:sp.Start])
		b.WriteString(values[sp.Token.Text])
		last = sp.End
	}
	b.WriteString(text[last:])
	out.Text = b.String()
	return out
}

// pickSpans keeps the longest occurrences that do not overlap, in text
// order, and reports each dropped one against the occurrence it lost to.
func pickSpans(spans []extraction.Span) ([]extraction.Span, []Conflict) {
	sort.SliceStable(spans, func(i, j int) bool {
		li, lj := spans[i].End-spans[i].Start, spans[j].End-spans[j].Start
		if li != lj {
			return li > lj
		}
		return spans[i].Start < spans[j].Start
	})

	var picked []extraction.Span
	var conflicts []Conflict
	for _, sp := range spans {
		if winner, ok := overlapping(picked, sp); ok {
			if winner.Token.Text != sp.Token.Text {
				conflicts = appendUnique(conflicts, Conflict{Placeholder: sp.Token.Text, ContainedIn: winner.Token.Text})
			}
			continue
		}
		picked = append(picked, sp)
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].Start < picked[j].Start })
	return picked, conflicts
}

func overlapping(picked []extraction.Span, sp extraction.Span) (extraction.Span, bool) {
	for _, p := range picked {
		if sp.Start < p.End && p.Start < sp.End {
			return p, true
		}
	}
	return extraction.Span{}, false
}

func appendUnique(conflicts []Conflict, more ...Conflict) []Conflict {
	for _, c := range more {
		dup := false
		for _, have := range conflicts {
			if have == c {
				dup = true
				break
			}
		}
		if !dup {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

func findConflicts(fields []models.Field) []Conflict {
	var conflicts []Conflict
	for i, a := range fields {
		for j, b := range fields {
			if i == j || a.Placeholder == b.Placeholder {
				continue
			}
			if strings.Contains(b.Placeholder, a.Placeholder) {
				conflicts = append(conflicts, Conflict{Placeholder: a.Placeholder, ContainedIn: b.Placeholder})
			}
		}
	}
	return conflicts
}

// CompletedFilename derives the download name for a rendered document.
func CompletedFilename(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == "/" {
		base = ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "document"
	}
	return base + "_completed.txt"
}
