package extraction

import (
	"fmt"
	"regexp"
	"strings"
)

// Token is one distinct placeholder found in a document.
type Token struct {
	Text string
	// Anonymous tokens carry a synthetic Field_<n> name.
	Anonymous bool
}

// Span is one placeholder occurrence. Start and End are byte offsets of the
// whole match, delimiters included.
type Span struct {
	Start int
	End   int
	Token Token
}

type scanPattern struct {
	name  string
	regex *regexp.Regexp
}

// Scan order matters: synthetic names count every token found before them.
var scanPatterns = []scanPattern{
	{name: "bracket", regex: regexp.MustCompile(`\[([^\]]+)\]`)},
	{name: "brace", regex: regexp.MustCompile(`\{([^}]+)\}`)},
	{name: "underscore", regex: regexp.MustCompile(`__([^_]+)__`)},
	{name: "blank", regex: blankPattern},
}

// blankPattern matches an anonymous fill-in blank.
var blankPattern = regexp.MustCompile(`_{3,}`)

type rawMatch struct {
	start, end int
	text       string
}

// Spans returns every placeholder occurrence of text in scan order. Each
// anonymous occurrence gets its own synthetic name, never one that a named
// placeholder of text already uses. Scanning the same text twice yields the
// same names, which is what lets the renderer find anonymous placeholders
// again.
func Spans(text string) []Span {
	var raw []rawMatch
	reserved := make(map[string]struct{})
	for _, p := range scanPatterns {
		for _, m := range p.regex.FindAllStringSubmatchIndex(text, -1) {
			rm := rawMatch{start: m[0], end: m[1]}
			if len(m) > 2 {
				rm.text = strings.TrimSpace(text[m[2]:m[3]])
			}
			if rm.text != "" {
				reserved[rm.text] = struct{}{}
			}
			raw = append(raw, rm)
		}
	}

	spans := make([]Span, 0, len(raw))
	seen := make(map[string]struct{})
	for _, rm := range raw {
		tok := Token{Text: rm.text}
		if tok.Text == "" {
			tok.Text = syntheticName(len(seen), seen, reserved)
			tok.Anonymous = true
		}
		seen[tok.Text] = struct{}{}
		spans = append(spans, Span{Start: rm.start, End: rm.end, Token: tok})
	}
	return spans
}

// syntheticName returns Field_<n> for the first n from distinct on that is
// not taken.
func syntheticName(distinct int, seen, reserved map[string]struct{}) string {
	for n := distinct; ; n++ {
		name := fmt.Sprintf("Field_%d", n)
		if _, ok := seen[name]; ok {
			continue
		}
		if _, ok := reserved[name]; ok {
			continue
		}
		return name
	}
}

// Scan returns the distinct placeholder tokens of text in order of discovery.
func Scan(text string) []Token {
	var tokens []Token
	seen := make(map[string]struct{})
	for _, s := range Spans(text) {
		if _, dup := seen[s.Token.Text]; dup {
			continue
		}
		seen[s.Token.Text] = struct{}{}
		tokens = append(tokens, s.Token)
	}
	return tokens
}
