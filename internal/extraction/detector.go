package extraction

import "strings"

type detectRule struct {
	keywords []string
	result   string
}

var documentTypeRules = []detectRule{
	{keywords: []string{"incorporation", "certificate"}, result: "Certificate of Incorporation"},
	{keywords: []string{"employment", "employee"}, result: "Employment Agreement"},
	{keywords: []string{"nda", "confidential"}, result: "Non-Disclosure Agreement"},
}

var jurisdictionRules = []detectRule{
	{keywords: []string{"delaware"}, result: "Delaware"},
	{keywords: []string{"california"}, result: "California"},
	{keywords: []string{"new york"}, result: "New York"},
}

// DetectDocumentType classifies a whole document by keyword. Matching is plain
// substring containment, so "nda" also matches words such as "calendar".
func DetectDocumentType(text string) string {
	return detect(text, documentTypeRules, "Legal Document")
}

// DetectJurisdiction names the first governing state mentioned in text.
func DetectJurisdiction(text string) string {
	return detect(text, jurisdictionRules, "Not specified")
}

func detect(text string, rules []detectRule, fallback string) string {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.result
			}
		}
	}
	return fallback
}
