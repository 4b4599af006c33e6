package models

// Template describes a kind of workflow a user can start.
type Template struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	EstimatedTime string   `json:"estimated_time"`
	Documents     []string `json:"documents"`
	Integrations  []string `json:"integrations"`
}

// Templates is the built-in catalog, in display order.
var Templates = []Template{
	{
		ID:            "incorporation",
		Name:          "Delaware C-Corp Formation",
		Description:   "Form a Delaware C-Corporation with assisted document generation",
		EstimatedTime: "15 min",
		Documents:     []string{"Certificate of Incorporation", "Bylaws", "Stock Purchase Agreement"},
		Integrations:  []string{"docusign", "stripe"},
	},
	{
		ID:            "employee-agreement",
		Name:          "Employee Agreement",
		Description:   "Generate compliant employment agreements with equity provisions",
		EstimatedTime: "10 min",
		Documents:     []string{"Employment Agreement", "Proprietary Information Agreement"},
		Integrations:  []string{"docusign"},
	},
	{
		ID:            "custom-doc",
		Name:          "Custom Document",
		Description:   "Upload any legal document and complete it field by field",
		EstimatedTime: "5-20 min",
		Documents:     []string{"Your uploaded document"},
		Integrations:  []string{},
	},
}

// TemplateByID looks up a catalog entry.
func TemplateByID(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
