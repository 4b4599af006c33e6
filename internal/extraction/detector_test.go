package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDocumentType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"CERTIFICATE OF INCORPORATION of Acme", "Certificate of Incorporation"},
		{"This Employment Agreement is made", "Employment Agreement"},
		{"Employee shall keep all information confidential", "Employment Agreement"},
		{"Mutual NDA between the parties", "Non-Disclosure Agreement"},
		{"A lease for the premises", "Legal Document"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDocumentType(tt.text), tt.text)
	}
}

func TestDetectJurisdiction(t *testing.T) {
	assert.Equal(t, "Delaware", DetectJurisdiction("laws of the State of Delaware and California"))
	assert.Equal(t, "California", DetectJurisdiction("governed by California law"))
	assert.Equal(t, "New York", DetectJurisdiction("courts of New York County"))
	assert.Equal(t, "Not specified", DetectJurisdiction("no state named"))
}
