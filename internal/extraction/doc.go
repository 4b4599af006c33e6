// Package extraction finds placeholder tokens in raw document text and turns
// them into classified fields.
//
// The pipeline is deterministic: four independent bracket scans produce the
// token set, an ordered keyword table classifies each token, and a bounded
// snippet of surrounding text is attached for review. A remote classifier can
// replace the keyword table through the Classifier interface without changing
// the fields downstream consumers see.
package extraction
