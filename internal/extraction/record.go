package extraction

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LowConfidenceThreshold is the confidence score below which callers should
// warn the user before pre-filling a form with extracted data.
const LowConfidenceThreshold = 0.7

// Record holds the fields extracted from one pass of OCR text. String fields
// are empty when nothing matched; TotalAmount is only meaningful when
// HasAmount is true.
type Record struct {
	VendorName      string
	PartDescription string
	InvoiceNumber   string
	Date            string // matched substring, kept verbatim
	TotalAmount     decimal.Decimal
	HasAmount       bool
	ConfidenceScore float64 // recognition confidence as a ratio in [0,1]
}

// LowConfidence reports whether the recognition confidence is below the
// warning threshold. It is derived from ConfidenceScore rather than stored.
func (r Record) LowConfidence() bool {
	return r.ConfidenceScore < LowConfidenceThreshold
}

// SuggestedDescription composes a human-readable line for pre-filling an
// expense form. The raw PartDescription field is left untouched.
func (r Record) SuggestedDescription() string {
	switch {
	case r.VendorName != "" && r.PartDescription != "":
		return fmt.Sprintf("Invoice from %s - %s", r.VendorName, r.PartDescription)
	case r.VendorName != "":
		return fmt.Sprintf("Invoice from %s", r.VendorName)
	default:
		return r.PartDescription
	}
}
