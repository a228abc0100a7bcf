package expense

import "time"

// Scan records one OCR pass over an uploaded invoice together with the
// fields the extraction engine pulled out of it. Monetary amounts are stored
// in cents; extracted strings are kept exactly as matched.
type Scan struct {
	ID                   string    `json:"id"`
	Filename             string    `json:"filename"`
	ContentType          string    `json:"content_type"`
	RawText              string    `json:"raw_text"`
	VendorName           string    `json:"vendor_name,omitempty"`
	PartDescription      string    `json:"part_description,omitempty"`
	InvoiceNumber        string    `json:"invoice_number,omitempty"`
	Date                 string    `json:"date,omitempty"` // verbatim substring, not normalized
	TotalAmount          int       `json:"total_amount"`   // cents; meaningful only when HasAmount
	HasAmount            bool      `json:"has_amount"`
	SuggestedDescription string    `json:"suggested_description,omitempty"`
	ConfidenceScore      float64   `json:"confidence_score"`
	LowConfidence        bool      `json:"low_confidence"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Expense is a submitted expense entry, optionally backed by a scan
type Expense struct {
	ID             string    `json:"id"`
	VendorName     string    `json:"vendor_name,omitempty"`
	Description    string    `json:"description"`
	Amount         int       `json:"amount"` // Amount in cents
	Date           string    `json:"date,omitempty"`
	ScanID         string    `json:"scan_id,omitempty"` // ID of the scan backing this expense
	AmountVerified bool      `json:"amount_verified"`   // true when the amount was confirmed against the scan
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
