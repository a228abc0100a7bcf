// Package extraction turns raw OCR text from a scanned invoice or receipt
// into a structured candidate record suitable for pre-filling an expense
// form. It is a pure, synchronous transform: same input, same record, no
// state kept between calls.
package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Candidate amounts must be strictly between zero and this ceiling; anything
// outside the range is discarded silently.
var amountCeiling = decimal.NewFromInt(100000)

// vendorScanLines bounds how deep the vendor detector looks. Business names
// sit at the top of a receipt; anything further down is noise.
const vendorScanLines = 5

// Extract runs the full pipeline over rawText. confidencePct is the
// recognition confidence reported by the OCR engine as a percentage in
// [0,100]. Malformed or empty input never fails; at worst every optional
// field is left unset.
func Extract(rawText string, confidencePct float64) Record {
	lines := SplitLines(rawText)

	rec := Record{
		VendorName:      detectVendor(lines),
		PartDescription: detectDescription(lines),
		InvoiceNumber:   extractInvoiceNumber(rawText),
		Date:            extractDate(rawText),
		ConfidenceScore: confidencePct / 100,
	}
	if amount, ok := extractAmount(rawText); ok {
		rec.TotalAmount = amount
		rec.HasAmount = true
	}
	return rec
}

// SplitLines splits raw OCR text into trimmed, non-empty lines, preserving
// the original order. Empty input yields an empty slice.
func SplitLines(rawText string) []string {
	var lines []string
	for _, piece := range strings.Split(rawText, "\n") {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// extractAmount pools the candidates from every amount rule, drops those
// outside (0, 100000), and picks the maximum survivor. Receipts usually
// print several figures (unit price, subtotal, tax, total); the largest
// validated one is most often the grand total. That is a heuristic, not a
// guarantee.
func extractAmount(text string) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, r := range amountRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			v, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
			if err != nil {
				continue
			}
			if !v.IsPositive() || v.GreaterThanOrEqual(amountCeiling) {
				continue
			}
			if !found || v.GreaterThan(best) {
				best = v
				found = true
			}
		}
	}
	return best, found
}

// extractDate returns the first match of the first date rule that matches at
// all. The matched substring is returned verbatim; no calendar parsing.
func extractDate(text string) string {
	for _, r := range dateRules {
		if m := r.re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// extractInvoiceNumber tries the invoice-number rules in order and returns
// the first capture, uppercased.
func extractInvoiceNumber(text string) string {
	for _, r := range invoiceNumberRules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}

// detectVendor guesses the issuing business from the first few lines. The
// first qualifying line is the default; any later qualifying line within the
// window that carries a vendor keyword overwrites it, so the last
// keyword-bearing line wins. That overwrite behavior is observable in
// production output and is pinned by a regression test; do not change it
// without product sign-off.
func detectVendor(lines []string) string {
	limit := len(lines)
	if limit > vendorScanLines {
		limit = vendorScanLines
	}

	var vendor string
	for _, line := range lines[:limit] {
		if len(line) <= 2 || addressLinePattern.MatchString(line) || phonePattern.MatchString(line) {
			continue
		}
		if vendor == "" {
			vendor = line
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range vendorKeywords {
			if strings.Contains(lower, kw) {
				vendor = line
				break
			}
		}
	}
	return vendor
}

// detectDescription returns the first line, anywhere in the document, that
// mentions a part or service keyword.
func detectDescription(lines []string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range descriptionKeywords {
			if strings.Contains(lower, kw) {
				return line
			}
		}
	}
	return ""
}
