package extraction

import "regexp"

// rule is one named pattern in an ordered rule list. Keeping the rules as
// data makes the per-field priority explicit instead of burying it in
// control flow.
type rule struct {
	name string
	re   *regexp.Regexp
}

// amountRules match monetary candidates anywhere in the raw text. Every rule
// is applied and all matches are pooled before range filtering; the order
// here only documents match precedence.
var amountRules = []rule{
	{"labeled-total", regexp.MustCompile(`(?i)\b(?:total|amount|sum|price|cost)\b[:\s]*\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)},
	{"dollar-prefixed", regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)},
	{"two-decimal", regexp.MustCompile(`\b([0-9][0-9,]*\.[0-9]{2})\b`)},
}

// dateRules are tried in strict priority order: the first rule that matches
// anywhere in the text wins outright, and its first match in text order is
// the result.
var dateRules = []rule{
	{"day-first-numeric", regexp.MustCompile(`\b[0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4}\b`)},
	{"year-first-numeric", regexp.MustCompile(`\b[0-9]{4}[/-][0-9]{1,2}[/-][0-9]{1,2}\b`)},
	{"month-name", regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+[0-9]{1,2},?\s+[0-9]{4}\b`)},
}

// invoiceNumberRules are tried in order, first match wins.
var invoiceNumberRules = []rule{
	{"invoice-label", regexp.MustCompile(`(?i)invoice\s*#?[:\s]*([A-Za-z0-9-]+)`)},
	{"inv-label", regexp.MustCompile(`(?i)\binv\s*#?[:\s]*([A-Za-z0-9-]+)`)},
	{"bare-hash", regexp.MustCompile(`#([A-Za-z0-9-]{4,})`)},
}

// Vendor lines are skipped when they look like a street address or a phone
// number rather than a business name.
var (
	addressLinePattern = regexp.MustCompile(`^[0-9]+\s`)
	phonePattern       = regexp.MustCompile(`[0-9]{3}-[0-9]{3}-[0-9]{4}`)
)

var vendorKeywords = []string{"vendor", "company", "business", "corp", "inc", "llc", "ltd"}

var descriptionKeywords = []string{"part", "product", "item", "service", "repair", "maintenance", "component"}
