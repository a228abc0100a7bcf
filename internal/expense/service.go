package expense

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendops/expense-scan/internal/extraction"
	"github.com/vendops/expense-scan/internal/scanning"
)

// amountMatchTolerance is how far, in cents, a claimed amount may sit from
// the extracted total and still be adopted as verified.
const amountMatchTolerance = 100

// IDGenerator generates unique IDs for scans and expenses
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice scanning and expense operations
type Service struct {
	db          DB
	recognizer  scanning.Recognizer
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, recognizer scanning.Recognizer, storage Storage) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		storage:     storage,
		idGenerator: &uuidGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, recognizer scanning.Recognizer, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	// Collapse whitespace runs
	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	// Phone cameras generate very long names; truncate the base
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "invoice"
	}

	return base + ext
}

// toCents converts a decimal dollar amount to integer cents
func toCents(d decimal.Decimal) int {
	return int(d.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// ProcessInvoice stores an uploaded invoice, runs it through the OCR
// recognizer and the extraction engine, and persists the resulting scan.
func (s *Service) ProcessInvoice(filename string, data []byte, contentType string) (*Scan, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	recognition, err := s.recognizer.Recognize(data, contentType)
	if err != nil {
		slog.Error("Failed to recognize invoice",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved file since recognition failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("recognizing invoice: %w", err)
	}

	record := extraction.Extract(recognition.RawText, recognition.Confidence)

	scan := &Scan{
		ID:                   id,
		Filename:             savedPath,
		ContentType:          contentType,
		RawText:              recognition.RawText,
		VendorName:           record.VendorName,
		PartDescription:      record.PartDescription,
		InvoiceNumber:        record.InvoiceNumber,
		Date:                 record.Date,
		HasAmount:            record.HasAmount,
		SuggestedDescription: record.SuggestedDescription(),
		ConfidenceScore:      record.ConfidenceScore,
		LowConfidence:        record.LowConfidence(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if record.HasAmount {
		scan.TotalAmount = toCents(record.TotalAmount)
	}

	if err := s.db.SaveScan(scan); err != nil {
		// Clean up file if database save fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving scan to database: %w", err)
	}

	return scan, nil
}

// ExpenseInput carries a submitted expense entry
type ExpenseInput struct {
	VendorName  string `json:"vendor_name"`
	Description string `json:"description"`
	Amount      int    `json:"amount"` // cents
	Date        string `json:"date"`
	ScanID      string `json:"scan_id"`
}

// SubmitExpense persists an expense entry. When the entry references a scan
// whose recognition confidence is above the warning threshold, the extracted
// total replaces the claimed amount if the two are within a dollar of each
// other, and empty fields are filled from the scan.
func (s *Service) SubmitExpense(input ExpenseInput) (*Expense, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	now := s.timeSource.Now()

	expense := &Expense{
		ID:          s.idGenerator.Generate(),
		VendorName:  input.VendorName,
		Description: input.Description,
		Amount:      input.Amount,
		Date:        input.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.ScanID != "" {
		scan, err := s.db.GetScan(input.ScanID)
		if err != nil {
			return nil, fmt.Errorf("getting scan %s: %w", input.ScanID, err)
		}
		expense.ScanID = scan.ID

		if scan.ConfidenceScore > extraction.LowConfidenceThreshold && scan.HasAmount {
			diff := scan.TotalAmount - expense.Amount
			if diff >= -amountMatchTolerance && diff <= amountMatchTolerance {
				expense.Amount = scan.TotalAmount
				expense.AmountVerified = true
			}
		}
		if expense.VendorName == "" {
			expense.VendorName = scan.VendorName
		}
		if expense.Description == "" {
			expense.Description = scan.SuggestedDescription
		}
		if expense.Date == "" {
			expense.Date = scan.Date
		}
	}

	if err := s.db.SaveExpense(expense); err != nil {
		return nil, fmt.Errorf("saving expense to database: %w", err)
	}

	return expense, nil
}

// GetScan retrieves a scan by ID
func (s *Service) GetScan(id string) (*Scan, error) {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return nil, fmt.Errorf("getting scan: %w", err)
	}
	return scan, nil
}

// ListScans returns all scans
func (s *Service) ListScans() ([]*Scan, error) {
	scans, err := s.db.ListScans()
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return scans, nil
}

// DeleteScan removes a scan and its stored file
func (s *Service) DeleteScan(id string) error {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return fmt.Errorf("getting scan for deletion: %w", err)
	}

	if err := s.storage.Delete(scan.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", scan.Filename, "error", err)
	}

	if err := s.db.DeleteScan(id); err != nil {
		return fmt.Errorf("deleting scan from database: %w", err)
	}
	return nil
}

// GetScanFile retrieves the stored file for a scan
func (s *Service) GetScanFile(id string) ([]byte, string, error) {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan: %w", err)
	}

	data, err := s.storage.Get(scan.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan file: %w", err)
	}

	return data, scan.ContentType, nil
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns all expenses
func (s *Service) ListExpenses() ([]*Expense, error) {
	expenses, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense
func (s *Service) DeleteExpense(id string) error {
	if _, err := s.db.GetExpense(id); err != nil {
		return fmt.Errorf("getting expense for deletion: %w", err)
	}
	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense from database: %w", err)
	}
	return nil
}
