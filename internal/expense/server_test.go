package expense

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vendops/expense-scan/internal/scanning"
)

var _ = Describe("Server", func() {
	var (
		db         *mockDB
		storage    *mockStorage
		recognizer *mockRecognizer
		service    *Service
		server     *Server
		basicAuth  BasicAuth
		rec        *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		db = newMockDB()
		storage = newMockStorage()
		recognizer = &mockRecognizer{
			recognition: &scanning.Recognition{
				RawText:    "ABC Plumbing LLC\n123 Main St\nTotal: $245.50\nDate: 03/15/2024",
				Confidence: 91.2,
			},
		}
		service = NewServiceWithDeps(db, recognizer, storage,
			&fixedIDGenerator{id: "scan-1"},
			&fixedTimeSource{now: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)},
		)
		basicAuth = BasicAuth{}
		rec = httptest.NewRecorder()
	})

	JustBeforeEach(func() {
		server = NewServer(service, basicAuth)
	})

	newUpload := func(filename string, content []byte) *http.Request {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req := httptest.NewRequest("POST", "/api/scans", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	Describe("POST /api/scans", func() {
		It("should create a scan from the uploaded invoice", func() {
			server.ServeHTTP(rec, newUpload("invoice.jpg", []byte("image data")))

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var scan Scan
			Expect(json.Unmarshal(rec.Body.Bytes(), &scan)).To(Succeed())
			Expect(scan.ID).To(Equal("scan-1"))
			Expect(scan.VendorName).To(Equal("ABC Plumbing LLC"))
			Expect(scan.TotalAmount).To(Equal(24550))
			Expect(scan.SuggestedDescription).To(Equal("Invoice from ABC Plumbing LLC"))
		})

		When("no file is provided", func() {
			It("should return a JSON error", func() {
				req := httptest.NewRequest("POST", "/api/scans", nil)
				req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
				server.ServeHTTP(rec, req)

				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
			})
		})
	})

	Describe("GET /api/scans", func() {
		BeforeEach(func() {
			db.scans["scan-1"] = &Scan{ID: "scan-1", VendorName: "Acme Supply"}
		})

		It("should list scans", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))

			var scans []*Scan
			Expect(json.Unmarshal(rec.Body.Bytes(), &scans)).To(Succeed())
			Expect(scans).To(HaveLen(1))
		})
	})

	Describe("GET /api/scans/{id}", func() {
		BeforeEach(func() {
			db.scans["scan-1"] = &Scan{ID: "scan-1", VendorName: "Acme Supply"}
		})

		It("should return the scan", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans/scan-1", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))

			var scan Scan
			Expect(json.Unmarshal(rec.Body.Bytes(), &scan)).To(Succeed())
			Expect(scan.VendorName).To(Equal("Acme Supply"))
		})

		It("should return 404 for an unknown scan", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans/missing", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /api/scans/{id}/file", func() {
		BeforeEach(func() {
			db.scans["scan-1"] = &Scan{ID: "scan-1", Filename: "scan-1_invoice.jpg", ContentType: "image/jpeg"}
			storage.files["scan-1_invoice.jpg"] = []byte("image data")
		})

		It("should return the stored file", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans/scan-1/file", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("image/jpeg"))
			Expect(rec.Body.Bytes()).To(Equal([]byte("image data")))
		})
	})

	Describe("DELETE /api/scans/{id}", func() {
		BeforeEach(func() {
			db.scans["scan-1"] = &Scan{ID: "scan-1", Filename: "scan-1_invoice.jpg"}
		})

		It("should delete the scan", func() {
			server.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/scans/scan-1", nil))

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(db.scans).To(BeEmpty())
		})
	})

	Describe("POST /api/expenses", func() {
		BeforeEach(func() {
			db.scans["scan-1"] = &Scan{
				ID:              "scan-1",
				TotalAmount:     24550,
				HasAmount:       true,
				ConfidenceScore: 0.912,
			}
		})

		It("should create an expense reconciled against the scan", func() {
			body, _ := json.Marshal(ExpenseInput{
				Description: "Pump repair",
				Amount:      24500,
				ScanID:      "scan-1",
			})
			req := httptest.NewRequest("POST", "/api/expenses", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var expense Expense
			Expect(json.Unmarshal(rec.Body.Bytes(), &expense)).To(Succeed())
			Expect(expense.Amount).To(Equal(24550))
			Expect(expense.AmountVerified).To(BeTrue())
		})

		It("should reject an invalid body", func() {
			req := httptest.NewRequest("POST", "/api/expenses", bytes.NewReader([]byte("not json")))
			server.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /api/expenses", func() {
		It("should return an empty array when there are no expenses", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/expenses", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON("[]"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			basicAuth = BasicAuth{Username: "admin", Password: "secret"}
		})

		It("should reject requests without credentials", func() {
			server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
		})

		It("should reject wrong credentials", func() {
			req := httptest.NewRequest("GET", "/api/scans", nil)
			req.SetBasicAuth("admin", "wrong")
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should accept correct credentials", func() {
			req := httptest.NewRequest("GET", "/api/scans", nil)
			req.SetBasicAuth("admin", "secret")
			server.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})
