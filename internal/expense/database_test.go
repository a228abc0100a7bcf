package expense

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveScan", func() {
		var (
			scan *Scan
			err  error
		)

		BeforeEach(func() {
			scan = &Scan{
				ID:              "scan-1",
				Filename:        "scan-1_invoice.jpg",
				ContentType:     "image/jpeg",
				RawText:         "ABC Plumbing LLC\nTotal: $245.50",
				VendorName:      "ABC Plumbing LLC",
				TotalAmount:     24550,
				HasAmount:       true,
				ConfidenceScore: 0.912,
				CreatedAt:       time.Now(),
				UpdatedAt:       time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveScan(scan)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the scan to the database", func() {
				saved, getErr := db.GetScan("scan-1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.VendorName).To(Equal("ABC Plumbing LLC"))
				Expect(saved.TotalAmount).To(Equal(24550))
			})
		})
	})

	Describe("GetScan", func() {
		var (
			scanID string
			scan   *Scan
			err    error
		)

		JustBeforeEach(func() {
			scan, err = db.GetScan(scanID)
		})

		When("the scan exists", func() {
			BeforeEach(func() {
				scanID = "scan-1"
				Expect(db.SaveScan(&Scan{ID: "scan-1", VendorName: "Acme Supply"})).To(Succeed())
			})

			It("should return the scan", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(scan.VendorName).To(Equal("Acme Supply"))
			})
		})

		When("the scan does not exist", func() {
			BeforeEach(func() {
				scanID = "missing"
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ListScans", func() {
		When("the database is empty", func() {
			It("should return an empty slice", func() {
				scans, err := db.ListScans()
				Expect(err).NotTo(HaveOccurred())
				Expect(scans).To(BeEmpty())
			})
		})

		When("scans exist", func() {
			BeforeEach(func() {
				Expect(db.SaveScan(&Scan{ID: "scan-1"})).To(Succeed())
				Expect(db.SaveScan(&Scan{ID: "scan-2"})).To(Succeed())
			})

			It("should return all scans", func() {
				scans, err := db.ListScans()
				Expect(err).NotTo(HaveOccurred())
				Expect(scans).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteScan", func() {
		BeforeEach(func() {
			Expect(db.SaveScan(&Scan{ID: "scan-1"})).To(Succeed())
		})

		It("should remove the scan", func() {
			Expect(db.DeleteScan("scan-1")).To(Succeed())
			_, err := db.GetScan("scan-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveExpense", func() {
		var (
			expense *Expense
			err     error
		)

		BeforeEach(func() {
			expense = &Expense{
				ID:             "exp-1",
				VendorName:     "ABC Plumbing LLC",
				Description:    "Pump repair",
				Amount:         24550,
				Date:           "03/15/2024",
				ScanID:         "scan-1",
				AmountVerified: true,
				CreatedAt:      time.Now(),
				UpdatedAt:      time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveExpense(expense)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should round-trip the expense", func() {
				saved, getErr := db.GetExpense("exp-1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Amount).To(Equal(24550))
				Expect(saved.AmountVerified).To(BeTrue())
				Expect(saved.Date).To(Equal("03/15/2024"))
			})
		})
	})

	Describe("DeleteExpense", func() {
		BeforeEach(func() {
			Expect(db.SaveExpense(&Expense{ID: "exp-1", Amount: 100})).To(Succeed())
		})

		It("should remove the expense", func() {
			Expect(db.DeleteExpense("exp-1")).To(Succeed())
			_, err := db.GetExpense("exp-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListExpenses", func() {
		When("expenses exist", func() {
			BeforeEach(func() {
				Expect(db.SaveExpense(&Expense{ID: "exp-1", Amount: 100})).To(Succeed())
				Expect(db.SaveExpense(&Expense{ID: "exp-2", Amount: 200})).To(Succeed())
			})

			It("should return all expenses", func() {
				expenses, err := db.ListExpenses()
				Expect(err).NotTo(HaveOccurred())
				Expect(expenses).To(HaveLen(2))
			})
		})
	})
})
