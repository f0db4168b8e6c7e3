// Package ledger defines the canonical transaction model produced by the
// statement parsers and consumed by classification, recurrence detection and
// the aggregate views.
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date format used everywhere a date is
// rendered as a string.
const DateLayout = "2006-01-02"

// Transaction is a single statement entry. Created once by a format parser
// with Category Unknown and zero confidence; categorized exactly once by the
// classification cascade; touched again only by user-correction propagation.
type Transaction struct {
	ID       uuid.UUID
	Date     time.Time // date-only, midnight UTC
	Amount   decimal.Decimal
	Currency string

	RawDescription string // description as extracted from the source
	Merchant       string // canonical merchant display name

	Category    Category
	Subcategory string
	Confidence  float64
	Notes       string

	MerchantCategoryCode string
	OriginalDescription  string
	SourceFile           string
}

// NewTransaction builds a transaction in its initial, unclassified state.
func NewTransaction(date time.Time, amount decimal.Decimal, currency, rawDescription, merchant string) Transaction {
	return Transaction{
		ID:             uuid.New(),
		Date:           Midnight(date),
		Amount:         amount,
		Currency:       currency,
		RawDescription: rawDescription,
		Merchant:       merchant,
		Category:       CategoryUnknown,
	}
}

// Midnight truncates t to a date-only value in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateString returns the canonical YYYY-MM-DD form of the transaction date.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction is an inflow.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// StatementMetadata carries optional file-level details.
type StatementMetadata struct {
	AccountRef      string // redacted account identifier, e.g. "****1234"
	Bank            string // detected bank name, lowercase, empty if unknown
	PageCount       int
	PeriodStart     time.Time
	PeriodEnd       time.Time
	DefaultCurrency string
}

// ParsedStatement is the result of parsing one input file.
type ParsedStatement struct {
	Filename     string
	Transactions []Transaction
	Metadata     *StatementMetadata
}

// dedupKey identifies a transaction for cross-statement de-duplication.
type dedupKey struct {
	date     string
	amount   string
	merchant string
}

func keyOf(t Transaction) dedupKey {
	return dedupKey{date: t.DateString(), amount: t.Amount.String(), merchant: t.Merchant}
}

// Merge combines statements into one. Transactions are concatenated, sorted
// ascending by date, and de-duplicated by (date, amount, canonical merchant)
// with the first occurrence winning. The sort is stable so same-date entries
// keep their source order.
func Merge(statements ...ParsedStatement) ParsedStatement {
	var all []Transaction
	names := ""
	for _, s := range statements {
		all = append(all, s.Transactions...)
		if names == "" {
			names = s.Filename
		} else {
			names += "+" + s.Filename
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})

	seen := make(map[dedupKey]bool, len(all))
	out := all[:0]
	for _, t := range all {
		k := keyOf(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}

	return ParsedStatement{Filename: names, Transactions: out}
}

// ValidationIssue is one non-fatal finding from the validation pass.
type ValidationIssue struct {
	Type         string
	AffectedRows int
	SampleValue  string
	Suggestion   string
}

// ValidationReport is informational only; it never blocks returning a result.
type ValidationReport struct {
	Issues []ValidationIssue
}

// OK reports whether the pass found nothing worth flagging.
func (r ValidationReport) OK() bool { return len(r.Issues) == 0 }

// Validate runs the non-fatal validation pass over a parsed statement,
// flagging zero transactions, missing dates, zero amounts, and missing
// merchant/description fields.
func Validate(s ParsedStatement) ValidationReport {
	var report ValidationReport

	if len(s.Transactions) == 0 {
		report.Issues = append(report.Issues, ValidationIssue{
			Type:       "no_transactions",
			Suggestion: "check that the file is a bank statement in a supported format",
		})
		return report
	}

	var missingDates, zeroAmounts, missingMerchants int
	var dateSample, merchantSample string
	for _, t := range s.Transactions {
		if t.Date.IsZero() {
			missingDates++
			dateSample = t.RawDescription
		}
		if t.Amount.IsZero() {
			zeroAmounts++
		}
		if t.Merchant == "" && t.RawDescription == "" {
			missingMerchants++
			merchantSample = t.DateString()
		}
	}

	if missingDates > 0 {
		report.Issues = append(report.Issues, ValidationIssue{
			Type:         "missing_dates",
			AffectedRows: missingDates,
			SampleValue:  dateSample,
			Suggestion:   "rows without a parseable date should have been dropped upstream",
		})
	}
	if zeroAmounts > 0 {
		report.Issues = append(report.Issues, ValidationIssue{
			Type:         "zero_amounts",
			AffectedRows: zeroAmounts,
			Suggestion:   "zero-amount rows are normally dropped at parse time",
		})
	}
	if missingMerchants > 0 {
		report.Issues = append(report.Issues, ValidationIssue{
			Type:         "missing_merchant",
			AffectedRows: missingMerchants,
			SampleValue:  merchantSample,
			Suggestion:   "description column may be mapped incorrectly",
		})
	}

	return report
}
