// Package parser turns raw statement records into provisional transactions.
// It covers delimited text (CSV/TSV), .xlsx workbooks, and rendered-document
// text via the page model in pdf.go.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/clearspend/statement-core/internal/domain/importer/normalizer"
	"github.com/clearspend/statement-core/internal/domain/importer/sniffer"
	"github.com/clearspend/statement-core/internal/domain/ledger"
	"github.com/clearspend/statement-core/pkg/money"
)

// ErrNoDateColumn is fatal for a delimited file: without a date column every
// row would be dropped.
var ErrNoDateColumn = errors.New("no date column recognized in header row")

// Diagnostic is one structured parse event. Record-level failures are
// reported here and never abort the file.
type Diagnostic struct {
	Level   string // "warn" or "info"
	Code    string // machine-readable event kind, e.g. "row_dropped"
	Message string
	Line    int
	File    string
}

// DiagnosticSink receives parse diagnostics. Implementations must be safe for
// use from a single parse at a time; parses never share a sink concurrently.
type DiagnosticSink interface {
	Emit(d Diagnostic)
}

// NopSink discards diagnostics.
type NopSink struct{}

func (NopSink) Emit(Diagnostic) {}

// Options configures a parse.
type Options struct {
	DefaultCurrency string
	Sink            DiagnosticSink
	Now             func() time.Time // injectable clock for date-year inference
}

func (o *Options) fill() {
	if o.DefaultCurrency == "" {
		o.DefaultCurrency = money.GBP
	}
	if o.Sink == nil {
		o.Sink = NopSink{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// DelimitedParser parses header-first delimited statement exports.
type DelimitedParser struct {
	resolver *normalizer.Resolver
	opts     Options
}

// NewDelimitedParser creates a delimited parser bound to a merchant resolver.
func NewDelimitedParser(resolver *normalizer.Resolver, opts Options) *DelimitedParser {
	opts.fill()
	return &DelimitedParser{resolver: resolver, opts: opts}
}

// canonicalRow is the gocsv fast path for files whose headers already use the
// common English column names. Files with other headers go through the
// inferred column mapping instead.
type canonicalRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Debit       string `csv:"debit"`
	Credit      string `csv:"credit"`
	Currency    string `csv:"currency"`
	Balance     string `csv:"balance"`
}

var canonicalHeaders = map[string]bool{
	"date": true, "description": true, "amount": true,
	"debit": true, "credit": true, "currency": true, "balance": true,
}

// Parse turns a delimited file into a ParsedStatement. A malformed row is
// dropped with a diagnostic; only an undetectable structure fails the file.
func (p *DelimitedParser) Parse(filename string, data []byte) (ledger.ParsedStatement, error) {
	headers, records, err := sniffer.SplitRecords(data)
	if err != nil {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, err)
	}

	if rows, ok := p.tryCanonical(headers, data); ok {
		return p.buildFromCanonical(filename, rows)
	}

	mapping := sniffer.InferColumns(headers)
	if mapping.DateCol < 0 {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, ErrNoDateColumn)
	}

	european := sniffer.ProbeEuropeanFormat(records, mapping)
	stmt := ledger.ParsedStatement{Filename: filename}

	for i, rec := range records {
		line := i + 2 // 1-based, after header
		tx, ok := p.buildRow(filename, line, rec, mapping, european)
		if ok {
			tx.SourceFile = filename
			stmt.Transactions = append(stmt.Transactions, tx)
		}
	}

	return stmt, nil
}

func init() {
	// Statement exports capitalize headers freely; match tags on the
	// lowered form.
	gocsv.SetHeaderNormalizer(strings.ToLower)
}

// tryCanonical unmarshals via gocsv when every header is one of the canonical
// names. Returns ok=false to fall back to inferred mapping.
func (p *DelimitedParser) tryCanonical(headers []string, data []byte) ([]canonicalRow, bool) {
	for _, h := range headers {
		if !canonicalHeaders[strings.ToLower(strings.TrimSpace(h))] {
			return nil, false
		}
	}

	text := strings.TrimPrefix(string(data), "\uFEFF")
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffer.DetectDelimiter(firstLine)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []canonicalRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (p *DelimitedParser) buildFromCanonical(filename string, rows []canonicalRow) (ledger.ParsedStatement, error) {
	stmt := ledger.ParsedStatement{Filename: filename}
	for i, row := range rows {
		line := i + 2
		rec := record{
			date:     row.Date,
			desc:     row.Description,
			amount:   row.Amount,
			debit:    row.Debit,
			credit:   row.Credit,
			currency: row.Currency,
		}
		tx, ok := p.buildRecord(filename, line, rec, false)
		if ok {
			tx.SourceFile = filename
			stmt.Transactions = append(stmt.Transactions, tx)
		}
	}
	return stmt, nil
}

// record is one data row with role-resolved cells.
type record struct {
	date, desc, amount, debit, credit, currency string
}

func (p *DelimitedParser) buildRow(filename string, line int, rec []string, m sniffer.ColumnMapping, european bool) (ledger.Transaction, bool) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}
	r := record{
		date:     cell(m.DateCol),
		desc:     cell(m.DescCol),
		currency: cell(m.CurrencyCol),
	}
	if m.IsDoubleEntry() {
		r.debit = cell(m.DebitCol)
		r.credit = cell(m.CreditCol)
	} else {
		r.amount = cell(m.AmountCol)
	}
	return p.buildRecord(filename, line, r, european)
}

// buildRecord applies the shared per-row rules: date required, amount from a
// single column or a debit/credit pair (nonzero debit wins and is negated),
// zero-amount rows dropped.
func (p *DelimitedParser) buildRecord(filename string, line int, r record, european bool) (ledger.Transaction, bool) {
	warn := func(code, msg string) {
		p.opts.Sink.Emit(Diagnostic{Level: "warn", Code: code, Message: msg, Line: line, File: filename})
	}

	if r.date == "" {
		warn("row_dropped", "missing date")
		return ledger.Transaction{}, false
	}
	date, err := ParseDate(r.date, p.opts.Now())
	if err != nil {
		warn("row_dropped", fmt.Sprintf("bad date: %v", err))
		return ledger.Transaction{}, false
	}

	amount, rawAmount, err := p.resolveAmount(r, european)
	if err != nil {
		warn("row_dropped", fmt.Sprintf("bad amount: %v", err))
		return ledger.Transaction{}, false
	}
	if amount.IsZero() {
		warn("row_dropped", "zero amount")
		return ledger.Transaction{}, false
	}

	currency := strings.ToUpper(r.currency)
	if !money.ValidCurrency(currency) {
		currency = money.DetectCurrency(rawAmount)
	}
	if currency == "" {
		currency = p.opts.DefaultCurrency
	}

	res := p.resolver.Resolve(r.desc)
	tx := ledger.NewTransaction(date, amount, currency, r.desc, res.CanonicalName)
	tx.OriginalDescription = r.desc
	return tx, true
}

// resolveAmount returns the signed amount plus the raw cell it came from (for
// currency-symbol detection). With a debit/credit pair, a nonzero debit takes
// priority and becomes negative; a nonzero credit becomes positive. A row
// with both cells populated is ambiguous source data; debit wins and the
// conflict is not validated further.
func (p *DelimitedParser) resolveAmount(r record, european bool) (decimal.Decimal, string, error) {
	if r.amount != "" {
		d, err := money.ParseAmount(r.amount, european)
		return d, r.amount, err
	}

	if r.debit == "" && r.credit == "" {
		return decimal.Zero, "", errors.New("no amount cell")
	}

	if r.debit != "" {
		d, err := money.ParseAmount(r.debit, european)
		if err != nil {
			return decimal.Zero, r.debit, err
		}
		if !d.IsZero() {
			return d.Abs().Neg(), r.debit, nil
		}
	}

	if r.credit != "" {
		c, err := money.ParseAmount(r.credit, european)
		if err != nil {
			return decimal.Zero, r.credit, err
		}
		return c.Abs(), r.credit, nil
	}

	return decimal.Zero, "", nil
}
