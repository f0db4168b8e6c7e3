package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/clearspend/statement-core/internal/domain/importer/normalizer"
	"github.com/clearspend/statement-core/internal/domain/importer/textnorm"
	"github.com/clearspend/statement-core/internal/domain/ledger"
	"github.com/clearspend/statement-core/pkg/money"
)

// ErrNoTransactions is fatal for rendered-document input: every strategy ran
// and none recovered a single transaction.
var ErrNoTransactions = errors.New("no transactions recoverable from document text")

// Page is one rendered page as an ordered list of reconstructed lines.
type Page struct {
	Number int
	Lines  []string
}

// Document is the text abstraction the core consumes. Rendering and decoding
// happen upstream; the core only sees reconstructed lines.
type Document struct {
	Pages    []Page
	FullText string
}

// BuildDocument assembles a Document from positioned text fragments, one
// fragment slice per page.
func BuildDocument(pages [][]textnorm.Fragment) Document {
	doc := Document{}
	var full strings.Builder
	for i, frags := range pages {
		lines := textnorm.BuildLines(frags)
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Lines: lines})
		for _, l := range lines {
			full.WriteString(l)
			full.WriteByte('\n')
		}
	}
	doc.FullText = full.String()
	return doc
}

// DocumentFromLines builds a single-page Document from pre-extracted lines.
// Useful when the caller already has line-oriented text.
func DocumentFromLines(lines []string) Document {
	return Document{
		Pages:    []Page{{Number: 1, Lines: lines}},
		FullText: strings.Join(lines, "\n"),
	}
}

// Strategy extracts transactions from one page of a detected bank layout.
type Strategy interface {
	Name() string
	ParsePage(page Page) []ledger.Transaction
}

// knownBanks maps detectable bank-name substrings to strategy names. Only
// hsbc carries a specialized strategy; the rest share the generic one until a
// dedicated layout is written for them.
var knownBanks = []string{
	"hsbc", "barclays", "lloyds", "natwest", "santander",
	"monzo", "starling", "revolut", "nationwide", "halifax",
}

// DetectBank scans the full text for a known bank name. Empty string means
// unrecognized.
func DetectBank(fullText string) string {
	lower := strings.ToLower(fullText)
	for _, bank := range knownBanks {
		if strings.Contains(lower, bank) {
			return bank
		}
	}
	return ""
}

// DocumentParser dispatches a parsed Document to a per-bank strategy.
type DocumentParser struct {
	resolver   *normalizer.Resolver
	opts       Options
	strategies map[string]Strategy
	generic    Strategy
}

// NewDocumentParser creates a document parser with the built-in strategy
// table. Additional bank strategies can be registered with Register.
func NewDocumentParser(resolver *normalizer.Resolver, opts Options) *DocumentParser {
	opts.fill()
	p := &DocumentParser{
		resolver:   resolver,
		opts:       opts,
		strategies: make(map[string]Strategy),
	}
	p.generic = newGenericStrategy(p)
	p.Register("hsbc", newHSBCStrategy(p))
	return p
}

// Register installs or replaces the strategy for a bank name.
func (p *DocumentParser) Register(bank string, s Strategy) {
	p.strategies[strings.ToLower(bank)] = s
}

// Parse extracts transactions from the document. Per-line failures are
// skipped; the whole parse fails only when nothing is recoverable.
func (p *DocumentParser) Parse(filename string, doc Document, progress func(done, total int)) (ledger.ParsedStatement, error) {
	bank := DetectBank(doc.FullText)
	strategy := p.generic
	if s, ok := p.strategies[bank]; ok {
		strategy = s
	}

	stmt := ledger.ParsedStatement{
		Filename: filename,
		Metadata: &ledger.StatementMetadata{Bank: bank, PageCount: len(doc.Pages)},
	}

	total := len(doc.Pages)
	for i, page := range doc.Pages {
		txs := strategy.ParsePage(page)
		for j := range txs {
			txs[j].SourceFile = filename
		}
		stmt.Transactions = append(stmt.Transactions, txs...)
		if progress != nil {
			progress(i+1, total)
		}
	}

	// The specialized strategy falls back to the generic one rather than
	// returning nothing.
	if len(stmt.Transactions) == 0 && strategy != p.generic {
		p.opts.Sink.Emit(Diagnostic{
			Level: "info", Code: "strategy_fallback",
			Message: fmt.Sprintf("%s strategy found nothing, retrying generic", strategy.Name()),
			File:    filename,
		})
		for _, page := range doc.Pages {
			txs := p.generic.ParsePage(page)
			for j := range txs {
				txs[j].SourceFile = filename
			}
			stmt.Transactions = append(stmt.Transactions, txs...)
		}
	}

	if len(stmt.Transactions) == 0 {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, ErrNoTransactions)
	}
	return stmt, nil
}

// genericStrategy finds a transaction-table region per page and tries a fixed
// list of line shapes against each candidate line.
type genericStrategy struct {
	parent *DocumentParser
}

func newGenericStrategy(parent *DocumentParser) *genericStrategy {
	return &genericStrategy{parent: parent}
}

func (g *genericStrategy) Name() string { return "generic" }

var (
	tableHeaderRe = regexp.MustCompile(`(?i)date\s+.*(description|details|transaction).*\s+(amount|debit|credit|paid)`)
	terminatorRe  = regexp.MustCompile(`(?i)^\s*(total|closing balance|balance carried forward|page \d+|end of statement)`)

	dateTokenRe   = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|\d{1,2}\s+[A-Za-z]{3,9}`)
	amountTokenRe = regexp.MustCompile(`-?[£€$]?\s?\d{1,3}(?:,\d{3})*\.\d{2}`)
)

// lineShapes are the ordered regex shapes tried against each candidate line.
// Each captures date, description, and amount; first match wins. The list is
// append-only so new shapes never disturb existing ones.
var lineShapes = []*regexp.Regexp{
	// 12 Mar  TESCO STORES 2041  -23.50
	regexp.MustCompile(`^(\d{1,2}\s+[A-Za-z]{3,9})\s+(.+?)\s+(-?[£€$]?\d[\d,]*\.\d{2})\s*$`),
	// 12/03/2024  TESCO STORES 2041  -23.50
	regexp.MustCompile(`^(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+(-?[£€$]?\d[\d,]*\.\d{2})\s*$`),
	// 2024-03-12  TESCO STORES  -23.50  1,204.30  (trailing running balance)
	regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(.+?)\s+(-?[£€$]?\d[\d,]*\.\d{2})\s+[£€$]?\d[\d,]*\.\d{2}\s*$`),
	// 12 March 2024  TESCO STORES  -23.50
	regexp.MustCompile(`^(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})\s+(.+?)\s+(-?[£€$]?\d[\d,]*\.\d{2})\s*$`),
}

func (g *genericStrategy) ParsePage(page Page) []ledger.Transaction {
	start, end := tableRegion(page.Lines)
	if start < 0 {
		return nil
	}

	var out []ledger.Transaction
	for _, line := range page.Lines[start:end] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !dateTokenRe.MatchString(trimmed) || !amountTokenRe.MatchString(trimmed) {
			continue
		}
		for _, shape := range lineShapes {
			m := shape.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			tx, ok := g.parent.buildDocTransaction(m[1], m[2], m[3])
			if ok {
				out = append(out, tx)
			}
			break
		}
	}
	return out
}

// tableRegion returns the half-open line range of the transaction table, or
// (-1, -1) if no header phrase is found. The region ends at a terminator
// phrase or after three consecutive near-empty lines.
func tableRegion(lines []string) (int, int) {
	start := -1
	for i, line := range lines {
		if tableHeaderRe.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return -1, -1
	}

	empties := 0
	for i := start; i < len(lines); i++ {
		if terminatorRe.MatchString(lines[i]) {
			return start, i
		}
		if len(strings.TrimSpace(lines[i])) < 2 {
			empties++
			if empties >= 3 {
				return start, i - 2
			}
		} else {
			empties = 0
		}
	}
	return start, len(lines)
}

// buildDocTransaction is shared by all document strategies: parse the date
// and amount with the common routines, run the description through the
// resolver, leave the category unknown.
func (p *DocumentParser) buildDocTransaction(rawDate, rawDesc, rawAmount string) (ledger.Transaction, bool) {
	date, err := ParseDate(strings.TrimSpace(rawDate), p.opts.Now())
	if err != nil {
		return ledger.Transaction{}, false
	}
	amount, err := money.ParseAmount(rawAmount, false)
	if err != nil || amount.IsZero() {
		return ledger.Transaction{}, false
	}

	currency := money.DetectCurrency(rawAmount)
	if currency == "" {
		currency = p.opts.DefaultCurrency
	}

	desc := strings.TrimSpace(rawDesc)
	res := p.resolver.Resolve(desc)
	tx := ledger.NewTransaction(date, amount, currency, desc, res.CanonicalName)
	tx.OriginalDescription = desc
	return tx, true
}
