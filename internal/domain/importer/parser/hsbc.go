package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearspend/statement-core/internal/domain/ledger"
	"github.com/clearspend/statement-core/pkg/money"
)

// hsbcStrategy handles the HSBC layout, where a transaction's date, merchant
// and amount are frequently split across adjacent lines and the sign must be
// recovered from paid-in/paid-out context.
type hsbcStrategy struct {
	parent *DocumentParser
}

func newHSBCStrategy(parent *DocumentParser) *hsbcStrategy {
	return &hsbcStrategy{parent: parent}
}

func (s *hsbcStrategy) Name() string { return "hsbc" }

// Search windows. Amounts are looked up at most this many lines behind a
// merchant line, and dates at most this many lines ahead of a dateless one.
// Wider windows start bleeding amounts across transactions.
const (
	amountLookback = 4
	dateLookahead  = 6
)

// txPrefixes marks merchant lines: contactless marker, card scheme, direct
// debit, standing order, transfer, ATM, cheque, bill payment.
var txPrefixes = []string{")))", "VIS", "DD", "SO", "TFR", "ATM", "CHQ", "BP"}

var (
	hsbcDateRe   = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3}(?:\s+\d{4})?\b`)
	hsbcAmountRe = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*\.\d{2})`)

	skipLineRe = regexp.MustCompile(`(?i)balance brought forward|total`)

	paidOutRe = regexp.MustCompile(`(?i)paid out|debit`)
	paidInRe  = regexp.MustCompile(`(?i)paid in|credit`)

	twoSpaceRe = regexp.MustCompile(`\s{2,}`)
)

func (s *hsbcStrategy) ParsePage(page Page) []ledger.Transaction {
	lines := page.Lines
	var out []ledger.Transaction

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || skipLineRe.MatchString(trimmed) {
			continue
		}

		rest, ok := stripTxPrefix(trimmed)
		if !ok {
			continue
		}
		merchant := strings.TrimSpace(hsbcAmountRe.ReplaceAllString(rest, ""))
		if merchant == "" {
			continue
		}

		amount, found := amountNear(lines, i, amountLookback)
		if !found {
			continue
		}

		date, found := dateNear(lines, i, dateLookahead, s.parent.opts)
		if !found {
			continue
		}

		if !creditContext(lines, i) {
			amount = amount.Neg()
		}

		res := s.parent.resolver.Resolve(merchant)
		tx := ledger.NewTransaction(date, amount, s.parent.opts.DefaultCurrency, merchant, res.CanonicalName)
		tx.OriginalDescription = trimmed
		out = append(out, tx)
	}
	return out
}

// stripTxPrefix reports whether the line starts with a transaction-type code
// and returns the remainder as the merchant text.
func stripTxPrefix(line string) (string, bool) {
	for _, prefix := range txPrefixes {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		rest := strings.TrimSpace(line[len(prefix):])
		if rest == "" {
			continue
		}
		// A bare word like "DDX..." is not a DD code.
		if prefix != ")))" && len(line) > len(prefix) && line[len(prefix)] != ' ' {
			continue
		}
		return rest, true
	}
	return "", false
}

// amountNear extracts the transaction amount for the line at idx: first from
// the line itself, then scanning up to window lines backward, skipping
// summary lines. When a line carries two numbers the second is a running
// balance and only the first is the amount.
func amountNear(lines []string, idx, window int) (decimal.Decimal, bool) {
	for back := 0; back <= window && idx-back >= 0; back++ {
		line := lines[idx-back]
		if skipLineRe.MatchString(line) {
			continue
		}
		matches := hsbcAmountRe.FindAllString(line, 2)
		if len(matches) == 0 {
			continue
		}
		amount, err := money.ParseAmount(matches[0], false)
		if err != nil || amount.IsZero() {
			continue
		}
		return amount.Abs(), true
	}
	return decimal.Zero, false
}

// dateNear finds the transaction date for the line at idx. HSBC prints the
// date once and omits it on continuation lines, so the scan runs backward
// first (the usual case) and then forward up to window lines.
func dateNear(lines []string, idx, window int, opts Options) (time.Time, bool) {
	for back := 0; back <= window && idx-back >= 0; back++ {
		if d, ok := dateOnLine(lines[idx-back], opts); ok {
			return d, true
		}
	}
	for fwd := 1; fwd <= window && idx+fwd < len(lines); fwd++ {
		if d, ok := dateOnLine(lines[idx+fwd], opts); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func dateOnLine(line string, opts Options) (time.Time, bool) {
	m := hsbcDateRe.FindString(strings.TrimSpace(line))
	if m == "" {
		return time.Time{}, false
	}
	d, err := ParseDate(m, opts.Now())
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// creditContext decides the sign for the line at idx. Directional keywords
// near the line win; failing that, a line splitting into three or more
// column runs (separated by two or more spaces) sits in the paid-in column.
// With no signal at all the amount is treated as paid out, a heuristic that
// matches the dominant row type on these statements.
func creditContext(lines []string, idx int) bool {
	lo := idx - 1
	if lo < 0 {
		lo = 0
	}
	hi := idx + 1
	if hi >= len(lines) {
		hi = len(lines) - 1
	}
	for j := lo; j <= hi; j++ {
		if paidInRe.MatchString(lines[j]) {
			return true
		}
		if paidOutRe.MatchString(lines[j]) {
			return false
		}
	}
	cols := twoSpaceRe.Split(strings.TrimSpace(lines[idx]), -1)
	return len(cols) >= 3
}
