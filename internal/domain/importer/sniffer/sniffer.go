// Package sniffer detects statement file types and, for delimited files, the
// delimiter, header row and column roles.
package sniffer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// FileKind identifies the parsing path for an input file.
type FileKind string

const (
	KindDelimited FileKind = "delimited" // CSV/TSV/delimited text
	KindExcel     FileKind = "excel"     // .xlsx workbook
	KindDocument  FileKind = "document"  // rendered-document text (PDF layout)
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type (supported: .csv, .tsv, .txt statement exports, .xlsx, .pdf)")
	ErrEmptyFile           = errors.New("file is empty")
	ErrNoHeadersFound      = errors.New("could not find data headers")
)

// DetectKind determines the parser path for a file: by extension first, then
// by declared content type, then a narrow .txt fallback for files whose name
// contains "statement". Anything else is a fatal, descriptive error.
func DetectKind(filename, contentType string) (FileKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".tsv":
		return KindDelimited, nil
	case ".xlsx":
		return KindExcel, nil
	case ".pdf":
		return KindDocument, nil
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "csv"), strings.Contains(ct, "tab-separated"):
		return KindDelimited, nil
	case strings.Contains(ct, "spreadsheet"):
		return KindExcel, nil
	case strings.Contains(ct, "pdf"):
		return KindDocument, nil
	}

	if ext == ".txt" && strings.Contains(strings.ToLower(filename), "statement") {
		return KindDelimited, nil
	}

	return "", fmt.Errorf("%w: %q (content type %q)", ErrUnsupportedFileType, filename, contentType)
}

// ColumnMapping holds the inferred role of each delimited column. A value of
// -1 means the role was not found. Either AmountCol or the Debit/Credit pair
// is set, never both.
type ColumnMapping struct {
	DateCol     int
	DescCol     int
	AmountCol   int
	DebitCol    int
	CreditCol   int
	CurrencyCol int
	BalanceCol  int
}

// IsDoubleEntry reports whether amounts come from a debit/credit column pair.
func (m ColumnMapping) IsDoubleEntry() bool {
	return m.AmountCol < 0 && m.DebitCol >= 0 && m.CreditCol >= 0
}

// Ordered header pattern lists. The first header (left to right) containing
// one of the patterns (case-insensitive substring) wins for each role;
// evaluation happens once per file.
var (
	datePatterns     = []string{"date", "data", "posted", "fecha", "datum"}
	descPatterns     = []string{"description", "descri", "narrative", "merchant", "details", "memo", "payee", "reference", "transaction"}
	amountPatterns   = []string{"amount", "value", "valor", "montant"}
	debitPatterns    = []string{"debit", "paid out", "money out", "withdrawal", "cargo"}
	creditPatterns   = []string{"credit", "paid in", "money in", "deposit", "abono"}
	currencyPatterns = []string{"currency", "ccy", "curr"}
	balancePatterns  = []string{"balance", "saldo"}
)

// InferColumns maps header names to column roles using the ordered pattern
// lists. Debit/credit detection runs before single-amount so a "Paid In /
// Paid Out" pair is not shadowed by a stray "Amount" balance column.
func InferColumns(headers []string) ColumnMapping {
	m := ColumnMapping{DateCol: -1, DescCol: -1, AmountCol: -1, DebitCol: -1, CreditCol: -1, CurrencyCol: -1, BalanceCol: -1}

	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	find := func(patterns []string, exclude ...int) int {
		for _, p := range patterns {
			for i, h := range lower {
				if h == "" || intsContain(exclude, i) {
					continue
				}
				if strings.Contains(h, p) {
					return i
				}
			}
		}
		return -1
	}

	m.DateCol = find(datePatterns)
	m.DescCol = find(descPatterns, m.DateCol)
	m.BalanceCol = find(balancePatterns)
	m.DebitCol = find(debitPatterns, m.DateCol, m.DescCol, m.BalanceCol)
	m.CreditCol = find(creditPatterns, m.DateCol, m.DescCol, m.BalanceCol, m.DebitCol)
	if m.DebitCol < 0 || m.CreditCol < 0 {
		m.DebitCol, m.CreditCol = -1, -1
		m.AmountCol = find(amountPatterns, m.DateCol, m.DescCol, m.BalanceCol)
	}
	m.CurrencyCol = find(currencyPatterns, m.DateCol, m.DescCol, m.BalanceCol, m.AmountCol)

	return m
}

// DetectDelimiter picks the delimiter producing the most columns on the
// header line. Candidates are tried in fixed order so ties are deterministic.
func DetectDelimiter(headerLine string) rune {
	delimiters := []rune{';', '\t', ',', '|'}
	best := ','
	bestCount := 0
	for _, d := range delimiters {
		if count := strings.Count(headerLine, string(d)); count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}

// SplitRecords parses delimited data into a header row plus data records.
// The first non-empty line is the header; a leading BOM is removed.
func SplitRecords(data []byte) (headers []string, records [][]string, err error) {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyFile
	}

	lines := strings.Split(text, "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil, ErrEmptyFile
	}

	delim := DetectDelimiter(lines[headerIdx])
	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse delimited data: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyFile
	}

	headers = rows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	return headers, rows[1:], nil
}

// ProbeEuropeanFormat samples amount cells from data rows and reports whether
// they use European decimal-comma formatting (1.234,56).
func ProbeEuropeanFormat(records [][]string, mapping ColumnMapping) bool {
	cols := []int{mapping.AmountCol, mapping.DebitCol, mapping.CreditCol}
	european, us := 0, 0

	for i, rec := range records {
		if i >= 20 {
			break
		}
		for _, col := range cols {
			if col < 0 || col >= len(rec) {
				continue
			}
			switch hintFromAmount(rec[col]) {
			case 1:
				european++
			case -1:
				us++
			}
		}
	}
	return european > us
}

// hintFromAmount returns 1 for European formatting, -1 for US, 0 when
// ambiguous.
func hintFromAmount(val string) int {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' {
			return r
		}
		return -1
	}, val)
	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			return 1
		}
		return -1
	case hasComma:
		if after := cleaned[strings.LastIndex(cleaned, ",")+1:]; len(after) <= 2 {
			return 1
		}
	case hasDot:
		if after := cleaned[strings.LastIndex(cleaned, ".")+1:]; len(after) <= 2 {
			return -1
		}
	}
	return 0
}

func intsContain(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
