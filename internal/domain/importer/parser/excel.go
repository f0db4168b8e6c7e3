package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/clearspend/statement-core/internal/domain/importer/normalizer"
	"github.com/clearspend/statement-core/internal/domain/importer/sniffer"
	"github.com/clearspend/statement-core/internal/domain/ledger"
)

// ErrNoSheets means the workbook has no worksheets at all.
var ErrNoSheets = errors.New("workbook has no sheets")

// ExcelParser reads the first worksheet of an .xlsx export and feeds its rows
// through the same column inference as delimited files.
type ExcelParser struct {
	delimited *DelimitedParser
}

// NewExcelParser creates an Excel parser sharing the delimited row rules.
func NewExcelParser(resolver *normalizer.Resolver, opts Options) *ExcelParser {
	return &ExcelParser{delimited: NewDelimitedParser(resolver, opts)}
}

// Parse reads the first sheet. The first non-empty row is the header; later
// rows follow delimited-row semantics (bad rows dropped with diagnostics).
func (p *ExcelParser) Parse(filename string, data []byte) (ledger.ParsedStatement, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, ErrNoSheets)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: read sheet %q: %w", filename, sheets[0], err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, sniffer.ErrEmptyFile)
	}

	headers := rows[headerIdx]
	mapping := sniffer.InferColumns(headers)
	if mapping.DateCol < 0 {
		return ledger.ParsedStatement{}, fmt.Errorf("parse %s: %w", filename, ErrNoDateColumn)
	}

	records := rows[headerIdx+1:]
	european := sniffer.ProbeEuropeanFormat(records, mapping)

	stmt := ledger.ParsedStatement{Filename: filename}
	for i, rec := range records {
		if rowEmpty(rec) {
			continue
		}
		line := headerIdx + i + 2
		tx, ok := p.delimited.buildRow(filename, line, rec, mapping, european)
		if ok {
			tx.SourceFile = filename
			stmt.Transactions = append(stmt.Transactions, tx)
		}
	}
	return stmt, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
