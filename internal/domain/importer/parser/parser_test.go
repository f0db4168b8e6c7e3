package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearspend/statement-core/internal/domain/importer/normalizer"
	"github.com/clearspend/statement-core/internal/domain/ledger"
)

// collectSink records diagnostics for assertions.
type collectSink struct {
	events []Diagnostic
}

func (c *collectSink) Emit(d Diagnostic) { c.events = append(c.events, d) }

func (c *collectSink) codes() []string {
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.Code
	}
	return out
}

func testOptions(sink DiagnosticSink) Options {
	return Options{
		DefaultCurrency: "GBP",
		Sink:            sink,
		Now:             func() time.Time { return testNow },
	}
}

func newTestParser(sink DiagnosticSink) *DelimitedParser {
	return NewDelimitedParser(normalizer.NewResolver(0), testOptions(sink))
}

func TestDelimitedParser_SingleAmountColumn(t *testing.T) {
	data := []byte(`Date,Description,Amount
12/03/2024,TESCO STORES 2041,-23.50
13/03/2024,ACME PAYROLL LTD,2500.00
`)
	p := newTestParser(nil)
	stmt, err := p.Parse("march.csv", data)
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	tx := stmt.Transactions[0]
	assert.Equal(t, "2024-03-12", tx.DateString())
	assert.Equal(t, "-23.5", tx.Amount.String())
	assert.Equal(t, "Tesco", tx.Merchant)
	assert.Equal(t, "TESCO STORES 2041", tx.RawDescription)
	assert.Equal(t, "GBP", tx.Currency)
	assert.Equal(t, ledger.CategoryUnknown, tx.Category)
	assert.Equal(t, "march.csv", tx.SourceFile)

	assert.True(t, stmt.Transactions[1].IsIncome())
}

func TestDelimitedParser_DebitCreditPair(t *testing.T) {
	data := []byte(`Date,Details,Paid Out,Paid In,Balance
12/03/2024,TESCO STORES,23.50,,1200.00
13/03/2024,ACME PAYROLL,,2500.00,3700.00
14/03/2024,AMBIGUOUS ROW,10.00,5.00,3690.00
`)
	p := newTestParser(nil)
	stmt, err := p.Parse("bank.csv", data)
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 3)

	assert.Equal(t, "-23.5", stmt.Transactions[0].Amount.String())
	assert.Equal(t, "2500", stmt.Transactions[1].Amount.String())

	// Debit wins when both cells are populated.
	assert.Equal(t, "-10", stmt.Transactions[2].Amount.String())
}

func TestDelimitedParser_DropsBadRows(t *testing.T) {
	data := []byte(`Date,Description,Amount
,MISSING DATE,-5.00
garbage,BAD DATE,-5.00
12/03/2024,ZERO AMOUNT,0.00
12/03/2024,BAD AMOUNT,pending
13/03/2024,KEEPER,-7.00
`)
	sink := &collectSink{}
	p := newTestParser(sink)
	stmt, err := p.Parse("messy.csv", data)
	require.NoError(t, err)

	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Keeper", stmt.Transactions[0].Merchant)

	codes := sink.codes()
	assert.Len(t, codes, 4)
	for _, code := range codes {
		assert.Equal(t, "row_dropped", code)
	}
	assert.Equal(t, 2, sink.events[0].Line)
}

func TestDelimitedParser_CurrencyResolution(t *testing.T) {
	t.Run("currency column wins", func(t *testing.T) {
		data := []byte(`Date,Description,Amount,Currency
12/03/2024,HOTEL PARIS,-120.00,EUR
`)
		stmt, err := newTestParser(nil).Parse("trip.csv", data)
		require.NoError(t, err)
		assert.Equal(t, "EUR", stmt.Transactions[0].Currency)
	})

	t.Run("symbol detected in amount", func(t *testing.T) {
		data := []byte(`Date,Description,Amount
12/03/2024,HOTEL PARIS,"€-120.00"
`)
		stmt, err := newTestParser(nil).Parse("trip.csv", data)
		require.NoError(t, err)
		assert.Equal(t, "EUR", stmt.Transactions[0].Currency)
	})

	t.Run("default applies", func(t *testing.T) {
		data := []byte(`Date,Description,Amount
12/03/2024,TESCO,-5.00
`)
		stmt, err := newTestParser(nil).Parse("uk.csv", data)
		require.NoError(t, err)
		assert.Equal(t, "GBP", stmt.Transactions[0].Currency)
	})
}

func TestDelimitedParser_EuropeanFormat(t *testing.T) {
	data := []byte(`Fecha;Descripción;Cargo;Abono
15/01/2024;MERCADONA;1.234,56;
16/01/2024;NOMINA;;2.500,00
`)
	stmt, err := newTestParser(nil).Parse("es.csv", data)
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)
	assert.Equal(t, "-1234.56", stmt.Transactions[0].Amount.String())
	assert.Equal(t, "2500", stmt.Transactions[1].Amount.String())
}

func TestDelimitedParser_FatalErrors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := newTestParser(nil).Parse("empty.csv", []byte("  \n"))
		assert.Error(t, err)
	})

	t.Run("no date column", func(t *testing.T) {
		_, err := newTestParser(nil).Parse("odd.csv", []byte("foo,bar\n1,2\n"))
		assert.ErrorIs(t, err, ErrNoDateColumn)
	})
}

func TestDelimitedParser_TSV(t *testing.T) {
	data := []byte("Date\tDescription\tAmount\n12/03/2024\tNETFLIX.COM\t-9.99\n")
	stmt, err := newTestParser(nil).Parse("export.tsv", data)
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Netflix", stmt.Transactions[0].Merchant)
}
