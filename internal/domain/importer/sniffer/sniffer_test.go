package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        FileKind
	}{
		{name: "csv extension", filename: "export.csv", want: KindDelimited},
		{name: "tsv extension", filename: "export.tsv", want: KindDelimited},
		{name: "xlsx extension", filename: "export.xlsx", want: KindExcel},
		{name: "pdf extension", filename: "march.pdf", want: KindDocument},
		{name: "extension beats content type", filename: "export.csv", contentType: "application/pdf", want: KindDelimited},
		{name: "csv content type", filename: "download", contentType: "text/csv", want: KindDelimited},
		{name: "spreadsheet content type", filename: "download", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", want: KindExcel},
		{name: "pdf content type", filename: "download", contentType: "application/pdf", want: KindDocument},
		{name: "txt statement fallback", filename: "bank_statement_march.txt", want: KindDelimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKind(tt.filename, tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		_, err := DetectKind("notes.txt", "text/plain")
		assert.ErrorIs(t, err, ErrUnsupportedFileType)
	})
}

func TestInferColumns(t *testing.T) {
	t.Run("single amount column", func(t *testing.T) {
		m := InferColumns([]string{"Date", "Description", "Amount", "Balance"})
		assert.Equal(t, 0, m.DateCol)
		assert.Equal(t, 1, m.DescCol)
		assert.Equal(t, 2, m.AmountCol)
		assert.Equal(t, 3, m.BalanceCol)
		assert.False(t, m.IsDoubleEntry())
	})

	t.Run("debit credit pair", func(t *testing.T) {
		m := InferColumns([]string{"Date", "Details", "Paid Out", "Paid In", "Balance"})
		assert.Equal(t, 2, m.DebitCol)
		assert.Equal(t, 3, m.CreditCol)
		assert.Equal(t, -1, m.AmountCol)
		assert.True(t, m.IsDoubleEntry())
	})

	t.Run("incomplete pair falls back to amount", func(t *testing.T) {
		m := InferColumns([]string{"Date", "Description", "Money Out", "Amount"})
		assert.Equal(t, -1, m.DebitCol)
		assert.Equal(t, -1, m.CreditCol)
		assert.Equal(t, 3, m.AmountCol)
	})

	t.Run("first matching header wins", func(t *testing.T) {
		m := InferColumns([]string{"Posting Date", "Value Date", "Narrative", "Amount"})
		assert.Equal(t, 0, m.DateCol)
		assert.Equal(t, 2, m.DescCol)
	})

	t.Run("spanish headers", func(t *testing.T) {
		m := InferColumns([]string{"Fecha", "Descripción", "Cargo", "Abono", "Saldo"})
		assert.Equal(t, 0, m.DateCol)
		assert.Equal(t, 1, m.DescCol)
		assert.True(t, m.IsDoubleEntry())
	})

	t.Run("currency column", func(t *testing.T) {
		m := InferColumns([]string{"Date", "Description", "Amount", "Currency"})
		assert.Equal(t, 3, m.CurrencyCol)
	})

	t.Run("nothing recognized", func(t *testing.T) {
		m := InferColumns([]string{"a", "b", "c"})
		assert.Equal(t, -1, m.DateCol)
		assert.Equal(t, -1, m.AmountCol)
	})
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ',', DetectDelimiter("date,description,amount"))
	assert.Equal(t, ';', DetectDelimiter("date;description;amount"))
	assert.Equal(t, '\t', DetectDelimiter("date\tdescription\tamount"))
	assert.Equal(t, '|', DetectDelimiter("date|description|amount"))
	assert.Equal(t, ',', DetectDelimiter("singlecolumn"))
}

func TestSplitRecords(t *testing.T) {
	t.Run("basic csv", func(t *testing.T) {
		data := []byte("Date,Description,Amount\n2024-01-15,TESCO,-23.50\n2024-01-16,BOOTS,-5.00\n")
		headers, records, err := SplitRecords(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"Date", "Description", "Amount"}, headers)
		require.Len(t, records, 2)
		assert.Equal(t, "TESCO", records[0][1])
	})

	t.Run("strips bom and leading blank lines", func(t *testing.T) {
		data := []byte("\uFEFF\n\nDate;Amount\n2024-01-15;10.00\n")
		headers, records, err := SplitRecords(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"Date", "Amount"}, headers)
		assert.Len(t, records, 1)
	})

	t.Run("quoted fields with embedded delimiter", func(t *testing.T) {
		data := []byte("Date,Description,Amount\n2024-01-15,\"AMAZON, MARKETPLACE\",-9.99\n")
		_, records, err := SplitRecords(data)
		require.NoError(t, err)
		assert.Equal(t, "AMAZON, MARKETPLACE", records[0][1])
	})

	t.Run("ragged rows tolerated", func(t *testing.T) {
		data := []byte("Date,Description,Amount\n2024-01-15,TESCO\n")
		_, records, err := SplitRecords(data)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Len(t, records[0], 2)
	})

	t.Run("empty file", func(t *testing.T) {
		_, _, err := SplitRecords([]byte("  \n "))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestProbeEuropeanFormat(t *testing.T) {
	mapping := ColumnMapping{DateCol: 0, DescCol: 1, AmountCol: 2, DebitCol: -1, CreditCol: -1}

	t.Run("european amounts", func(t *testing.T) {
		records := [][]string{
			{"15/01/2024", "MERCADONA", "1.234,56"},
			{"16/01/2024", "CARREFOUR", "19,90"},
		}
		assert.True(t, ProbeEuropeanFormat(records, mapping))
	})

	t.Run("uk amounts", func(t *testing.T) {
		records := [][]string{
			{"15/01/2024", "TESCO", "1,234.56"},
			{"16/01/2024", "BOOTS", "19.90"},
		}
		assert.False(t, ProbeEuropeanFormat(records, mapping))
	})

	t.Run("no separator is ambiguous", func(t *testing.T) {
		records := [][]string{{"15/01/2024", "TESCO", "20"}}
		assert.False(t, ProbeEuropeanFormat(records, mapping))
	})
}
