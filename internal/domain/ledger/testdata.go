package ledger

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// TestDataGenerator produces realistic transaction histories for tests and
// benchmarks.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator with a fixed seed for
// reproducible runs.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// Transaction generates one random unclassified transaction dated within the
// past year.
func (g *TestDataGenerator) Transaction() Transaction {
	amount := decimal.NewFromFloat(g.faker.Price(1, 500)).Round(2)
	if g.faker.Bool() {
		amount = amount.Neg()
	}

	merchant := g.faker.Company()
	return NewTransaction(
		g.faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()),
		amount,
		"GBP",
		"CARD PAYMENT TO "+merchant,
		merchant,
	)
}

// Transactions generates n random transactions.
func (g *TestDataGenerator) Transactions(n int) []Transaction {
	out := make([]Transaction, n)
	for i := range out {
		out[i] = g.Transaction()
	}
	return out
}

// MonthlySeries generates a monthly charge history for one merchant, useful
// for recurrence tests.
func (g *TestDataGenerator) MonthlySeries(merchant string, amount decimal.Decimal, months int, start time.Time) []Transaction {
	out := make([]Transaction, months)
	for i := range out {
		out[i] = NewTransaction(
			start.AddDate(0, i, 0),
			amount.Abs().Neg(),
			"GBP",
			"DD "+merchant,
			merchant,
		)
	}
	return out
}
