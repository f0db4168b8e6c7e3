package insights

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearspend/statement-core/internal/domain/ledger"
)

func tx(amount float64, merchant string, category ledger.Category, day int) ledger.Transaction {
	t := ledger.NewTransaction(
		time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		decimal.NewFromFloat(amount),
		"GBP", "CARD PAYMENT TO "+merchant, merchant,
	)
	t.Category = category
	return t
}

func TestTotalsBySign(t *testing.T) {
	txs := []ledger.Transaction{
		tx(2400, "Acme Payroll", ledger.CategoryIncome, 1),
		tx(-60.50, "Tesco", ledger.CategoryGroceries, 3),
		tx(-9.99, "Netflix", ledger.CategoryEntertainment, 5),
	}

	totals := TotalsBySign(txs)
	assert.True(t, totals.Income.Equal(decimal.NewFromInt(2400)), "income %s", totals.Income)
	assert.True(t, totals.Spent.Equal(decimal.RequireFromString("70.49")), "spent %s", totals.Spent)
	assert.True(t, totals.Net.Equal(decimal.RequireFromString("2329.51")), "net %s", totals.Net)

	t.Run("empty", func(t *testing.T) {
		totals := TotalsBySign(nil)
		assert.True(t, totals.Income.IsZero())
		assert.True(t, totals.Spent.IsZero())
		assert.True(t, totals.Net.IsZero())
	})
}

func TestTotalsByCategory(t *testing.T) {
	txs := []ledger.Transaction{
		tx(-9.99, "Netflix", ledger.CategoryEntertainment, 1),
		tx(-60, "Tesco", ledger.CategoryGroceries, 2),
		tx(-40, "Sainsburys", ledger.CategoryGroceries, 9),
		tx(2400, "Acme Payroll", ledger.CategoryIncome, 1),
	}

	out := TotalsByCategory(txs)
	require.Len(t, out, 2, "income must not appear")

	assert.Equal(t, ledger.CategoryGroceries, out[0].Category)
	assert.True(t, out[0].Spent.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, out[0].Count)

	assert.Equal(t, ledger.CategoryEntertainment, out[1].Category)
	assert.Equal(t, 1, out[1].Count)
}

func TestTotalsByMerchant(t *testing.T) {
	txs := []ledger.Transaction{
		tx(-30, "Tesco", ledger.CategoryGroceries, 2),
		tx(-9.99, "Netflix", ledger.CategoryEntertainment, 5),
		tx(-25, "Tesco", ledger.CategoryGroceries, 16),
		tx(-12, "", ledger.CategoryUnknown, 7),
	}

	out := TotalsByMerchant(txs)
	require.Len(t, out, 2, "blank merchants must not appear")
	assert.Equal(t, "Tesco", out[0].Merchant)
	assert.True(t, out[0].Spent.Equal(decimal.NewFromInt(55)))
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, "Netflix", out[1].Merchant)
}

func TestTopByAbsAmount(t *testing.T) {
	txs := []ledger.Transaction{
		tx(-9.99, "Netflix", ledger.CategoryEntertainment, 1),
		tx(2400, "Acme Payroll", ledger.CategoryIncome, 1),
		tx(-60, "Tesco", ledger.CategoryGroceries, 2),
		tx(-60, "Sainsburys", ledger.CategoryGroceries, 3),
	}

	top := TopByAbsAmount(txs, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "Acme Payroll", top[0].Merchant)
	// Equal magnitudes keep their source order.
	assert.Equal(t, "Tesco", top[1].Merchant)
	assert.Equal(t, "Sainsburys", top[2].Merchant)

	t.Run("n larger than input", func(t *testing.T) {
		assert.Len(t, TopByAbsAmount(txs, 10), 4)
	})

	t.Run("input order untouched", func(t *testing.T) {
		assert.Equal(t, "Netflix", txs[0].Merchant)
	})
}

func TestSameDayMerchantGroups(t *testing.T) {
	txs := []ledger.Transaction{
		tx(-20, "Tesco", ledger.CategoryGroceries, 2),
		tx(-9.99, "Netflix", ledger.CategoryEntertainment, 2),
		tx(-35, "Tesco", ledger.CategoryGroceries, 2),
		tx(-15, "Tesco", ledger.CategoryGroceries, 9),
	}

	groups := SameDayMerchantGroups(txs)
	require.Len(t, groups, 1)
	assert.Equal(t, "Tesco", groups[0].Merchant)
	assert.Equal(t, "2024-03-02", groups[0].Date)
	assert.Len(t, groups[0].Transactions, 2)
	assert.True(t, groups[0].Total.Equal(decimal.NewFromInt(-55)), "total %s", groups[0].Total)
}
