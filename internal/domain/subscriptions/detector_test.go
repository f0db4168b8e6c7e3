package subscriptions

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearspend/statement-core/internal/domain/ledger"
)

func testDetector(now time.Time) *Detector {
	d := NewDetector(slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.now = func() time.Time { return now }
	return d
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDetect_MonthlySubscription(t *testing.T) {
	gen := ledger.NewTestDataGenerator(1)
	txs := gen.MonthlySeries("Netflix", decimal.NewFromFloat(9.99), 6, date(2024, time.January, 10))

	d := testDetector(date(2024, time.June, 20))
	subs := d.Detect(txs)
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "Netflix", sub.Merchant)
	assert.Equal(t, CadenceMonthly, sub.Cadence)
	assert.True(t, sub.Amount.Equal(decimal.NewFromFloat(9.99)), "amount %s", sub.Amount)
	assert.InDelta(t, 0.95, sub.Confidence, 1e-9)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, date(2024, time.June, 10), sub.LastCharge)
	assert.Equal(t, date(2024, time.July, 10), sub.NextDue)
	assert.Len(t, sub.Charges, 6)
}

func TestDetect_Cadences(t *testing.T) {
	d := testDetector(date(2024, time.June, 20))

	t.Run("weekly", func(t *testing.T) {
		var txs []ledger.Transaction
		for i := 0; i < 5; i++ {
			txs = append(txs, ledger.NewTransaction(
				date(2024, time.June, 1).AddDate(0, 0, 7*i),
				decimal.NewFromFloat(-12.50), "GBP", "DD BOXING GYM", "Boxing Gym",
			))
		}
		subs := d.Detect(txs)
		require.Len(t, subs, 1)
		assert.Equal(t, CadenceWeekly, subs[0].Cadence)
		assert.InDelta(t, 0.95, subs[0].Confidence, 1e-9)
	})

	t.Run("quarterly", func(t *testing.T) {
		var txs []ledger.Transaction
		for i := 0; i < 3; i++ {
			txs = append(txs, ledger.NewTransaction(
				date(2024, time.January, 10).AddDate(0, 3*i, 0),
				decimal.NewFromInt(-30), "GBP", "DD WATER BOARD", "Water Board",
			))
		}
		subs := d.Detect(txs)
		require.Len(t, subs, 1)
		assert.Equal(t, CadenceQuarterly, subs[0].Cadence)
	})

	t.Run("yearly", func(t *testing.T) {
		var txs []ledger.Transaction
		for i := 0; i < 3; i++ {
			txs = append(txs, ledger.NewTransaction(
				date(2022, time.July, 5).AddDate(i, 0, 0),
				decimal.NewFromInt(-120), "GBP", "DD DOMAIN RENEWAL", "Domain Renewal",
			))
		}
		subs := d.Detect(txs)
		require.Len(t, subs, 1)
		assert.Equal(t, CadenceYearly, subs[0].Cadence)
	})
}

func TestDetect_Rejections(t *testing.T) {
	d := testDetector(date(2024, time.June, 20))

	t.Run("irregular timing", func(t *testing.T) {
		days := []int{1, 4, 51, 54}
		var txs []ledger.Transaction
		for _, day := range days {
			txs = append(txs, ledger.NewTransaction(
				date(2024, time.January, 1).AddDate(0, 0, day-1),
				decimal.NewFromInt(-20), "GBP", "CARD PAYMENT CORNER SHOP", "Corner Shop",
			))
		}
		assert.Empty(t, d.Detect(txs))
	})

	t.Run("unstable amounts", func(t *testing.T) {
		var txs []ledger.Transaction
		for i := 0; i < 4; i++ {
			amount := decimal.NewFromInt(-5)
			if i%2 == 1 {
				amount = decimal.NewFromInt(-15)
			}
			txs = append(txs, ledger.NewTransaction(
				date(2024, time.January, 10).AddDate(0, i, 0),
				amount, "GBP", "DD MOBILE TOP UP", "Mobile Top Up",
			))
		}
		assert.Empty(t, d.Detect(txs))
	})

	t.Run("single charge", func(t *testing.T) {
		gen := ledger.NewTestDataGenerator(1)
		txs := gen.MonthlySeries("Netflix", decimal.NewFromFloat(9.99), 1, date(2024, time.May, 10))
		assert.Empty(t, d.Detect(txs))
	})

	t.Run("income ignored", func(t *testing.T) {
		var txs []ledger.Transaction
		for i := 0; i < 4; i++ {
			txs = append(txs, ledger.NewTransaction(
				date(2024, time.January, 28).AddDate(0, i, 0),
				decimal.NewFromInt(2400), "GBP", "ACME PAYROLL", "Acme Payroll",
			))
		}
		assert.Empty(t, d.Detect(txs))
	})
}

func TestDetect_CancelledWhenStale(t *testing.T) {
	gen := ledger.NewTestDataGenerator(1)
	txs := gen.MonthlySeries("Old Paper", decimal.NewFromFloat(6.50), 4, date(2023, time.December, 10))

	d := testDetector(date(2024, time.June, 30))
	subs := d.Detect(txs)
	require.Len(t, subs, 1)
	assert.Equal(t, StatusCancelled, subs[0].Status)
	assert.True(t, subs[0].NextDue.IsZero())
}

func TestDetect_Ordering(t *testing.T) {
	gen := ledger.NewTestDataGenerator(1)
	txs := gen.MonthlySeries("Netflix", decimal.NewFromFloat(9.99), 6, date(2024, time.January, 10))

	// Gaps of 35 days score well on consistency but poorly on cadence match.
	for i := 0; i < 4; i++ {
		txs = append(txs, ledger.NewTransaction(
			date(2024, time.January, 3).AddDate(0, 0, 35*i),
			decimal.NewFromInt(-25), "GBP", "DD STORAGE UNIT", "Storage Unit",
		))
	}

	d := testDetector(date(2024, time.June, 20))
	subs := d.Detect(txs)
	require.Len(t, subs, 2)
	assert.Equal(t, "Netflix", subs[0].Merchant)
	assert.Equal(t, "Storage Unit", subs[1].Merchant)
	assert.Greater(t, subs[0].Confidence, subs[1].Confidence)
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		cadence Cadence
		amount  float64
		want    string
	}{
		{CadenceWeekly, 10, "43.3"},
		{CadenceMonthly, 9.99, "9.99"},
		{CadenceQuarterly, 30, "10"},
		{CadenceYearly, 120, "10"},
	}
	for _, tt := range tests {
		t.Run(string(tt.cadence), func(t *testing.T) {
			s := Subscription{Cadence: tt.cadence, Amount: decimal.NewFromFloat(tt.amount)}
			assert.True(t, s.MonthlyEquivalent().Equal(decimal.RequireFromString(tt.want)),
				"got %s", s.MonthlyEquivalent())
		})
	}
}

func TestTotalMonthlyCost(t *testing.T) {
	subs := []Subscription{
		{Cadence: CadenceMonthly, Amount: decimal.NewFromInt(10), Status: StatusActive},
		{Cadence: CadenceWeekly, Amount: decimal.NewFromInt(10), Status: StatusActive},
		{Cadence: CadenceMonthly, Amount: decimal.NewFromInt(100), Status: StatusCancelled},
	}
	total := TotalMonthlyCost(subs)
	assert.True(t, total.Equal(decimal.RequireFromString("53.3")), "got %s", total)
}

func TestUpcoming(t *testing.T) {
	d := testDetector(date(2024, time.June, 20))

	subs := []Subscription{
		{Merchant: "Soon", Status: StatusActive, NextDue: date(2024, time.June, 25)},
		{Merchant: "Later", Status: StatusActive, NextDue: date(2024, time.July, 30)},
		{Merchant: "Gone", Status: StatusCancelled},
	}

	due := d.Upcoming(subs, 7)
	require.Len(t, due, 1)
	assert.Equal(t, "Soon", due[0].Merchant)
}

func TestDetectPriceChanges(t *testing.T) {
	gen := ledger.NewTestDataGenerator(1)
	txs := gen.MonthlySeries("Audible", decimal.NewFromFloat(9.99), 3, date(2024, time.January, 10))
	txs = append(txs, gen.MonthlySeries("Audible", decimal.NewFromFloat(12.99), 3, date(2024, time.April, 10))...)

	d := testDetector(date(2024, time.June, 20))
	subs := d.Detect(txs)
	require.Len(t, subs, 1)

	changes := DetectPriceChanges(subs)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].OldAmount.Equal(decimal.NewFromFloat(9.99)))
	assert.True(t, changes[0].NewAmount.Equal(decimal.NewFromFloat(12.99)))
	assert.InDelta(t, 30.03, changes[0].ChangePct, 0.01)

	t.Run("stable price reports nothing", func(t *testing.T) {
		stable := gen.MonthlySeries("Netflix", decimal.NewFromFloat(9.99), 6, date(2024, time.January, 10))
		assert.Empty(t, DetectPriceChanges(d.Detect(stable)))
	})
}

func TestForgotten(t *testing.T) {
	subs := []Subscription{
		{Merchant: "Netflix", Status: StatusActive},
		{Merchant: "Village Gym", Status: StatusActive},
		{Merchant: "Old Paper", Status: StatusCancelled},
	}

	out := Forgotten(subs, []string{"netflix", "spotify"})
	require.Len(t, out, 1)
	assert.Equal(t, "Village Gym", out[0].Merchant)
}
