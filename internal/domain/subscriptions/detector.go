// Package subscriptions detects recurring charges in a transaction history
// and derives cost and status signals from them.
package subscriptions

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearspend/statement-core/internal/domain/ledger"
)

// Cadence is the recurrence bucket a merchant's charges fall into.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
)

// Status of a detected subscription.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Subscription is one detected recurring charge.
type Subscription struct {
	Merchant   string
	Category   ledger.Category
	Cadence    Cadence
	Amount     decimal.Decimal // average absolute charge
	Confidence float64
	Status     string
	LastCharge time.Time
	NextDue    time.Time // zero when cancelled
	Charges    []ledger.Transaction
}

// MonthlyEquivalent normalizes the charge to a per-month cost.
func (s Subscription) MonthlyEquivalent() decimal.Decimal {
	switch s.Cadence {
	case CadenceWeekly:
		return s.Amount.Mul(decimal.NewFromFloat(4.33))
	case CadenceQuarterly:
		return s.Amount.Div(decimal.NewFromInt(3))
	case CadenceYearly:
		return s.Amount.Div(decimal.NewFromInt(12))
	default:
		return s.Amount
	}
}

// cadenceSpec maps an average gap to an expected interval and tolerance.
type cadenceSpec struct {
	cadence   Cadence
	expected  float64
	tolerance float64
}

func specForGap(avgGap float64) cadenceSpec {
	switch {
	case avgGap <= 10:
		return cadenceSpec{CadenceWeekly, 7, 3}
	case avgGap <= 40:
		return cadenceSpec{CadenceMonthly, 30, 5}
	case avgGap <= 100:
		return cadenceSpec{CadenceQuarterly, 90, 10}
	default:
		return cadenceSpec{CadenceYearly, 365, 15}
	}
}

func (c cadenceSpec) advance(t time.Time) time.Time {
	switch c.cadence {
	case CadenceWeekly:
		return t.AddDate(0, 0, 7)
	case CadenceMonthly:
		return t.AddDate(0, 1, 0)
	case CadenceQuarterly:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// Detector finds subscriptions in classified transaction histories.
type Detector struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewDetector(logger *slog.Logger) *Detector {
	return &Detector{logger: logger, now: time.Now}
}

// Detect groups expenses by canonical merchant and keeps groups whose timing
// and amounts are regular enough. Results are sorted by confidence
// descending, then amount descending.
func (d *Detector) Detect(txs []ledger.Transaction) []Subscription {
	groups := make(map[string][]ledger.Transaction)
	var order []string
	for _, tx := range txs {
		if !tx.Amount.IsNegative() || tx.Merchant == "" {
			continue
		}
		if _, seen := groups[tx.Merchant]; !seen {
			order = append(order, tx.Merchant)
		}
		groups[tx.Merchant] = append(groups[tx.Merchant], tx)
	}

	var subs []Subscription
	for _, merchant := range order {
		charges := groups[merchant]
		if len(charges) < 2 {
			continue
		}
		if sub, ok := d.evaluate(merchant, charges); ok {
			subs = append(subs, sub)
		}
	}

	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Confidence != subs[j].Confidence {
			return subs[i].Confidence > subs[j].Confidence
		}
		return subs[i].Amount.GreaterThan(subs[j].Amount)
	})
	return subs
}

func (d *Detector) evaluate(merchant string, charges []ledger.Transaction) (Subscription, bool) {
	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].Date.Before(charges[j].Date)
	})

	gaps := make([]float64, 0, len(charges)-1)
	for i := 1; i < len(charges); i++ {
		gaps = append(gaps, charges[i].Date.Sub(charges[i-1].Date).Hours()/24)
	}

	avgGap := mean(gaps)
	spec := specForGap(avgGap)

	consistency := math.Max(0, 1-stddev(gaps)/spec.expected)
	match := math.Max(0, 1-math.Abs(avgGap-spec.expected)/spec.tolerance)
	confidence := 0.6*consistency + 0.4*match
	if confidence < 0.5 {
		return Subscription{}, false
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	avgAmount, variance := amountStats(charges)
	if variance >= 0.2*avgAmount {
		return Subscription{}, false
	}

	last := charges[len(charges)-1]
	sub := Subscription{
		Merchant:   merchant,
		Category:   last.Category,
		Cadence:    spec.cadence,
		Amount:     decimal.NewFromFloat(avgAmount).Round(2),
		Confidence: confidence,
		LastCharge: last.Date,
		Charges:    charges,
	}

	daysSince := d.now().Sub(last.Date).Hours() / 24
	if daysSince <= 1.5*spec.expected {
		sub.Status = StatusActive
		sub.NextDue = spec.advance(last.Date)
	} else {
		sub.Status = StatusCancelled
	}
	return sub, true
}

// TotalMonthlyCost sums monthly-equivalent cost over active subscriptions.
func TotalMonthlyCost(subs []Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subs {
		if s.Status == StatusActive {
			total = total.Add(s.MonthlyEquivalent())
		}
	}
	return total
}

// Upcoming returns active subscriptions due within the window.
func (d *Detector) Upcoming(subs []Subscription, windowDays int) []Subscription {
	cutoff := d.now().AddDate(0, 0, windowDays)
	var out []Subscription
	for _, s := range subs {
		if s.Status == StatusActive && !s.NextDue.IsZero() && !s.NextDue.After(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// PriceChange reports whether a subscription's recent charges moved more
// than 5% against its earlier ones. Needs at least 3 charges.
type PriceChange struct {
	Subscription Subscription
	OldAmount    decimal.Decimal
	NewAmount    decimal.Decimal
	ChangePct    float64
}

func DetectPriceChanges(subs []Subscription) []PriceChange {
	var out []PriceChange
	for _, s := range subs {
		if len(s.Charges) < 3 {
			continue
		}
		recent := s.Charges[len(s.Charges)-3:]
		prior := s.Charges[:len(s.Charges)-3]
		if len(prior) == 0 {
			continue
		}
		recentAvg := absMean(recent)
		priorAvg := absMean(prior)
		if priorAvg == 0 {
			continue
		}
		change := (recentAvg - priorAvg) / priorAvg
		if math.Abs(change) > 0.05 {
			out = append(out, PriceChange{
				Subscription: s,
				OldAmount:    decimal.NewFromFloat(priorAvg).Round(2),
				NewAmount:    decimal.NewFromFloat(recentAvg).Round(2),
				ChangePct:    change * 100,
			})
		}
	}
	return out
}

// Forgotten filters active subscriptions whose merchant is not one of the
// well-known service names. These are candidates the user may have stopped
// using without cancelling.
func Forgotten(subs []Subscription, wellKnown []string) []Subscription {
	var out []Subscription
	for _, s := range subs {
		if s.Status != StatusActive {
			continue
		}
		name := strings.ToLower(s.Merchant)
		known := false
		for _, svc := range wellKnown {
			if strings.Contains(name, strings.ToLower(svc)) {
				known = true
				break
			}
		}
		if !known {
			out = append(out, s)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// amountStats returns the mean and population variance of absolute amounts.
func amountStats(charges []ledger.Transaction) (float64, float64) {
	abs := make([]float64, len(charges))
	for i, c := range charges {
		abs[i], _ = c.Amount.Abs().Float64()
	}
	m := mean(abs)
	sum := 0.0
	for _, a := range abs {
		sum += (a - m) * (a - m)
	}
	return m, sum / float64(len(abs))
}

func absMean(charges []ledger.Transaction) float64 {
	abs := make([]float64, len(charges))
	for i, c := range charges {
		abs[i], _ = c.Amount.Abs().Float64()
	}
	return mean(abs)
}
