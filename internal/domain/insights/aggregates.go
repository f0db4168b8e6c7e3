// Package insights computes read-only aggregates over a classified
// transaction list.
package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/clearspend/statement-core/internal/domain/ledger"
)

// Totals splits a period into money in and money out. Spent is reported as a
// positive magnitude.
type Totals struct {
	Income decimal.Decimal
	Spent  decimal.Decimal
	Net    decimal.Decimal
}

func TotalsBySign(txs []ledger.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Spent: decimal.Zero}
	for _, tx := range txs {
		if tx.Amount.IsPositive() {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Spent = t.Spent.Add(tx.Amount.Abs())
		}
	}
	t.Net = t.Income.Sub(t.Spent)
	return t
}

// CategoryTotal is spend attributed to one category.
type CategoryTotal struct {
	Category ledger.Category
	Spent    decimal.Decimal
	Count    int
}

// TotalsByCategory sums expense magnitudes per category, largest first.
func TotalsByCategory(txs []ledger.Transaction) []CategoryTotal {
	byCat := make(map[ledger.Category]*CategoryTotal)
	var order []ledger.Category
	for _, tx := range txs {
		if !tx.Amount.IsNegative() {
			continue
		}
		ct, ok := byCat[tx.Category]
		if !ok {
			ct = &CategoryTotal{Category: tx.Category, Spent: decimal.Zero}
			byCat[tx.Category] = ct
			order = append(order, tx.Category)
		}
		ct.Spent = ct.Spent.Add(tx.Amount.Abs())
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCat[cat])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Spent.GreaterThan(out[j].Spent)
	})
	return out
}

// MerchantTotal is spend attributed to one canonical merchant.
type MerchantTotal struct {
	Merchant string
	Spent    decimal.Decimal
	Count    int
}

// TotalsByMerchant sums expense magnitudes per canonical merchant, largest
// first.
func TotalsByMerchant(txs []ledger.Transaction) []MerchantTotal {
	byMerchant := make(map[string]*MerchantTotal)
	var order []string
	for _, tx := range txs {
		if !tx.Amount.IsNegative() || tx.Merchant == "" {
			continue
		}
		mt, ok := byMerchant[tx.Merchant]
		if !ok {
			mt = &MerchantTotal{Merchant: tx.Merchant, Spent: decimal.Zero}
			byMerchant[tx.Merchant] = mt
			order = append(order, tx.Merchant)
		}
		mt.Spent = mt.Spent.Add(tx.Amount.Abs())
		mt.Count++
	}

	out := make([]MerchantTotal, 0, len(order))
	for _, m := range order {
		out = append(out, *byMerchant[m])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Spent.GreaterThan(out[j].Spent)
	})
	return out
}

// TopByAbsAmount returns the n transactions with the largest magnitudes,
// ties kept in source order.
func TopByAbsAmount(txs []ledger.Transaction, n int) []ledger.Transaction {
	sorted := make([]ledger.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.Abs().GreaterThan(sorted[j].Amount.Abs())
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// SameDayGroup is a set of same-merchant charges on one date, a common
// split-payment pattern.
type SameDayGroup struct {
	Merchant     string
	Date         string
	Transactions []ledger.Transaction
	Total        decimal.Decimal
}

// SameDayMerchantGroups finds merchants charged more than once on the same
// day. Groups appear in first-occurrence order.
func SameDayMerchantGroups(txs []ledger.Transaction) []SameDayGroup {
	type key struct {
		merchant string
		date     string
	}
	groups := make(map[key][]ledger.Transaction)
	var order []key
	for _, tx := range txs {
		if tx.Merchant == "" {
			continue
		}
		k := key{merchant: tx.Merchant, date: tx.DateString()}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], tx)
	}

	var out []SameDayGroup
	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		total := decimal.Zero
		for _, tx := range members {
			total = total.Add(tx.Amount)
		}
		out = append(out, SameDayGroup{
			Merchant:     k.merchant,
			Date:         k.date,
			Transactions: members,
			Total:        total,
		})
	}
	return out
}
