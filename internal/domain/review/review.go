// Package review builds a low-confidence review queue and applies user
// corrections, fanning a correction out to the merchant's other
// transactions.
package review

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/clearspend/statement-core/internal/domain/ledger"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Engine holds the review threshold. Transactions classified below it are
// surfaced for manual confirmation.
type Engine struct {
	threshold float64
}

func NewEngine(threshold float64) *Engine {
	return &Engine{threshold: threshold}
}

// NeedsReview reports whether a transaction sits below the threshold.
func (e *Engine) NeedsReview(tx ledger.Transaction) bool {
	return tx.Confidence < e.threshold
}

// Queue returns the transactions needing review, least confident first and,
// at equal confidence, largest magnitude first so the costliest doubts
// surface early.
func (e *Engine) Queue(txs []ledger.Transaction) []ledger.Transaction {
	var out []ledger.Transaction
	for _, tx := range txs {
		if e.NeedsReview(tx) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence < out[j].Confidence
		}
		return out[i].Amount.Abs().GreaterThan(out[j].Amount.Abs())
	})
	return out
}

// Correction is one user decision about a transaction's category.
type Correction struct {
	TransactionID uuid.UUID
	Category      ledger.Category
	Subcategory   string
}

// ApplyCorrection updates the corrected transaction in place and propagates
// the category to every other transaction with the same canonical merchant.
// Propagated records get confidence min(0.9, corrected+0.1) and an
// inherited-note marker. Returns how many records changed in total.
func (e *Engine) ApplyCorrection(txs []ledger.Transaction, c Correction) (int, error) {
	if c.Subcategory != "" && !ledger.ValidSubcategory(c.Category, c.Subcategory) {
		return 0, fmt.Errorf("subcategory %q not valid for category %q", c.Subcategory, c.Category)
	}

	target := -1
	for i := range txs {
		if txs[i].ID == c.TransactionID {
			target = i
			break
		}
	}
	if target < 0 {
		return 0, fmt.Errorf("apply correction %s: %w", c.TransactionID, ErrTransactionNotFound)
	}

	sub := c.Subcategory
	if sub == "" {
		sub = ledger.DefaultSubcategory(c.Category)
	}

	txs[target].Category = c.Category
	txs[target].Subcategory = sub
	txs[target].Confidence = 1.0
	txs[target].Notes = "Corrected by user"

	inherited := txs[target].Confidence + 0.1
	if inherited > 0.9 {
		inherited = 0.9
	}

	merchant := txs[target].Merchant
	changed := 1
	for i := range txs {
		if i == target || merchant == "" || txs[i].Merchant != merchant {
			continue
		}
		txs[i].Category = c.Category
		txs[i].Subcategory = sub
		txs[i].Confidence = inherited
		txs[i].Notes = fmt.Sprintf("Inherited from correction of %s", merchant)
		changed++
	}
	return changed, nil
}
