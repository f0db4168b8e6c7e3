// Package categorization assigns a category, subcategory, and confidence to
// each transaction through a three-stage cascade: known-merchant lookup,
// edge-case rules, and keyword scoring.
package categorization

import (
	"context"
	"log/slog"

	"github.com/clearspend/statement-core/internal/domain/importer/normalizer"
	"github.com/clearspend/statement-core/internal/domain/ledger"
)

// Classification method names, reported to callers so corrections and review
// can distinguish how confident the source stage was.
const (
	MethodKnownMerchant = "known_merchant"
	MethodEdgeCase      = "edge_case"
	MethodFallback      = "fallback"
)

// Classification is the outcome for one transaction.
type Classification struct {
	Result
	Method string
	Rule   string // edge rule name, set only for MethodEdgeCase
}

// Classifier runs the cascade. Safe for concurrent use: all state is
// immutable after construction.
type Classifier struct {
	logger   *slog.Logger
	resolver *normalizer.Resolver
	keywords *keywordIndex
}

// NewClassifier builds a classifier sharing the import pipeline's resolver.
func NewClassifier(resolver *normalizer.Resolver, logger *slog.Logger) *Classifier {
	return &Classifier{
		logger:   logger,
		resolver: resolver,
		keywords: newKeywordIndex(),
	}
}

// Classify is a pure function of the transaction plus static reference data.
// It never fails; the worst outcome is Unknown at low confidence.
func (c *Classifier) Classify(tx ledger.Transaction) Classification {
	res := c.resolver.Resolve(tx.RawDescription)
	if res.Metadata == nil && tx.Merchant != "" {
		res = c.resolver.Resolve(tx.Merchant)
	}
	if res.Metadata != nil {
		return Classification{
			Result: Result{
				Category:    res.Metadata.Category,
				Subcategory: res.Metadata.Subcategory,
				Confidence:  res.Metadata.BaseConfidence,
				Notes:       "Known merchant: " + res.Metadata.DisplayName,
			},
			Method: MethodKnownMerchant,
		}
	}

	if result, rule, ok := evalEdgeRules(tx); ok {
		return Classification{Result: result, Method: MethodEdgeCase, Rule: rule}
	}

	return Classification{Result: c.fallbackClassify(tx), Method: MethodFallback}
}

// Apply writes a classification onto a transaction.
func Apply(tx *ledger.Transaction, cl Classification) {
	tx.Category = cl.Category
	tx.Subcategory = cl.Subcategory
	tx.Confidence = cl.Confidence
	tx.Notes = cl.Notes
}

// ClassifyBatch classifies every transaction in place. One record's failure
// never aborts the batch: a panic inside the cascade marks that record
// Unknown and moves on. progress may be nil. Context cancellation stops the
// batch early, leaving later records untouched.
func (c *Classifier) ClassifyBatch(ctx context.Context, txs []ledger.Transaction, progress func(done, total int)) error {
	total := len(txs)
	for i := range txs {
		if err := ctx.Err(); err != nil {
			return err
		}
		cl := c.classifySafe(txs[i])
		Apply(&txs[i], cl)
		if progress != nil {
			progress(i+1, total)
		}
	}
	return nil
}

func (c *Classifier) classifySafe(tx ledger.Transaction) (cl Classification) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classification panic",
				slog.String("merchant", tx.Merchant),
				slog.Any("panic", r))
			cl = Classification{
				Result: Result{Category: ledger.CategoryUnknown, Notes: "Categorization failed"},
				Method: MethodFallback,
			}
		}
	}()
	return c.Classify(tx)
}
