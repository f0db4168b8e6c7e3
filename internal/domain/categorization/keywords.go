package categorization

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/shopspring/decimal"

	"github.com/clearspend/statement-core/internal/domain/ledger"
)

// keywordIndex matches every configured category keyword in one pass over
// the text. Built once from the static category table.
type keywordIndex struct {
	matcher    *ahocorasick.Matcher
	categories []ledger.Category // parallel to the matcher dictionary
}

func newKeywordIndex() *keywordIndex {
	var dict []string
	var cats []ledger.Category
	for _, cfg := range ledger.CategoryConfigs {
		for _, kw := range cfg.FallbackKeywords {
			dict = append(dict, kw)
			cats = append(cats, cfg.Category)
		}
	}
	return &keywordIndex{
		matcher:    ahocorasick.NewStringMatcher(dict),
		categories: cats,
	}
}

// score returns the best-scoring category and its distinct keyword hit
// count. Ties go to the category declared first in the reference table.
func (k *keywordIndex) score(text string) (ledger.Category, int) {
	hits := k.matcher.Match([]byte(strings.ToLower(text)))

	counts := make(map[ledger.Category]int)
	for _, idx := range hits {
		counts[k.categories[idx]]++
	}

	best := ledger.CategoryUnknown
	bestCount := 0
	for _, cfg := range ledger.CategoryConfigs {
		if n := counts[cfg.Category]; n > bestCount {
			best = cfg.Category
			bestCount = n
		}
	}
	return best, bestCount
}

var (
	noiseCeiling    = decimal.NewFromInt(1)
	reviewFloor     = decimal.NewFromInt(10000)
	foodSingleSpend = decimal.NewFromInt(200)
)

// plausibilityFactor discounts confidence for amounts that make the assigned
// category unlikely.
func plausibilityFactor(category ledger.Category, amount decimal.Decimal) float64 {
	abs := amount.Abs()
	switch {
	case abs.LessThan(noiseCeiling):
		return 0.6
	case abs.GreaterThan(reviewFloor):
		return 0.7
	case (category == ledger.CategoryGroceries || category == ledger.CategoryDining) &&
		abs.GreaterThan(foodSingleSpend):
		return 0.7
	default:
		return 1.0
	}
}

// fallbackClassify scores categories by keyword hits over merchant plus
// description.
func (c *Classifier) fallbackClassify(tx ledger.Transaction) Result {
	text := tx.Merchant + " " + tx.RawDescription
	category, count := c.keywords.score(text)

	confidence := 0.3
	if count > 0 {
		confidence = 0.5 + 0.1*float64(count)
		if confidence > 0.7 {
			confidence = 0.7
		}
	} else {
		category = ledger.CategoryUnknown
	}

	confidence *= plausibilityFactor(category, tx.Amount)

	return Result{
		Category:    category,
		Subcategory: ledger.DefaultSubcategory(category),
		Confidence:  confidence,
		Notes:       "Matched by keyword scoring",
	}
}
