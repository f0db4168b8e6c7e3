package categorization

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clearspend/statement-core/internal/domain/importer/normalizer"
	"github.com/clearspend/statement-core/internal/domain/ledger"
)

// EdgeRule is one predicate with a fixed outcome. Rules are evaluated in
// declaration order and the first match wins; several predicates overlap
// (a cash-machine line can also carry a person-like token), so the order is
// part of the contract.
type EdgeRule struct {
	Name  string
	Match func(in RuleInput) bool
	Result
}

// Result is the classification an edge rule assigns.
type Result struct {
	Category    ledger.Category
	Subcategory string
	Confidence  float64
	Notes       string
}

// RuleInput is the evidence an edge rule sees: lowercased merchant and
// description, the signed amount, and two resolver-derived signals.
type RuleInput struct {
	Merchant    string
	Description string
	Amount      decimal.Decimal
	PersonLike  bool // cleaned merchant looks like a person's name
	LegalEntity bool // raw description carries a legal-entity suffix
}

func (in RuleInput) anyContains(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(in.Merchant, kw) || strings.Contains(in.Description, kw) {
			return true
		}
	}
	return false
}

func (in RuleInput) descContains(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(in.Description, kw) {
			return true
		}
	}
	return false
}

func (in RuleInput) amountBetween(lo, hi int64) bool {
	abs := in.Amount.Abs()
	return abs.GreaterThanOrEqual(decimal.NewFromInt(lo)) && abs.LessThanOrEqual(decimal.NewFromInt(hi))
}

// EdgeRules is the ordered rule table.
var EdgeRules = []EdgeRule{
	{
		Name: "atm_cash",
		Match: func(in RuleInput) bool {
			return in.anyContains("atm", "cash machine", "cashpoint", "cash", "withdrawal", "dispense")
		},
		Result: Result{ledger.CategoryCash, "ATM", 0.95, "Cash machine withdrawal"},
	},
	{
		Name: "rent",
		Match: func(in RuleInput) bool {
			if in.anyContains("rent", "landlord", "letting") {
				return true
			}
			return in.amountBetween(500, 5000) &&
				in.descContains("standing order", "s/o") &&
				in.PersonLike
		},
		Result: Result{ledger.CategoryHousing, "Rent", 0.85, "Likely rent payment"},
	},
	{
		Name: "p2p_transfer",
		Match: func(in RuleInput) bool {
			return in.PersonLike
		},
		Result: Result{ledger.CategoryTransfers, "Personal", 0.70, "Transfer to a person"},
	},
	{
		Name: "alcohol",
		Match: func(in RuleInput) bool {
			return in.anyContains("off license", "off-licence", "offlicence", "wine", "beer", "spirits", "brewery")
		},
		Result: Result{ledger.CategoryAlcohol, "Off-License", 0.80, "Off-license purchase"},
	},
	{
		Name: "small_cafe",
		Match: func(in RuleInput) bool {
			return in.anyContains("cafe", "coffee", "espresso", "bakery") && in.amountBetween(2, 15)
		},
		Result: Result{ledger.CategoryDining, "Coffee", 0.75, "Small cafe purchase"},
	},
	{
		Name: "bank_fee",
		Match: func(in RuleInput) bool {
			return in.anyContains("bank fee", "account fee", "service charge", "overdraft fee", "maintenance fee")
		},
		Result: Result{ledger.CategoryFees, "Bank Fee", 0.90, "Bank service fee"},
	},
	{
		Name: "interest_charge",
		Match: func(in RuleInput) bool {
			return in.descContains("interest charged", "interest charge", "debit interest")
		},
		Result: Result{ledger.CategoryFees, "Interest", 0.95, "Interest charge"},
	},
	{
		Name: "refund",
		Match: func(in RuleInput) bool {
			return in.Amount.IsPositive() &&
				in.descContains("refund", "reversal", "chargeback")
		},
		Result: Result{ledger.CategoryIncome, "Refund", 0.85, "Refund or reversal"},
	},
	{
		Name: "salary",
		Match: func(in RuleInput) bool {
			if !in.Amount.IsPositive() {
				return false
			}
			if in.anyContains("salary", "payroll", "wages") {
				return true
			}
			return in.Amount.GreaterThanOrEqual(decimal.NewFromInt(1000)) && in.LegalEntity
		},
		Result: Result{ledger.CategoryIncome, "Salary", 0.90, "Salary credit"},
	},
	{
		Name: "internal_transfer",
		Match: func(in RuleInput) bool {
			return in.anyContains("transfer to savings", "internal transfer", "own account", "transfer between accounts")
		},
		Result: Result{ledger.CategoryTransfers, "Internal", 0.90, "Transfer between own accounts"},
	},
	{
		Name: "fx_fee",
		Match: func(in RuleInput) bool {
			return in.anyContains("fx fee", "foreign exchange", "exchange rate fee", "non-sterling", "currency conversion")
		},
		Result: Result{ledger.CategoryFees, "Foreign Exchange", 0.90, "Foreign exchange fee"},
	},
}

// evalEdgeRules runs the table in order. ok=false means no rule fired.
func evalEdgeRules(tx ledger.Transaction) (Result, string, bool) {
	cleaned := normalizer.Clean(tx.Merchant)
	in := RuleInput{
		Merchant:    strings.ToLower(tx.Merchant),
		Description: strings.ToLower(tx.RawDescription),
		Amount:      tx.Amount,
		PersonLike:  normalizer.LooksLikePersonName(cleaned),
		LegalEntity: normalizer.HasLegalSuffix(tx.RawDescription),
	}
	for _, rule := range EdgeRules {
		if rule.Match(in) {
			return rule.Result, rule.Name, true
		}
	}
	return Result{}, "", false
}
