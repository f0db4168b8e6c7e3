package ledger

// Category is the closed spending-category enumeration. New categories require
// a matching CategoryConfig entry; nothing else in the codebase invents them.
type Category string

const (
	CategoryGroceries     Category = "Groceries"
	CategoryDining        Category = "Dining"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryUtilities     Category = "Utilities"
	CategoryHousing       Category = "Housing"
	CategoryHealth        Category = "Health"
	CategoryCash          Category = "Cash"
	CategoryFees          Category = "Fees"
	CategoryTransfers     Category = "Transfers"
	CategoryIncome        Category = "Income"
	CategoryAlcohol       Category = "Alcohol"
	CategoryUnknown       Category = "Unknown"
)

// CategoryConfig is static reference data for one category: its allowed
// subcategories (first entry is the default), the keyword list used by the
// classification fallback, and example merchants kept for any future prompt
// context.
type CategoryConfig struct {
	Category         Category
	Subcategories    []string
	FallbackKeywords []string
	ExampleMerchants []string
}

// CategoryConfigs is the ordered category reference table. Declaration order
// is the documented tie-break order wherever categories are scanned.
var CategoryConfigs = []CategoryConfig{
	{
		Category:         CategoryGroceries,
		Subcategories:    []string{"Supermarket", "Convenience", "Market"},
		FallbackKeywords: []string{"supermarket", "grocery", "groceries", "food store", "mart", "market", "convenience"},
		ExampleMerchants: []string{"Tesco", "Sainsbury's", "Aldi"},
	},
	{
		Category:         CategoryDining,
		Subcategories:    []string{"Restaurant", "Coffee", "Fast Food", "Takeaway", "Pub"},
		FallbackKeywords: []string{"restaurant", "cafe", "coffee", "pizza", "burger", "kebab", "takeaway", "grill", "diner", "sushi", "bakery", "kitchen"},
		ExampleMerchants: []string{"Nando's", "Pret A Manger", "Deliveroo"},
	},
	{
		Category:         CategoryTransport,
		Subcategories:    []string{"Public Transit", "Rideshare", "Rail", "Fuel", "Parking", "Flights"},
		FallbackKeywords: []string{"transport", "travel", "rail", "train", "bus", "taxi", "tube", "underground", "parking", "petrol", "fuel", "airline", "airways"},
		ExampleMerchants: []string{"TfL", "Trainline", "Uber"},
	},
	{
		Category:         CategoryShopping,
		Subcategories:    []string{"Online", "Clothing", "Electronics", "Home", "General"},
		FallbackKeywords: []string{"store", "shop", "retail", "clothing", "fashion", "electronics", "furniture", "online order"},
		ExampleMerchants: []string{"Amazon", "Argos", "Primark"},
	},
	{
		Category:         CategoryEntertainment,
		Subcategories:    []string{"Streaming", "Gaming", "Cinema", "Events", "Music"},
		FallbackKeywords: []string{"cinema", "theatre", "streaming", "gaming", "tickets", "concert", "festival", "museum"},
		ExampleMerchants: []string{"Netflix", "Spotify", "Odeon"},
	},
	{
		Category:         CategoryUtilities,
		Subcategories:    []string{"Electricity", "Gas", "Water", "Telecom", "Broadband", "Council Tax"},
		FallbackKeywords: []string{"energy", "electric", "gas", "water", "broadband", "mobile", "telecom", "utility", "council tax"},
		ExampleMerchants: []string{"British Gas", "Thames Water", "Vodafone"},
	},
	{
		Category:         CategoryHousing,
		Subcategories:    []string{"Rent", "Mortgage", "Insurance", "Maintenance"},
		FallbackKeywords: []string{"rent", "mortgage", "landlord", "letting", "estate", "property", "insurance"},
		ExampleMerchants: []string{"Foxtons", "Aviva"},
	},
	{
		Category:         CategoryHealth,
		Subcategories:    []string{"Pharmacy", "Gym", "Medical", "Dental"},
		FallbackKeywords: []string{"pharmacy", "chemist", "gym", "fitness", "dental", "clinic", "optician", "doctor"},
		ExampleMerchants: []string{"Boots", "PureGym"},
	},
	{
		Category:         CategoryCash,
		Subcategories:    []string{"ATM", "Cashback"},
		FallbackKeywords: []string{"atm", "cash", "withdrawal", "cashpoint"},
		ExampleMerchants: []string{"LINK ATM"},
	},
	{
		Category:         CategoryFees,
		Subcategories:    []string{"Bank Fee", "Interest", "Foreign Exchange", "Overdraft"},
		FallbackKeywords: []string{"fee", "charge", "interest", "overdraft", "commission"},
		ExampleMerchants: []string{},
	},
	{
		Category:         CategoryTransfers,
		Subcategories:    []string{"Personal", "Internal", "Savings"},
		FallbackKeywords: []string{"transfer", "standing order", "faster payment", "sent money"},
		ExampleMerchants: []string{},
	},
	{
		Category:         CategoryIncome,
		Subcategories:    []string{"Salary", "Refund", "Interest", "Other"},
		FallbackKeywords: []string{"salary", "payroll", "wages", "refund", "dividend", "hmrc"},
		ExampleMerchants: []string{},
	},
	{
		Category:         CategoryAlcohol,
		Subcategories:    []string{"Off-License", "Bar"},
		FallbackKeywords: []string{"wine", "beer", "spirits", "off license", "offlicence", "brewery", "bar"},
		ExampleMerchants: []string{"Majestic Wine"},
	},
	{
		Category:         CategoryUnknown,
		Subcategories:    []string{},
		FallbackKeywords: []string{},
		ExampleMerchants: []string{},
	},
}

var categoryConfigIndex = buildCategoryIndex()

func buildCategoryIndex() map[Category]*CategoryConfig {
	idx := make(map[Category]*CategoryConfig, len(CategoryConfigs))
	for i := range CategoryConfigs {
		idx[CategoryConfigs[i].Category] = &CategoryConfigs[i]
	}
	return idx
}

// ConfigFor returns the reference config for a category, or nil for an
// unknown value.
func ConfigFor(c Category) *CategoryConfig {
	return categoryConfigIndex[c]
}

// ValidSubcategory reports whether sub belongs to c's subcategory set.
// The empty subcategory is always valid.
func ValidSubcategory(c Category, sub string) bool {
	if sub == "" {
		return true
	}
	cfg := ConfigFor(c)
	if cfg == nil {
		return false
	}
	for _, s := range cfg.Subcategories {
		if s == sub {
			return true
		}
	}
	return false
}

// DefaultSubcategory returns the first configured subcategory for c, or "".
func DefaultSubcategory(c Category) string {
	cfg := ConfigFor(c)
	if cfg == nil || len(cfg.Subcategories) == 0 {
		return ""
	}
	return cfg.Subcategories[0]
}
