package normalizer

import "github.com/clearspend/statement-core/internal/domain/ledger"

// MerchantMetadata is static reference data for one known merchant. The table
// is immutable for the lifetime of the process.
type MerchantMetadata struct {
	Key            string // normalized lookup key: lowercase, no whitespace
	DisplayName    string
	Category       ledger.Category
	Subcategory    string
	Aliases        []string
	BaseConfidence float64
}

// knownMerchants is the curated merchant table. Declaration order is the
// documented tie-break order for containment matches; keep new entries at the
// end of their section.
var knownMerchants = []MerchantMetadata{
	// Supermarkets
	{Key: "tesco", DisplayName: "Tesco", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", Aliases: []string{"tesco stores", "tesco express", "tesco metro", "tesco extra"}, BaseConfidence: 0.98},
	{Key: "sainsburys", DisplayName: "Sainsbury's", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", Aliases: []string{"sainsbury s", "sacat sainsburys"}, BaseConfidence: 0.98},
	{Key: "asda", DisplayName: "Asda", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", Aliases: []string{"asda superstore", "asda stores"}, BaseConfidence: 0.98},
	{Key: "aldi", DisplayName: "Aldi", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", BaseConfidence: 0.98},
	{Key: "lidl", DisplayName: "Lidl", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", Aliases: []string{"lidl gb"}, BaseConfidence: 0.98},
	{Key: "morrisons", DisplayName: "Morrisons", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", Aliases: []string{"wm morrisons", "wm morrison"}, BaseConfidence: 0.98},
	{Key: "waitrose", DisplayName: "Waitrose", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", BaseConfidence: 0.98},
	{Key: "coop", DisplayName: "Co-op", Category: ledger.CategoryGroceries, Subcategory: "Convenience", Aliases: []string{"co op", "co operative", "cooperative food"}, BaseConfidence: 0.95},
	{Key: "marksspencer", DisplayName: "Marks & Spencer", Category: ledger.CategoryGroceries, Subcategory: "Supermarket", Aliases: []string{"m s simply food", "marks and spencer", "m and s"}, BaseConfidence: 0.92},

	// Coffee and food
	{Key: "pretamanger", DisplayName: "Pret A Manger", Category: ledger.CategoryDining, Subcategory: "Coffee", Aliases: []string{"pret"}, BaseConfidence: 0.97},
	{Key: "costacoffee", DisplayName: "Costa Coffee", Category: ledger.CategoryDining, Subcategory: "Coffee", Aliases: []string{"costa"}, BaseConfidence: 0.97},
	{Key: "starbucks", DisplayName: "Starbucks", Category: ledger.CategoryDining, Subcategory: "Coffee", BaseConfidence: 0.97},
	{Key: "caffenero", DisplayName: "Caffè Nero", Category: ledger.CategoryDining, Subcategory: "Coffee", Aliases: []string{"caffe nero", "cafe nero"}, BaseConfidence: 0.97},
	{Key: "greggs", DisplayName: "Greggs", Category: ledger.CategoryDining, Subcategory: "Fast Food", BaseConfidence: 0.97},
	{Key: "mcdonalds", DisplayName: "McDonald's", Category: ledger.CategoryDining, Subcategory: "Fast Food", Aliases: []string{"mc donalds", "mcd"}, BaseConfidence: 0.97},
	{Key: "kfc", DisplayName: "KFC", Category: ledger.CategoryDining, Subcategory: "Fast Food", BaseConfidence: 0.97},
	{Key: "nandos", DisplayName: "Nando's", Category: ledger.CategoryDining, Subcategory: "Restaurant", BaseConfidence: 0.97},
	{Key: "deliveroo", DisplayName: "Deliveroo", Category: ledger.CategoryDining, Subcategory: "Takeaway", BaseConfidence: 0.97},
	{Key: "justeat", DisplayName: "Just Eat", Category: ledger.CategoryDining, Subcategory: "Takeaway", Aliases: []string{"just eat co uk"}, BaseConfidence: 0.97},
	{Key: "ubereats", DisplayName: "Uber Eats", Category: ledger.CategoryDining, Subcategory: "Takeaway", Aliases: []string{"uber eats pending"}, BaseConfidence: 0.97},
	{Key: "dominos", DisplayName: "Domino's Pizza", Category: ledger.CategoryDining, Subcategory: "Takeaway", Aliases: []string{"dominos pizza"}, BaseConfidence: 0.97},

	// Transport. Uber Eats is declared above Uber so the longer key wins
	// containment before the generic rideshare entry.
	{Key: "uber", DisplayName: "Uber", Category: ledger.CategoryTransport, Subcategory: "Rideshare", Aliases: []string{"uber trip", "uber bv"}, BaseConfidence: 0.95},
	{Key: "bolt", DisplayName: "Bolt", Category: ledger.CategoryTransport, Subcategory: "Rideshare", Aliases: []string{"bolt eu"}, BaseConfidence: 0.9},
	{Key: "tfl", DisplayName: "Transport for London", Category: ledger.CategoryTransport, Subcategory: "Public Transit", Aliases: []string{"tfl travel ch", "tfl travel charge", "transport for london"}, BaseConfidence: 0.98},
	{Key: "trainline", DisplayName: "Trainline", Category: ledger.CategoryTransport, Subcategory: "Rail", Aliases: []string{"the trainline"}, BaseConfidence: 0.97},
	{Key: "nationalrail", DisplayName: "National Rail", Category: ledger.CategoryTransport, Subcategory: "Rail", Aliases: []string{"gwr", "lner", "avanti west coast", "southeastern", "thameslink"}, BaseConfidence: 0.92},
	{Key: "shell", DisplayName: "Shell", Category: ledger.CategoryTransport, Subcategory: "Fuel", BaseConfidence: 0.92},
	{Key: "bpfuel", DisplayName: "BP", Category: ledger.CategoryTransport, Subcategory: "Fuel", Aliases: []string{"bp connect", "bp service station"}, BaseConfidence: 0.9},
	{Key: "esso", DisplayName: "Esso", Category: ledger.CategoryTransport, Subcategory: "Fuel", BaseConfidence: 0.92},
	{Key: "ryanair", DisplayName: "Ryanair", Category: ledger.CategoryTransport, Subcategory: "Flights", BaseConfidence: 0.97},
	{Key: "easyjet", DisplayName: "easyJet", Category: ledger.CategoryTransport, Subcategory: "Flights", BaseConfidence: 0.97},
	{Key: "britishairways", DisplayName: "British Airways", Category: ledger.CategoryTransport, Subcategory: "Flights", Aliases: []string{"ba com"}, BaseConfidence: 0.97},

	// Streaming and entertainment
	{Key: "netflix", DisplayName: "Netflix", Category: ledger.CategoryEntertainment, Subcategory: "Streaming", Aliases: []string{"netflix com"}, BaseConfidence: 0.99},
	{Key: "spotify", DisplayName: "Spotify", Category: ledger.CategoryEntertainment, Subcategory: "Streaming", BaseConfidence: 0.99},
	{Key: "disneyplus", DisplayName: "Disney+", Category: ledger.CategoryEntertainment, Subcategory: "Streaming", Aliases: []string{"disney plus"}, BaseConfidence: 0.99},
	{Key: "primevideo", DisplayName: "Prime Video", Category: ledger.CategoryEntertainment, Subcategory: "Streaming", Aliases: []string{"amazon prime video"}, BaseConfidence: 0.95},
	{Key: "youtubepremium", DisplayName: "YouTube Premium", Category: ledger.CategoryEntertainment, Subcategory: "Streaming", Aliases: []string{"youtube"}, BaseConfidence: 0.9},
	{Key: "audible", DisplayName: "Audible", Category: ledger.CategoryEntertainment, Subcategory: "Streaming", BaseConfidence: 0.98},
	{Key: "steam", DisplayName: "Steam", Category: ledger.CategoryEntertainment, Subcategory: "Gaming", Aliases: []string{"steam games", "steampowered"}, BaseConfidence: 0.95},
	{Key: "playstation", DisplayName: "PlayStation", Category: ledger.CategoryEntertainment, Subcategory: "Gaming", Aliases: []string{"playstation network", "psn"}, BaseConfidence: 0.95},
	{Key: "odeon", DisplayName: "Odeon", Category: ledger.CategoryEntertainment, Subcategory: "Cinema", BaseConfidence: 0.95},
	{Key: "vue", DisplayName: "Vue Cinema", Category: ledger.CategoryEntertainment, Subcategory: "Cinema", Aliases: []string{"vue cinemas"}, BaseConfidence: 0.9},

	// Shopping. Amazon after Prime Video so the streaming key matches first.
	{Key: "amazon", DisplayName: "Amazon", Category: ledger.CategoryShopping, Subcategory: "Online", Aliases: []string{"amzn mktp", "amazon co uk", "amz"}, BaseConfidence: 0.92},
	{Key: "argos", DisplayName: "Argos", Category: ledger.CategoryShopping, Subcategory: "General", BaseConfidence: 0.95},
	{Key: "primark", DisplayName: "Primark", Category: ledger.CategoryShopping, Subcategory: "Clothing", BaseConfidence: 0.97},
	{Key: "hm", DisplayName: "H&M", Category: ledger.CategoryShopping, Subcategory: "Clothing", Aliases: []string{"h m hennes", "h and m"}, BaseConfidence: 0.9},
	{Key: "zara", DisplayName: "Zara", Category: ledger.CategoryShopping, Subcategory: "Clothing", BaseConfidence: 0.95},
	{Key: "ikea", DisplayName: "IKEA", Category: ledger.CategoryShopping, Subcategory: "Home", BaseConfidence: 0.97},
	{Key: "currys", DisplayName: "Currys", Category: ledger.CategoryShopping, Subcategory: "Electronics", Aliases: []string{"currys pc world"}, BaseConfidence: 0.95},
	{Key: "apple", DisplayName: "Apple", Category: ledger.CategoryShopping, Subcategory: "Electronics", Aliases: []string{"apple com bill", "itunes com"}, BaseConfidence: 0.9},

	// Health
	{Key: "boots", DisplayName: "Boots", Category: ledger.CategoryHealth, Subcategory: "Pharmacy", BaseConfidence: 0.95},
	{Key: "superdrug", DisplayName: "Superdrug", Category: ledger.CategoryHealth, Subcategory: "Pharmacy", BaseConfidence: 0.95},
	{Key: "puregym", DisplayName: "PureGym", Category: ledger.CategoryHealth, Subcategory: "Gym", Aliases: []string{"pure gym"}, BaseConfidence: 0.97},
	{Key: "thegymgroup", DisplayName: "The Gym Group", Category: ledger.CategoryHealth, Subcategory: "Gym", Aliases: []string{"the gym"}, BaseConfidence: 0.95},

	// Utilities and telecom
	{Key: "britishgas", DisplayName: "British Gas", Category: ledger.CategoryUtilities, Subcategory: "Gas", Aliases: []string{"british gas energy"}, BaseConfidence: 0.98},
	{Key: "edfenergy", DisplayName: "EDF Energy", Category: ledger.CategoryUtilities, Subcategory: "Electricity", Aliases: []string{"edf"}, BaseConfidence: 0.97},
	{Key: "octopusenergy", DisplayName: "Octopus Energy", Category: ledger.CategoryUtilities, Subcategory: "Electricity", Aliases: []string{"octopus"}, BaseConfidence: 0.97},
	{Key: "thameswater", DisplayName: "Thames Water", Category: ledger.CategoryUtilities, Subcategory: "Water", BaseConfidence: 0.98},
	{Key: "vodafone", DisplayName: "Vodafone", Category: ledger.CategoryUtilities, Subcategory: "Telecom", BaseConfidence: 0.97},
	{Key: "ee", DisplayName: "EE", Category: ledger.CategoryUtilities, Subcategory: "Telecom", Aliases: []string{"ee limited", "ee top up"}, BaseConfidence: 0.9},
	{Key: "o2", DisplayName: "O2", Category: ledger.CategoryUtilities, Subcategory: "Telecom", Aliases: []string{"o2 uk"}, BaseConfidence: 0.9},
	{Key: "three", DisplayName: "Three", Category: ledger.CategoryUtilities, Subcategory: "Telecom", Aliases: []string{"three co uk", "3 mobile"}, BaseConfidence: 0.85},
	{Key: "virginmedia", DisplayName: "Virgin Media", Category: ledger.CategoryUtilities, Subcategory: "Broadband", BaseConfidence: 0.97},
	{Key: "sky", DisplayName: "Sky", Category: ledger.CategoryUtilities, Subcategory: "Broadband", Aliases: []string{"sky digital", "sky mobile"}, BaseConfidence: 0.9},
	{Key: "bt", DisplayName: "BT", Category: ledger.CategoryUtilities, Subcategory: "Broadband", Aliases: []string{"bt group", "bt broadband"}, BaseConfidence: 0.85},

	// Finance
	{Key: "paypal", DisplayName: "PayPal", Category: ledger.CategoryTransfers, Subcategory: "Personal", BaseConfidence: 0.8},
	{Key: "revolut", DisplayName: "Revolut", Category: ledger.CategoryTransfers, Subcategory: "Internal", BaseConfidence: 0.85},
	{Key: "monzo", DisplayName: "Monzo", Category: ledger.CategoryTransfers, Subcategory: "Internal", BaseConfidence: 0.85},
	{Key: "hmrc", DisplayName: "HMRC", Category: ledger.CategoryIncome, Subcategory: "Other", Aliases: []string{"hm revenue customs"}, BaseConfidence: 0.9},

	// Alcohol
	{Key: "majesticwine", DisplayName: "Majestic Wine", Category: ledger.CategoryAlcohol, Subcategory: "Off-License", Aliases: []string{"majestic"}, BaseConfidence: 0.95},
}

var knownMerchantIndex = buildMerchantIndex()

func buildMerchantIndex() map[string]*MerchantMetadata {
	idx := make(map[string]*MerchantMetadata, len(knownMerchants))
	for i := range knownMerchants {
		idx[knownMerchants[i].Key] = &knownMerchants[i]
	}
	return idx
}

// KnownMerchants returns the table in declaration order. Callers must treat
// the result as read-only.
func KnownMerchants() []MerchantMetadata {
	return knownMerchants
}
