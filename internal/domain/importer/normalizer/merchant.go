// Package normalizer resolves raw merchant/description strings into canonical
// display names, matching against a curated known-merchant table with alias,
// containment and fuzzy matching.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Resolution is the outcome of resolving a raw merchant string.
type Resolution struct {
	CleanedKey    string            // cleaned, lowercased, space-separated form
	CanonicalName string            // display name: table entry or title-cased key
	Metadata      *MerchantMetadata // nil when the merchant is not in the table
}

// Resolver cleans raw merchant strings and looks them up in the static table.
type Resolver struct {
	fuzzyThreshold int
}

// NewResolver creates a resolver. fuzzyThreshold is the minimum rank score
// (0-100) for the last-chance fuzzy alias stage; <= 0 disables it.
func NewResolver(fuzzyThreshold int) *Resolver {
	return &Resolver{fuzzyThreshold: fuzzyThreshold}
}

// Boilerplate transaction prefixes stripped after punctuation cleanup.
// Longer phrases come first so "direct debit to" wins over "direct debit".
var boilerplatePrefixes = []string{
	"card payment to",
	"direct debit to",
	"standing order to",
	"payment to",
	"direct debit",
	"standing order",
	"card payment",
	"faster payment",
	"bank transfer",
	"contactless payment",
	"contactless",
	"debit card",
	"card purchase",
	"purchase",
	"payment",
	"pos",
	"ddr",
	"bgc",
	"chaps",
}

var legalSuffixes = []string{"ltd", "limited", "inc", "llc", "plc", "gmbh", "co", "uk"}

var (
	urlSchemeRe     = regexp.MustCompile(`^(https?://|www\.)`)
	domainSuffixRe  = regexp.MustCompile(`\.(com|co\.uk|net|org|io|uk)\b`)
	locationTailRe  = regexp.MustCompile(`\s+-\s+[a-z ]+$`)
	trailingDigitRe = regexp.MustCompile(`(\s+\d+)+$`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRe         = regexp.MustCompile(`\s+`)
)

// Clean runs the cleaning pipeline over a raw merchant string. Each step is
// idempotent; running Clean over its own output is a no-op.
func Clean(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	s = urlSchemeRe.ReplaceAllString(s, "")
	s = domainSuffixRe.ReplaceAllString(s, "")
	s = locationTailRe.ReplaceAllString(s, "")
	s = trailingDigitRe.ReplaceAllString(s, "")
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")

	for changed := true; changed; {
		changed = false
		for _, prefix := range boilerplatePrefixes {
			if s == prefix {
				continue
			}
			if strings.HasPrefix(s, prefix+" ") {
				s = strings.TrimSpace(strings.TrimPrefix(s, prefix+" "))
				changed = true
			}
		}
	}

	// Legal-entity suffix comes off last so "greggs plc 1234" still cleans.
	words := strings.Fields(s)
	for len(words) > 1 {
		last := words[len(words)-1]
		if !containsString(legalSuffixes, last) {
			break
		}
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

// Resolve cleans raw and looks it up against the known-merchant table.
// Lookup order: exact key match, alias containment, table-key containment,
// then an optional fuzzy alias pass. Table iteration is declaration order, so
// ties resolve to the earliest entry.
func (r *Resolver) Resolve(raw string) Resolution {
	cleaned := Clean(raw)
	key := strings.ReplaceAll(cleaned, " ", "")

	if key == "" {
		return Resolution{CleanedKey: cleaned, CanonicalName: TitleCase(cleaned)}
	}

	if meta, ok := knownMerchantIndex[key]; ok {
		return Resolution{CleanedKey: cleaned, CanonicalName: meta.DisplayName, Metadata: meta}
	}

	for i := range knownMerchants {
		meta := &knownMerchants[i]
		for _, alias := range meta.Aliases {
			aliasKey := strings.ReplaceAll(strings.ToLower(alias), " ", "")
			if aliasKey == "" {
				continue
			}
			if containsEither(key, aliasKey) {
				return Resolution{CleanedKey: cleaned, CanonicalName: meta.DisplayName, Metadata: meta}
			}
		}
	}

	for i := range knownMerchants {
		meta := &knownMerchants[i]
		if containsEither(key, meta.Key) {
			return Resolution{CleanedKey: cleaned, CanonicalName: meta.DisplayName, Metadata: meta}
		}
	}

	if r.fuzzyThreshold > 0 {
		if meta := r.fuzzyLookup(cleaned); meta != nil {
			return Resolution{CleanedKey: cleaned, CanonicalName: meta.DisplayName, Metadata: meta}
		}
	}

	return Resolution{CleanedKey: cleaned, CanonicalName: TitleCase(cleaned)}
}

// fuzzyLookup is the last-chance stage: rank the cleaned string against every
// display name and alias, keeping the best score at or above the threshold.
func (r *Resolver) fuzzyLookup(cleaned string) *MerchantMetadata {
	var best *MerchantMetadata
	bestScore := r.fuzzyThreshold - 1

	score := func(candidate string) int {
		rank := fuzzy.RankMatchNormalizedFold(cleaned, candidate)
		if rank < 0 {
			return -1
		}
		// Shorter distances rank better; fold into a 0-100 score.
		s := 100 - rank*100/maxInt(len(cleaned), 1)
		if s < 0 {
			s = 0
		}
		return s
	}

	for i := range knownMerchants {
		meta := &knownMerchants[i]
		candidates := append([]string{meta.DisplayName}, meta.Aliases...)
		for _, c := range candidates {
			if s := score(strings.ToLower(c)); s > bestScore {
				bestScore = s
				best = meta
			}
		}
	}

	return best
}

// personNameWordRe matches a plausible name word: letters only.
var personNameWordRe = regexp.MustCompile(`^[a-z]+$`)

// LooksLikePersonName reports whether a cleaned merchant string is plausibly a
// person rather than a business: one word of length 3-12, or two/three
// digit-free words of length 2-15 each.
func LooksLikePersonName(cleaned string) bool {
	words := strings.Fields(cleaned)
	switch len(words) {
	case 1:
		n := len(words[0])
		return n >= 3 && n <= 12 && personNameWordRe.MatchString(words[0])
	case 2, 3:
		for _, w := range words {
			if len(w) < 2 || len(w) > 15 || !personNameWordRe.MatchString(w) {
				return false
			}
		}
		return true
	}
	return false
}

// HasLegalSuffix reports whether the raw string ends in a company suffix
// (Ltd, Inc, Corp, PLC, LLC). Used by the salary edge rule.
func HasLegalSuffix(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	lower = nonAlnumRe.ReplaceAllString(lower, " ")
	words := strings.Fields(lower)
	if len(words) == 0 {
		return false
	}
	last := words[len(words)-1]
	for _, s := range []string{"ltd", "limited", "inc", "corp", "plc", "llc", "gmbh"} {
		if last == s {
			return true
		}
	}
	return false
}

// TitleCase capitalizes each whitespace-delimited word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// containsEither reports whether one key contains the other. Substrings
// shorter than four characters are too collision-prone ("ee" is inside
// "coffee"), so those only match on equality.
func containsEither(a, b string) bool {
	if a == b {
		return true
	}
	if len(b) >= 4 && strings.Contains(a, b) {
		return true
	}
	return len(a) >= 4 && strings.Contains(b, a)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
