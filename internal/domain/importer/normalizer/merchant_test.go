package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercase and punctuation", raw: "TESCO-STORES", want: "tesco stores"},
		{name: "url scheme and domain", raw: "www.netflix.com", want: "netflix"},
		{name: "legal suffix", raw: "Greggs PLC", want: "greggs"},
		{name: "location tail", raw: "pret a manger - london bridge", want: "pret a manger"},
		{name: "trailing store code", raw: "TESCO STORES 2041", want: "tesco stores"},
		{name: "boilerplate prefix", raw: "CARD PAYMENT TO TESCO", want: "tesco"},
		{name: "stacked boilerplate", raw: "CONTACTLESS PAYMENT TESCO", want: "tesco"},
		{name: "prefix only is kept", raw: "PAYMENT", want: "payment"},
		{name: "suffix with code", raw: "greggs plc 1234", want: "greggs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw))
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		for _, raw := range []string{"CARD PAYMENT TO TESCO STORES 2041", "www.amazon.co.uk", "J SMITH"} {
			once := Clean(raw)
			assert.Equal(t, once, Clean(once), "Clean(Clean(%q))", raw)
		}
	})
}

func TestResolve(t *testing.T) {
	r := NewResolver(0)

	t.Run("exact key match", func(t *testing.T) {
		res := r.Resolve("NETFLIX")
		require.NotNil(t, res.Metadata)
		assert.Equal(t, "Netflix", res.CanonicalName)
		assert.Equal(t, "netflix", res.Metadata.Key)
	})

	t.Run("alias containment", func(t *testing.T) {
		res := r.Resolve("TFL TRAVEL CH")
		require.NotNil(t, res.Metadata)
		assert.Equal(t, "Transport for London", res.CanonicalName)
	})

	t.Run("key containment", func(t *testing.T) {
		res := r.Resolve("TESCO STORES 2041 LONDON")
		require.NotNil(t, res.Metadata)
		assert.Equal(t, "Tesco", res.CanonicalName)
	})

	t.Run("uber eats wins over uber", func(t *testing.T) {
		res := r.Resolve("UBER EATS PENDING")
		require.NotNil(t, res.Metadata)
		assert.Equal(t, "Uber Eats", res.CanonicalName)
	})

	t.Run("unknown merchant title cased", func(t *testing.T) {
		res := r.Resolve("village bakery ltd 17")
		assert.Nil(t, res.Metadata)
		assert.Equal(t, "Village Bakery", res.CanonicalName)
	})

	t.Run("empty input", func(t *testing.T) {
		res := r.Resolve("  ")
		assert.Nil(t, res.Metadata)
		assert.Equal(t, "", res.CanonicalName)
	})
}

func TestResolve_Fuzzy(t *testing.T) {
	r := NewResolver(80)

	t.Run("near miss spelling", func(t *testing.T) {
		res := r.Resolve("STARBCKS")
		require.NotNil(t, res.Metadata)
		assert.Equal(t, "Starbucks", res.CanonicalName)
	})

	t.Run("disabled threshold skips fuzzy", func(t *testing.T) {
		strict := NewResolver(0)
		res := strict.Resolve("STARBCKS")
		assert.Nil(t, res.Metadata)
	})
}

func TestLooksLikePersonName(t *testing.T) {
	assert.True(t, LooksLikePersonName("smith"))
	assert.True(t, LooksLikePersonName("john smith"))
	assert.True(t, LooksLikePersonName("anna maria garcia"))
	assert.False(t, LooksLikePersonName("jo"))
	assert.False(t, LooksLikePersonName("thisisaveryverylongword"))
	assert.False(t, LooksLikePersonName("smith 22"))
	assert.False(t, LooksLikePersonName("one two three four"))
	assert.False(t, LooksLikePersonName(""))
}

func TestHasLegalSuffix(t *testing.T) {
	assert.True(t, HasLegalSuffix("ACME WIDGETS LTD"))
	assert.True(t, HasLegalSuffix("Initech Inc."))
	assert.True(t, HasLegalSuffix("Globex PLC"))
	assert.False(t, HasLegalSuffix("John Smith"))
	assert.False(t, HasLegalSuffix(""))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Village Bakery", TitleCase("village bakery"))
	assert.Equal(t, "", TitleCase(""))
}
