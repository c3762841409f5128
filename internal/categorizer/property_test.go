package categorizer

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"returnscli/pkg/contracts/domain"
)

// vocabulary mixes stop words, short words, keywords and noise so generated
// product names exercise every tokenizer branch.
var vocabulary = []interface{}{
	"the", "a", "of", "with", "them", "xl", "ab", "saree", "Silk", "JEANS",
	"hair", "bag", "kitchen", "phone", "widget", "2pcs", "kurta-set", "net!",
	"Cabinet", "set", "\t", "élan",
}

func productNameGen() gopter.Gen {
	return gen.SliceOf(gen.OneConstOf(vocabulary...)).Map(func(words []string) string {
		return strings.Join(words, " ")
	})
}

func TestTokenizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	valid := func(tokens []string) bool {
		for _, tok := range tokens {
			if len(tok) < MinTokenLength || IsStopWord(tok) {
				return false
			}
			for _, r := range tok {
				if r < 'a' || r > 'z' {
					return false
				}
			}
		}
		return true
	}

	properties.Property("tokens are lowercase letters, long enough and not stop words", prop.ForAll(
		func(text string) bool { return valid(Tokenize(text)) },
		gen.AnyString(),
	))

	properties.Property("vocabulary names tokenize cleanly", prop.ForAll(
		func(text string) bool { return valid(Tokenize(text)) },
		productNameGen(),
	))

	properties.Property("tokenize is deterministic", prop.ForAll(
		func(text string) bool {
			a, b := Tokenize(text), Tokenize(text)
			return strings.Join(a, " ") == strings.Join(b, " ")
		},
		productNameGen(),
	))

	properties.TestingRun(t)
}

func TestCategorizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	c := New(nil)
	known := map[string]bool{domain.CategoryOther: true}
	for _, n := range c.Table().Names() {
		known[n] = true
	}

	properties.Property("categorize is total over the table plus Other", prop.ForAll(
		func(text string) bool { return known[c.Categorize(text)] },
		gen.AnyString(),
	))

	properties.Property("Other exactly when every score is zero", prop.ForAll(
		func(text string) bool {
			allZero := true
			for _, s := range c.Score(text) {
				if s.Score != 0 {
					allZero = false
				}
			}
			return allZero == (c.Categorize(text) == domain.CategoryOther)
		},
		productNameGen(),
	))

	properties.Property("winner is the first category with the maximum score", prop.ForAll(
		func(text string) bool {
			got := c.Categorize(text)
			if got == domain.CategoryOther {
				return true
			}
			scores := c.Score(text)
			best := 0
			for i, s := range scores {
				if s.Score > scores[best].Score {
					best = i
				}
			}
			return scores[best].Category == got
		},
		productNameGen(),
	))

	properties.Property("digit-only names are Other", prop.ForAll(
		func(text string) bool { return c.Categorize(text) == domain.CategoryOther },
		gen.NumString(),
	))

	properties.TestingRun(t)
}
