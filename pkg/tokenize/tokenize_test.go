package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_LowercaseAndPunctuation(t *testing.T) {
	tokens := Tokenize("The Quick, Brown-Fox! jumps.")
	assert.Equal(t, []string{"quick", "brown", "fox", "jumps"}, tokens)
}

func TestTokenize_DropsDigitLeadingTokens(t *testing.T) {
	tokens := Tokenize("2024 was a great year, 3d printing too")
	for _, tok := range tokens {
		assert.False(t, tok[0] >= '0' && tok[0] <= '9', "unexpected digit-leading token %q", tok)
	}
}

func TestTokenize_DropsStopWords(t *testing.T) {
	tokens := Tokenize("the quick brown fox and the lazy dog")
	assert.Equal(t, []string{"quick", "brown", "fox", "lazy", "dog"}, tokens)
}

func TestTokenize_PreservesOrder(t *testing.T) {
	tokens := Tokenize("alpha beta gamma delta")
	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta"}, tokens)
}

func TestTokenize_NeverEmptyOrUppercaseTokens(t *testing.T) {
	samples := []string{
		"",
		"   ",
		"Hello, World! 123 foo_bar",
		"THE QUICK BROWN FOX",
	}

	for _, s := range samples {
		for _, tok := range Tokenize(s) {
			assert.NotEmpty(t, tok)
			assert.Equal(t, tok, toLowerASCII(tok))
			assert.False(t, isStopWord(tok))
		}
	}
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}
