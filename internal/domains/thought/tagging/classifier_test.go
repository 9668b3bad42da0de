package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_KeywordMatches(t *testing.T) {
	tags := Classify("I love pizza and coding")
	assert.Contains(t, tags, "food")
	assert.Contains(t, tags, "programming")
	assert.Contains(t, tags, "emotions")
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.ElementsMatch(t, Classify("pizza"), Classify("PIZZA"))
	assert.ElementsMatch(t, []string{"food"}, Classify("PiZzA"))
}

func TestClassify_FallsBackToGeneral(t *testing.T) {
	for _, input := range []string{"", "Hi there", "xyz 123", "   "} {
		assert.Equal(t, []string{General}, Classify(input), "input %q", input)
	}
}

func TestClassify_NeverEmpty(t *testing.T) {
	inputs := []string{"", "a", "☕", "Stormy day 🌧", "🙂", "what a catastrophe"}
	for _, input := range inputs {
		assert.NotEmpty(t, Classify(input), "input %q", input)
	}
}

func TestClassify_Emoji(t *testing.T) {
	assert.Equal(t, []string{"food"}, Classify("☕"))
	assert.Equal(t, []string{"travel"}, Classify("off we go ✈️"))
	assert.ElementsMatch(t, []string{"programming", "learning"}, Classify("💻📚"))
}

func TestClassify_KeywordAndEmojiCountOnce(t *testing.T) {
	assert.Equal(t, []string{"weather"}, Classify("Stormy day 🌧"))
}

func TestClassify_PluralAndGerundForms(t *testing.T) {
	assert.Contains(t, Classify("baked some cookies"), "food")
	assert.Contains(t, Classify("late night debugging"), "programming")
	assert.Contains(t, Classify("two meetings today"), "work")
}

func TestClassify_SubstringMatchIsNotWordBounded(t *testing.T) {
	assert.Equal(t, []string{"home"}, Classify("What a catastrophe"))
}

func TestClassify_DeclarationOrder(t *testing.T) {
	first := Classify("coding while eating pizza")
	second := Classify("coding while eating pizza")

	assert.Equal(t, []string{"food", "programming"}, first)
	assert.Equal(t, first, second)
}

func TestCategories(t *testing.T) {
	labels := Categories()
	require.Len(t, labels, 10)
	assert.Equal(t, "food", labels[0])
	assert.Equal(t, "learning", labels[9])
	assert.NotContains(t, labels, General)

	labels[0] = "mutated"
	assert.Equal(t, "food", Categories()[0])
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("travel"))
	assert.True(t, IsCategory(General))
	assert.False(t, IsCategory("TRAVEL"))
	assert.False(t, IsCategory("gardening"))
}
