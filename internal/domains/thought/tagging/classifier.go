// Package tagging assigns topical category labels to thought messages.
//
// Classification is a single pass over two fixed tables: a keyword table
// matched against the lower-cased message and an emoji table matched against
// the original message. Both tables are built once at package init and are
// never mutated.
package tagging

import "strings"

// General is the label returned when no category matches.
const General = "general"

type category struct {
	label    string
	keywords []string
	emoji    []rune
}

// matchesKeyword reports whether lower contains any keyword. Containment of
// the bare keyword also covers the naive plural ("s") and gerund ("ing")
// forms, so those variants never need their own scan.
func (c category) matchesKeyword(lower string) bool {
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (c category) matchesEmoji(text string) bool {
	if len(c.emoji) == 0 {
		return false
	}
	for _, r := range text {
		for _, e := range c.emoji {
			if r == e {
				return true
			}
		}
	}
	return false
}

// Classify returns the category labels matched by text, in category
// declaration order. The result is never empty: unmatched text yields
// []string{General}.
func Classify(text string) []string {
	lower := strings.ToLower(text)

	tags := make([]string, 0, 2)
	for _, c := range categories {
		if c.matchesKeyword(lower) || c.matchesEmoji(text) {
			tags = append(tags, c.label)
		}
	}

	if len(tags) == 0 {
		return []string{General}
	}
	return tags
}

// Categories returns every label the classifier can produce, excluding
// General, in declaration order.
func Categories() []string {
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = c.label
	}
	return labels
}

// IsCategory reports whether label is a classifier category or General.
func IsCategory(label string) bool {
	if label == General {
		return true
	}
	for _, c := range categories {
		if c.label == label {
			return true
		}
	}
	return false
}
