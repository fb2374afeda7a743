package quiz

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// OverflowLetter tags choices past Z.
const OverflowLetter = "?"

var (
	choiceSelector = cascadia.MustCompile(".response-label, .choice label, label")

	// Submit and check controls in English and Russian. The word must end
	// the label or be followed by a non-alphanumeric rune, so "Submit" and
	// "Check answer" match but "Submitted by user" does not.
	submitLabel = regexp.MustCompile(`(?i)^(?:submit|check|проверить|отправить)(?:$|[^\p{L}\p{N}])`)
)

// Choice is one answer option.
type Choice struct {
	Letter string
	Text   string
}

// String renders the choice as it appears in a transcript.
func (c Choice) String() string {
	return c.Letter + " ) " + c.Text
}

// Letter returns the tag for the choice at index i.
func Letter(i int) string {
	if i < 0 || i >= len(letters) {
		return OverflowLetter
	}
	return letters[i : i+1]
}

// IsSubmitLabel reports whether text names a submit or check control.
func IsSubmitLabel(text string) bool {
	return submitLabel.MatchString(text)
}

// Choices extracts answer options from container. An empty result means an
// open-response question.
func Choices(container *goquery.Selection) []Choice {
	var raw []string
	container.FindMatcher(choiceSelector).Each(func(_ int, s *goquery.Selection) {
		if text := RenderedText(s); text != "" {
			raw = append(raw, text)
		}
	})
	return Label(raw)
}

// Label deduplicates texts, drops submit controls and assigns letters.
func Label(texts []string) []Choice {
	var choices []Choice
	for _, text := range Deduplicate(texts) {
		if IsSubmitLabel(text) {
			continue
		}
		choices = append(choices, Choice{Letter: Letter(len(choices)), Text: text})
	}
	return choices
}

// Deduplicate removes duplicate strings while preserving order
func Deduplicate(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
