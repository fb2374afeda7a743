package quiz

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Problem is one located question container. It only lives for the scan
// that found it.
type Problem struct {
	Index int
	sel   *goquery.Selection
}

// NewProblem wraps a container selection.
func NewProblem(index int, sel *goquery.Selection) Problem {
	return Problem{Index: index, sel: sel}
}

// Question returns the prompt text of the problem.
func (p Problem) Question() string {
	return QuestionText(p.sel)
}

// Choices returns the lettered answer options of the problem.
func (p Problem) Choices() []Choice {
	return Choices(p.sel)
}

var (
	promptSelector = cascadia.MustCompile(
		"h1, h2, h3, .problem-header, .problem-statement, .prompt, .question, .problem > p, p")

	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// QuestionText collects prompt-like descendants of container in document
// order. Without any, the container's own text is used. Runs of three or
// more newlines are reduced to a blank line.
func QuestionText(container *goquery.Selection) string {
	var parts []string
	container.FindMatcher(promptSelector).Each(func(_ int, s *goquery.Selection) {
		if text := RenderedText(s); text != "" {
			parts = append(parts, text)
		}
	})

	joined := strings.Join(parts, "\n")
	if len(parts) == 0 {
		joined = RenderedText(container)
	}
	return NormalizeNewlines(joined)
}

// NormalizeNewlines collapses three or more consecutive newlines to two.
func NormalizeNewlines(s string) string {
	return excessNewlines.ReplaceAllString(s, "\n\n")
}
