package quiz

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// NoQuestions is the whole transcript when no problem was located.
	NoQuestions = "No questions found on this page."
	// OpenResponse replaces the choice lines of a question without choices.
	OpenResponse = "[Open-response / no choices detected]"

	indent = "   "
)

// Summary describes one transcript build.
type Summary struct {
	Problems     int
	Choices      int
	OpenResponse int
	Strategy     string
}

// Builder assembles transcripts from documents.
type Builder struct {
	locator *Locator
}

// NewBuilder creates a builder. A nil locator uses the built-in strategies.
func NewBuilder(locator *Locator) *Builder {
	if locator == nil {
		locator = NewLocator()
	}
	return &Builder{locator: locator}
}

// Build scans doc and returns the transcript text.
func (b *Builder) Build(doc *goquery.Document) (string, Summary) {
	problems, strategy := b.locator.Locate(doc)
	summary := Summary{Problems: len(problems), Strategy: strategy}
	if len(problems) == 0 {
		return NoQuestions, summary
	}

	var lines []string
	for i, p := range problems {
		choices := p.Choices()
		lines = append(lines, strconv.Itoa(i+1)+". "+p.Question())
		if len(choices) == 0 {
			lines = append(lines, indent+OpenResponse)
			summary.OpenResponse++
		}
		for _, c := range choices {
			lines = append(lines, indent+c.String())
		}
		summary.Choices += len(choices)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n"), summary
}
