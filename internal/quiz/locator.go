package quiz

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// XPathPrefix marks a configured strategy as an XPath expression.
const XPathPrefix = "xpath:"

// Built-in strategies, narrowest first. Later ones over-match when an
// earlier one already found the problems.
var defaultSelectors = []string{
	".wrapper-problem-response",
	".problem",
	".problems-wrapper .problem",
}

// Strategy finds candidate problem containers in a document.
type Strategy interface {
	Name() string
	Locate(doc *goquery.Document) *goquery.Selection
}

type cssStrategy struct {
	source string
	sel    cascadia.Selector
}

func (s *cssStrategy) Name() string {
	return s.source
}

func (s *cssStrategy) Locate(doc *goquery.Document) *goquery.Selection {
	return doc.FindMatcher(s.sel)
}

type xpathStrategy struct {
	source string
	expr   *xpath.Expr
}

func (s *xpathStrategy) Name() string {
	return XPathPrefix + s.source
}

func (s *xpathStrategy) Locate(doc *goquery.Document) *goquery.Selection {
	if len(doc.Nodes) == 0 {
		return doc.Selection.Slice(0, 0)
	}
	var elements []*html.Node
	for _, n := range htmlquery.QuerySelectorAll(doc.Nodes[0], s.expr) {
		if n.Type == html.ElementNode {
			elements = append(elements, n)
		}
	}
	return doc.FindNodes(elements...)
}

// ParseStrategy compiles a CSS selector, or an XPath expression when raw
// starts with "xpath:".
func ParseStrategy(raw string) (Strategy, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty locator strategy")
	}

	if expr, ok := strings.CutPrefix(raw, XPathPrefix); ok {
		if strings.TrimSpace(expr) == "" {
			return nil, fmt.Errorf("empty xpath strategy")
		}
		compiled, err := xpath.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
		}
		return &xpathStrategy{source: expr, expr: compiled}, nil
	}

	sel, err := cascadia.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", raw, err)
	}
	return &cssStrategy{source: raw, sel: sel}, nil
}

// DefaultStrategies returns the built-in locator strategies in order.
func DefaultStrategies() []Strategy {
	strategies := make([]Strategy, 0, len(defaultSelectors))
	for _, s := range defaultSelectors {
		st, err := ParseStrategy(s)
		if err != nil {
			panic(err)
		}
		strategies = append(strategies, st)
	}
	return strategies
}

// Locator tries strategies in order and keeps the first non-empty match set.
type Locator struct {
	strategies []Strategy
}

// NewLocator creates a locator with the built-in strategies followed by
// extra ones.
func NewLocator(extra ...Strategy) *Locator {
	return &Locator{strategies: append(DefaultStrategies(), extra...)}
}

// NewLocatorFromSelectors parses extra strategies from configuration.
func NewLocatorFromSelectors(selectors []string) (*Locator, error) {
	var extra []Strategy
	for _, raw := range selectors {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		st, err := ParseStrategy(raw)
		if err != nil {
			return nil, err
		}
		extra = append(extra, st)
	}
	return NewLocator(extra...), nil
}

// Strategies returns the strategies in evaluation order.
func (l *Locator) Strategies() []Strategy {
	return l.strategies
}

// Locate returns the problems found by the first strategy that matches
// anything, and that strategy's name. No match yields no problems and an
// empty name.
func (l *Locator) Locate(doc *goquery.Document) ([]Problem, string) {
	for _, st := range l.strategies {
		found := st.Locate(doc)
		if found.Length() == 0 {
			continue
		}
		problems := make([]Problem, 0, found.Length())
		found.Each(func(i int, s *goquery.Selection) {
			problems = append(problems, NewProblem(i, s))
		})
		return problems, st.Name()
	}
	return nil, ""
}
