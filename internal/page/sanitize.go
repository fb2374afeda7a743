package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// policy keeps the structure problem discovery depends on (classes, labels,
// form controls, visibility flags including inline display) and drops
// scripts, style sheets and handlers.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "hidden", "aria-hidden").Globally()
	p.AllowAttrs("for").OnElements("label")
	p.AllowAttrs("type", "name", "value").OnElements("input", "button")
	p.AllowElements("label", "fieldset", "legend", "form", "input", "button",
		"section", "article", "main", "header", "footer", "div", "span")
	// Bare labels are the generic choice markup; bluemonday drops these
	// elements when they carry no attributes unless told otherwise.
	p.AllowNoAttrs().OnElements("label", "fieldset", "legend", "form", "input",
		"button", "section", "article", "main", "header", "footer", "div", "span")
	// display:none hides answers from the rendered text.
	p.AllowStyles("display").Globally()
	return p
}

// Sanitize returns a cleaned copy of doc.
func Sanitize(doc *goquery.Document) (*goquery.Document, error) {
	raw, err := doc.Html()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(policy.Sanitize(raw)))
}
