package page

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Browsers prefix saved pages with <!-- saved from url=(0045)https://... -->
var savedFromPattern = regexp.MustCompile(`(?i)saved from url=\(\d+\)(\S+)`)

// DetectURL finds the address a snapshot was saved from. It returns an
// empty string when the page carries no hint.
func DetectURL(doc *goquery.Document) string {
	candidates := []struct {
		selector string
		attr     string
	}{
		{`link[rel="canonical"]`, "href"},
		{`meta[property="og:url"]`, "content"},
		{`base[href]`, "href"},
	}
	for _, c := range candidates {
		if v := strings.TrimSpace(doc.Find(c.selector).First().AttrOr(c.attr, "")); isAbsolute(v) {
			return v
		}
	}
	return savedFromURL(doc)
}

func savedFromURL(doc *goquery.Document) string {
	if len(doc.Nodes) == 0 {
		return ""
	}
	comments, err := htmlquery.QueryAll(doc.Nodes[0], "//comment()")
	if err != nil {
		return ""
	}
	for _, c := range comments {
		if m := savedFromPattern.FindStringSubmatch(c.Data); m != nil {
			return m[1]
		}
	}
	return ""
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
