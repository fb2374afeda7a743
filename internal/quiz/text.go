package quiz

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements whose content is never rendered.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
	"title":    true,
	"input":    true,
}

// Block elements get a line break on each side; paragraphs and headings
// get a blank line.
var blockBreaks = map[string]int{
	"p": 2, "h1": 2, "h2": 2, "h3": 2, "h4": 2, "h5": 2, "h6": 2,

	"address": 1, "article": 1, "aside": 1, "blockquote": 1, "caption": 1,
	"dd": 1, "details": 1, "dialog": 1, "div": 1, "dl": 1, "dt": 1,
	"fieldset": 1, "figcaption": 1, "figure": 1, "footer": 1, "form": 1,
	"header": 1, "hgroup": 1, "hr": 1, "legend": 1, "li": 1, "main": 1,
	"nav": 1, "ol": 1, "option": 1, "pre": 1, "section": 1, "summary": 1,
	"table": 1, "tr": 1, "ul": 1,
}

// RenderedText approximates what a browser shows for sel: whitespace runs
// collapse, blocks start new lines, hidden content is skipped.
func RenderedText(sel *goquery.Selection) string {
	w := &textWriter{}
	for _, n := range sel.Nodes {
		w.walk(n)
	}
	return strings.TrimSpace(w.b.String())
}

type textWriter struct {
	b            strings.Builder
	started      bool
	spacePending bool
	breaks       int
	preDepth     int
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.DocumentNode:
		w.children(n)
		return
	case html.ElementNode:
	default:
		return
	}

	if isHidden(n) {
		return
	}

	switch n.Data {
	case "br":
		w.lineBreak()
		return
	case "td", "th":
		w.children(n)
		w.spacePending = true
		return
	}

	breaks := blockBreaks[n.Data]
	w.requireBreaks(breaks)
	if n.Data == "pre" {
		w.preDepth++
		defer func() { w.preDepth-- }()
	}
	w.children(n)
	w.requireBreaks(breaks)
}

func (w *textWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *textWriter) text(s string) {
	if w.preDepth > 0 {
		if s == "" {
			return
		}
		w.flush()
		w.b.WriteString(s)
		w.started = true
		return
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			w.spacePending = true
		}
		return
	}
	if startsWithSpace(s) {
		w.spacePending = true
	}
	w.flush()
	w.b.WriteString(strings.Join(fields, " "))
	w.started = true
	w.spacePending = endsWithSpace(s)
}

// flush emits pending separators before new content.
func (w *textWriter) flush() {
	if !w.started {
		w.breaks = 0
		w.spacePending = false
		return
	}
	if w.breaks > 0 {
		w.b.WriteString(strings.Repeat("\n", w.breaks))
	} else if w.spacePending {
		w.b.WriteByte(' ')
	}
	w.breaks = 0
	w.spacePending = false
}

func (w *textWriter) requireBreaks(n int) {
	if n > w.breaks {
		w.breaks = n
	}
}

func (w *textWriter) lineBreak() {
	if !w.started {
		return
	}
	w.flush()
	w.b.WriteByte('\n')
}

func isHidden(n *html.Node) bool {
	if skippedElements[n.Data] {
		return true
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(a.Val, "true") {
				return true
			}
		case "style":
			if strings.Contains(strings.ReplaceAll(strings.ToLower(a.Val), " ", ""), "display:none") {
				return true
			}
		}
	}
	return false
}

func startsWithSpace(s string) bool {
	return strings.TrimLeft(s, " \t\n\r\f") != s
}

func endsWithSpace(s string) bool {
	return strings.TrimRight(s, " \t\n\r\f") != s
}
