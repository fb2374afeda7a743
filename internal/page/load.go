package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxPageSize limits a snapshot to 10MB to prevent memory exhaustion
const MaxPageSize = 10 * 1024 * 1024

var (
	ErrEmpty    = errors.New("page is empty")
	ErrTooLarge = fmt.Errorf("page exceeds maximum size of %d bytes", MaxPageSize)
	ErrNotHTML  = errors.New("page is not an HTML document")
	ErrNotReady = errors.New("page has not finished loading")
)

// Snapshot is one parsed copy of a page.
type Snapshot struct {
	Doc     *goquery.Document
	URL     string
	Charset string
}

// Options controls how a snapshot is loaded.
type Options struct {
	// URL overrides page URL detection when set.
	URL string
	// Sanitize strips scripts, styles and unknown markup after the page URL
	// has been detected.
	Sanitize bool
}

// Load reads, decodes and parses a page snapshot.
func Load(ctx context.Context, r io.Reader, opts Options) (*Snapshot, error) {
	data, err := readLimited(r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err = inflate(data)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	if !IsHTML(data) {
		return nil, ErrNotHTML
	}

	name := DetectCharset(data)
	doc, err := parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	snap := &Snapshot{Doc: doc, URL: opts.URL, Charset: name}
	if snap.URL == "" {
		snap.URL = DetectURL(doc)
	}
	if !snap.Ready() {
		return snap, ErrNotReady
	}

	if opts.Sanitize {
		clean, err := Sanitize(doc)
		if err != nil {
			return nil, fmt.Errorf("sanitize failed: %w", err)
		}
		snap.Doc = clean
	}
	return snap, nil
}

// Ready reports whether the document reached the interactive state: it has
// a body with some content in it.
func (s *Snapshot) Ready() bool {
	if s == nil || s.Doc == nil {
		return false
	}
	body := s.Doc.Find("body").First()
	if body.Length() == 0 {
		return false
	}
	return body.Children().Length() > 0 || strings.TrimSpace(body.Text()) != ""
}

// IsHTML sniffs the content type of data.
func IsHTML(data []byte) bool {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/html") || m.Is("application/xhtml+xml") {
			return true
		}
	}
	// Saved pages sometimes start with stray text before the markup.
	if mt.Is("text/plain") {
		lower := bytes.ToLower(data)
		return bytes.Contains(lower, []byte("<body")) || bytes.Contains(lower, []byte("<html"))
	}
	return false
}

// DetectCharset returns the charset label for data: a byte order mark, then
// valid UTF-8, then a <meta> declaration, then statistical detection.
func DetectCharset(data []byte) string {
	_, name, certain := charset.DetermineEncoding(data, "")
	switch {
	case certain:
		return strings.ToLower(name)
	case utf8.Valid(data):
		return "utf-8"
	case name != "" && name != "windows-1252":
		// windows-1252 is the prescan default, anything else was declared
		return strings.ToLower(name)
	}

	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

func parse(data []byte, name string) (*goquery.Document, error) {
	utf8Reader, err := charset.NewReaderLabel(name, bytes.NewReader(data))
	if err != nil {
		// Unknown label, parse the raw bytes
		return goquery.NewDocumentFromReader(bytes.NewReader(data))
	}
	return goquery.NewDocumentFromReader(utf8Reader)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	if len(data) > MaxPageSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// inflate unpacks gzip-compressed snapshots and returns other input as is.
func inflate(data []byte) ([]byte, error) {
	if !mimetype.Detect(data).Is("application/gzip") {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()

	return readLimited(zr)
}
