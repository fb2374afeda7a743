// Package page loads saved LMS pages and decides whether the exporter may
// run on them.
//
// A snapshot is read with a size limit, inflated when gzip-compressed,
// sniffed for HTML, decoded to UTF-8 and parsed with goquery. The page URL
// is taken from canonical links, Open Graph tags, <base> or the browser's
// "saved from url" comment. Scope holds match-pattern rules checked against
// that URL.
package page
