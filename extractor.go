package bookminer

import (
	"bytes"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/zombar/bookminer/models"
)

// Config contains extractor configuration
type Config struct {
	TitleFallback string // substituted for anchors with empty text
}

// DefaultConfig returns default extractor configuration
func DefaultConfig() Config {
	return Config{
		TitleFallback: "Untitled",
	}
}

// Extractor parses Netscape bookmark exports into flat bookmark records
type Extractor struct {
	config Config

	// Generic root folder names that carry no signal. Includes the
	// localized variants major browsers write into exports.
	noiseRoots map[string]bool
}

// New creates a new Extractor instance
func New(config Config) *Extractor {
	noiseRoots := map[string]bool{
		"Bookmarks":               true,
		"Bookmarks Bar":           true,
		"Bookmarks Menu":          true,
		"Personal Toolbar Folder": true,
		"Other Bookmarks":         true,
		"Mobile Bookmarks":        true,
		"Unfiled Bookmarks":       true,
		"书签":                      true,
		"书签栏":                     true,
		"收藏夹":                     true,
		"移动书签":                    true,
		"未分类书签":                   true,
	}

	if config.TitleFallback == "" {
		config.TitleFallback = DefaultConfig().TitleFallback
	}

	return &Extractor{
		config:     config,
		noiseRoots: noiseRoots,
	}
}

// Extract parses raw bookmark HTML bytes into an ordered sequence of records.
// Malformed fragments degrade record-by-record; Extract never fails as a whole.
func (e *Extractor) Extract(raw []byte) []models.Bookmark {
	doc := parseLenient(raw)

	records := []models.Bookmark{}
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if record, ok := e.extractBookmark(n); ok {
				records = append(records, record)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)

	return records
}

// parseLenient decodes and parses bookmark HTML without rejecting malformed
// nesting. Bookmark exports frequently contain unclosed <DT>/<DL> lists, so a
// strict parser would truncate data; html.Parse recovers instead.
func parseLenient(raw []byte) *html.Node {
	var r io.Reader = bytes.NewReader(raw)
	if decoded, err := charset.NewReader(bytes.NewReader(raw), "text/html"); err == nil {
		r = decoded
	} else {
		log.Printf("charset detection failed, using raw bytes: %v", err)
	}

	doc, err := html.Parse(r)
	if err != nil {
		// html.Parse only fails when the underlying reader fails. Retry on
		// the undecoded bytes so a bad transcode never loses the document.
		doc, err = html.Parse(bytes.NewReader(raw))
		if err != nil {
			return &html.Node{Type: html.DocumentNode}
		}
	}
	return doc
}

// extractBookmark builds a record from a single anchor element.
// Returns false for anchors with no href or a non-navigable scheme.
func (e *Extractor) extractBookmark(n *html.Node) (models.Bookmark, bool) {
	href := attrValue(n, "href")
	if href == "" || hasExcludedScheme(href) {
		return models.Bookmark{}, false
	}

	title := extractTextFromNode(n)
	if title == "" {
		title = e.config.TitleFallback
	}

	return models.Bookmark{
		Title:     title,
		URL:       href,
		Context:   e.extractContext(n),
		Timestamp: normalizeTimestamp(attrValue(n, "add_date")),
		Tags:      splitTags(attrValue(n, "tags")),
	}, true
}

// excludedSchemes are non-navigable or browser-internal link schemes that
// carry no title-worthy signal
var excludedSchemes = []string{"javascript:", "place:", "data:"}

func hasExcludedScheme(href string) bool {
	hrefLower := strings.ToLower(href)
	for _, scheme := range excludedSchemes {
		if strings.HasPrefix(hrefLower, scheme) {
			return true
		}
	}
	return false
}

// attrValue returns the value of the named attribute, or "".
// The HTML tokenizer lowercases attribute keys, so ADD_DATE and TAGS in the
// source arrive here as add_date and tags.
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractContext walks the ancestor chain collecting folder names in
// root-to-leaf order. In the Netscape format a folder heading precedes its
// <DL> list rather than wrapping it, so each list level's display name is the
// nearest h3/h1 sibling before the list.
func (e *Extractor) extractContext(n *html.Node) []string {
	context := []string{}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode || p.Data != "dl" {
			continue
		}
		name := precedingHeading(p)
		if name == "" || e.noiseRoots[name] {
			continue
		}
		context = append([]string{name}, context...)
	}
	return context
}

// precedingHeading finds the folder heading for a <DL> list by scanning its
// preceding siblings. Depending on whether the export closes its <DT> tags,
// the heading is either a direct sibling or nested inside a sibling <DT>.
func precedingHeading(dl *html.Node) string {
	for s := dl.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type != html.ElementNode {
			continue
		}
		switch s.Data {
		case "h3", "h1":
			return extractTextFromNode(s)
		case "dt":
			if name := headingChild(s); name != "" {
				return name
			}
		}
	}
	return ""
}

// headingChild returns the text of the first h3/h1 child of a node, or ""
func headingChild(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "h3" || c.Data == "h1") {
			return extractTextFromNode(c)
		}
	}
	return ""
}

// microsecondThreshold separates WebKit microsecond timestamps (17 digits)
// from Unix second timestamps (10 digits)
const microsecondThreshold = int64(1_000_000_000_000)

// normalizeTimestamp converts an add_date attribute to canonical local time.
// The attribute may hold seconds or microseconds since epoch depending on the
// exporting browser; magnitude disambiguates. Unparseable or out-of-range
// values normalize to "" rather than failing the record.
func normalizeTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ""
	}

	if ts > microsecondThreshold {
		ts /= 1_000_000
	}

	// Still out of range after unit correction means the value was never a
	// plausible epoch timestamp
	if ts <= 0 || ts > microsecondThreshold {
		return ""
	}

	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}

// splitTags parses a comma-separated tags attribute into a tag list
func splitTags(raw string) []string {
	tags := []string{}
	if raw == "" {
		return tags
	}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// extractTextFromNode extracts all text content from a single node and its children
func extractTextFromNode(n *html.Node) string {
	var parts []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(parts, " ")
}
