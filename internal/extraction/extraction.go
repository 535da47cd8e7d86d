package extraction

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxDocumentSize is the most HTML read from a response when looking for a refresh target.
const MaxDocumentSize = 1 << 20

// Extractor finds client-side redirect targets in HTML documents
type Extractor struct {
	MaxSize int64
}

// NewExtractor creates a new refresh extractor
func NewExtractor() *Extractor {
	return &Extractor{
		MaxSize: MaxDocumentSize,
	}
}

// RefreshTarget reads an HTML document from r and returns the absolute URL
// named by its first <meta http-equiv="refresh"> tag, resolved against base.
// It returns "" when the document does not refresh to another location.
func (e *Extractor) RefreshTarget(r io.Reader, base *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(r, e.MaxSize))
	if err != nil {
		return "", err
	}

	var target string
	doc.Find("meta[http-equiv]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(strings.TrimSpace(equiv), "refresh") {
			return true
		}
		content, _ := s.Attr("content")
		target = ParseRefresh(content)
		return false
	})
	if target == "" {
		return "", nil
	}

	ref, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if base != nil && ref.String() == base.String() {
		return "", nil
	}
	return ref.String(), nil
}

// ParseRefresh returns the URL part of a refresh content value such as
// `0; url=https://example.com/`. A bare delay yields "".
func ParseRefresh(content string) string {
	_, rest, found := strings.Cut(content, ";")
	if !found {
		// "5, url=..." is tolerated by browsers as well
		_, rest, found = strings.Cut(content, ",")
		if !found {
			return ""
		}
	}
	rest = strings.TrimSpace(rest)
	if len(rest) >= 3 && strings.EqualFold(rest[:3], "url") {
		after := strings.TrimSpace(rest[3:])
		if strings.HasPrefix(after, "=") {
			rest = strings.TrimSpace(after[1:])
		}
	}
	rest = strings.Trim(rest, `"'`)
	return strings.TrimSpace(rest)
}
