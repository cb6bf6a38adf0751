// Package htmltext turns HTML pages into the blank-line separated text the
// splitter expects.
package htmltext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// blocks are the elements that become one paragraph each.
const blocks = "h1,h2,h3,h4,p,li,blockquote"

var spaceRX = regexp.MustCompile(`[ \t\f\v]+`)

// Extract returns the page title and its readable text, one block per paragraph.
func Extract(r io.Reader) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script,style,nav,footer,noscript").Remove()
	title = clean(doc.Find("title").First().Text())

	root := doc.Find("main, article").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}
	var parts []string
	root.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		// nested blocks (p inside li/blockquote) are picked up by their parent
		if s.ParentsFiltered(blocks).Length() > 0 {
			return
		}
		if t := clean(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		if t := clean(root.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return title, strings.Join(parts, "\n\n"), nil
}

func ExtractString(html string) (title, text string, err error) {
	return Extract(strings.NewReader(html))
}

func clean(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(spaceRX.ReplaceAllString(l, " ")); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, " ")
}

// Fetcher downloads HTML or plain-text pages from an allow-list of hosts.
type Fetcher struct {
	allow    map[string]bool
	maxBytes int64
	client   *http.Client
}

func NewFetcher(allowed []string, maxBytes int64) *Fetcher {
	allow := map[string]bool{}
	for _, h := range allowed {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &Fetcher{allow: allow, maxBytes: maxBytes, client: &http.Client{Timeout: 20 * time.Second}}
}

// Allowed reports whether rawURL is http(s) on an allowed host or one of its subdomains.
func (f *Fetcher) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for h := range f.allow {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Fetch returns the title and text of the page at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (title, text string, err error) {
	if !f.Allowed(rawURL) {
		return "", "", fmt.Errorf("host not allowed: %s", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return "", "", fmt.Errorf("page too large")
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", "", err
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "text/plain"):
		text := strings.TrimSpace(string(b))
		return firstLine(text), text, nil
	case strings.Contains(ct, "text/html"), ct == "":
		return Extract(bytes.NewReader(b))
	default:
		return "", "", fmt.Errorf("unsupported content-type: %s", ct)
	}
}

func firstLine(s string) string {
	line := strings.SplitN(s, "\n", 2)[0]
	if r := []rune(line); len(r) > 120 {
		line = string(r[:120])
	}
	return strings.TrimSpace(line)
}
