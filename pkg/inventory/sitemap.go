package inventory

import (
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxSitemapBytes caps how much of a single sitemap document is read.
const maxSitemapBytes = 50 << 20

// TypeRule classifies a path into a page type by prefix. Rules are evaluated
// in order; the first match wins.
type TypeRule struct {
	Prefix   string
	PageType string
}

// Sitemap is an Inventory that discovers page paths from the origin's
// sitemap. Nested sitemap indexes are followed and gzip payloads are
// decompressed transparently. Paths are classified into page types by the
// configured prefix rules; paths matching no rule are ignored.
type Sitemap struct {
	origin     string
	sitemapURL string
	rules      []TypeRule
	httpClient *http.Client
	logger     zerolog.Logger
}

type sitemapDoc struct {
	URLs     []string `xml:"url>loc"`
	Sitemaps []string `xml:"sitemap>loc"`
}

// NewSitemap creates a sitemap-backed inventory rooted at sitemapURL, which
// may be relative to origin.
func NewSitemap(origin, sitemapURL string, rules []TypeRule, httpClient *http.Client) *Sitemap {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Sitemap{
		origin:     strings.TrimRight(origin, "/"),
		sitemapURL: sitemapURL,
		rules:      rules,
		httpClient: httpClient,
		logger:     log.With().Str("component", "sitemap-inventory").Logger(),
	}
}

// PagePaths implements Inventory. Sitemap documents are fetched one at a
// time as the iterator advances; a large sitemap index is never downloaded
// wholesale up front.
func (s *Sitemap) PagePaths(_ context.Context, pageTypes []string) (PathIterator, error) {
	wanted := make(map[string]bool, len(pageTypes))
	for _, t := range pageTypes {
		wanted[t] = true
	}
	return &sitemapIterator{
		inv:    s,
		wanted: wanted,
		queue:  []string{s.absolute(s.sitemapURL)},
		seen:   map[string]bool{},
	}, nil
}

type sitemapIterator struct {
	inv    *Sitemap
	wanted map[string]bool
	queue  []string // sitemap documents still to fetch
	seen   map[string]bool
	locs   []string // locs of the current document
	pos    int
	val    string
	err    error
}

func (it *sitemapIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}

	for {
		for it.pos < len(it.locs) {
			loc := it.locs[it.pos]
			it.pos++

			path := pathFromLoc(loc)
			if path == "" {
				continue
			}
			pageType, ok := it.inv.classify(path)
			if !ok || !it.wanted[pageType] {
				continue
			}
			it.val = path
			return true
		}

		if len(it.queue) == 0 {
			return false
		}

		smURL := it.queue[0]
		it.queue = it.queue[1:]
		if it.seen[smURL] {
			continue
		}
		it.seen[smURL] = true

		doc, err := it.inv.fetch(ctx, smURL)
		if err != nil {
			it.err = fmt.Errorf("fetch sitemap %q: %w", smURL, err)
			return false
		}

		it.inv.logger.Debug().
			Str("sitemap", smURL).
			Int("urls", len(doc.URLs)).
			Int("nested", len(doc.Sitemaps)).
			Msg("Fetched sitemap document")

		for _, nested := range doc.Sitemaps {
			nested = strings.TrimSpace(nested)
			if nested != "" {
				it.queue = append(it.queue, it.inv.absolute(nested))
			}
		}
		it.locs = doc.URLs
		it.pos = 0
	}
}

func (it *sitemapIterator) Val() string { return it.val }

func (it *sitemapIterator) Err() error { return it.err }

func (s *Sitemap) fetch(ctx context.Context, sitemapURL string) (sitemapDoc, error) {
	var doc sitemapDoc

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return doc, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return doc, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return doc, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = io.LimitReader(resp.Body, maxSitemapBytes)
	if strings.HasSuffix(sitemapURL, ".gz") || resp.Header.Get("Content-Type") == "application/gzip" {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return doc, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	if err := xml.NewDecoder(body).Decode(&doc); err != nil {
		return doc, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}

// classify maps a path to a page type via the prefix rules.
func (s *Sitemap) classify(path string) (string, bool) {
	for _, rule := range s.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.PageType, true
		}
	}
	return "", false
}

// absolute resolves a possibly relative sitemap location against the origin.
func (s *Sitemap) absolute(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return s.origin + u
}

// pathFromLoc reduces a sitemap <loc> entry to a request path.
func pathFromLoc(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return ""
	}
	u, err := url.Parse(loc)
	if err != nil {
		return ""
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}
