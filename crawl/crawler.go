// Copyright 2025 Veldkamp Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "lexrag-crawler/1.0"

// ErrBaseURLRequired is returned when Options lacks a base URL.
var ErrBaseURLRequired = errors.New("base URL required")

// Options configures a crawl.
type Options struct {
	// BaseURL is the start page; the crawl never leaves its domain.
	BaseURL string

	// Depth is how many link hops to follow from the base URL.
	Depth int

	// MaxPages caps the number of pages visited.
	MaxPages int

	// OutDir is the root output directory; pages are written under
	// OutDir/<domain>/.
	OutDir string

	// PathPrefixes restricts the crawl to URL paths with one of these
	// prefixes. Empty means the base URL's own path prefix.
	PathPrefixes []string

	// Delay is the minimum time between fetches.
	Delay time.Duration

	// UserAgent overrides the default user agent string.
	UserAgent string
}

// Crawler mirrors a site section as markdown files.
type Crawler struct {
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a crawler. Zero option fields get workable defaults.
func New(opts Options) (*Crawler, error) {
	if opts.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if opts.Depth < 0 {
		opts.Depth = 0
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 200
	}
	if opts.OutDir == "" {
		opts.OutDir = "data/government_portal"
	}
	if opts.Delay <= 0 {
		opts.Delay = 500 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	return &Crawler{
		opts:    opts,
		client:  &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		logger:  slog.Default().With("component", "crawler"),
	}, nil
}

type frontierEntry struct {
	url   string
	depth int
}

// Run walks the site and returns the paths of the files written.
func (c *Crawler) Run(ctx context.Context) ([]string, error) {
	start := normalizeURL(c.opts.BaseURL)
	startURL, err := url.Parse(start)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	domain := startURL.Host

	prefixes := c.opts.PathPrefixes
	if len(prefixes) == 0 {
		p := startURL.Path
		if p == "" {
			p = "/"
		}
		prefixes = []string{p}
	}

	outRoot := filepath.Join(c.opts.OutDir, domain)
	if err := os.MkdirAll(outRoot, 0755); err != nil {
		return nil, err
	}

	visited := make(map[string]struct{})
	var written []string
	frontier := []frontierEntry{{url: start, depth: 0}}

	for len(frontier) > 0 && len(visited) < c.opts.MaxPages {
		entry := frontier[0]
		frontier = frontier[1:]

		pageURL := normalizeURL(entry.url)
		if _, ok := visited[pageURL]; ok {
			continue
		}
		visited[pageURL] = struct{}{}

		if !allowed(pageURL, domain, prefixes) {
			continue
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return written, err
		}

		body, ok := c.fetchHTML(ctx, pageURL)
		if !ok {
			continue
		}

		title, markdown, err := extractMain(body, startURL.Scheme+"://"+domain)
		if err != nil || markdown == "" {
			continue
		}

		outFile, err := c.writePage(outRoot, pageURL, title, markdown)
		if err != nil {
			return written, err
		}
		written = append(written, outFile)

		if entry.depth < c.opts.Depth {
			for _, link := range extractLinks(body, pageURL) {
				if _, ok := visited[link]; !ok && allowed(link, domain, prefixes) {
					frontier = append(frontier, frontierEntry{url: link, depth: entry.depth + 1})
				}
			}
		}
	}

	c.logger.Info("crawl finished", "visited", len(visited), "written", len(written))
	return written, nil
}

// fetchHTML fetches a page, returning false on any error or non-HTML
// response. Individual page failures never abort the crawl.
func (c *Crawler) fetchHTML(ctx context.Context, pageURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("fetch failed", "url", pageURL, "err", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "text/html") {
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("read failed", "url", pageURL, "err", err)
		return "", false
	}
	return string(body), true
}

func (c *Crawler) writePage(outRoot, pageURL, title, markdown string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	rel := slugPath(u.Path) + ".md"
	outFile := filepath.Join(outRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return "", err
	}

	content := fmt.Sprintf("# %s\n\nSource: %s\n\n%s\n", title, pageURL, markdown)
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return "", err
	}
	return outFile, nil
}

// extractLinks resolves every anchor href on the page against its URL.
func extractLinks(html, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, normalizeURL(base.ResolveReference(ref).String()))
	})
	return links
}

// normalizeURL drops the fragment and any trailing slash so the visited
// set treats page variants as one page.
func normalizeURL(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if strings.HasSuffix(raw, "/") && len(raw) > len("https://a.b/") {
		raw = strings.TrimSuffix(raw, "/")
	}
	return raw
}

// allowed reports whether the URL stays on the crawl domain and under one
// of the path prefixes.
func allowed(raw, domain string, prefixes []string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Host != "" && !strings.EqualFold(u.Host, domain) {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9_\-/]`)

// slugPath maps a URL path to a relative file path, sanitizing characters
// that filesystems dislike.
func slugPath(path string) string {
	if path == "" {
		path = "/"
	}
	if strings.HasSuffix(path, "/") {
		path += "index"
	}
	slug := unsafePathChars.ReplaceAllString(path, "-")
	for strings.Contains(slug, "//") {
		slug = strings.ReplaceAll(slug, "//", "/")
	}
	return strings.TrimPrefix(slug, "/")
}
