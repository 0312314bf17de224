// Package crawl fetches statutory-law pages from a government portal and
// mirrors them as markdown files that the ingestion loader can pick up.
//
// The crawler does a breadth-first walk from a base URL, staying on the
// same domain and under the configured path prefixes. Main page content is
// extracted (navigation, scripts, and boilerplate dropped) and converted
// to markdown; each page lands at <out>/<domain>/<path-slug>.md. Fetches
// are paced by a rate limiter.
package crawl
