package crawl

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed from every page before content extraction.
var noiseSelectors = []string{"script", "style", "noscript", "nav", "footer", "header", "aside"}

// extractMain returns the page title and the markdown rendering of the
// page's main content. The first of main, article, body that exists wins.
// Returns an empty body when the page has no usable content.
func extractMain(html, baseURL string) (title, markdown string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	main := doc.Find("main").First()
	if main.Length() == 0 {
		main = doc.Find("article").First()
	}
	if main.Length() == 0 {
		main = doc.Find("body").First()
	}
	if main.Length() == 0 {
		return title, "", nil
	}

	content, err := goquery.OuterHtml(main)
	if err != nil {
		return "", "", err
	}

	converter := md.NewConverter(baseURL, true, nil)
	markdown, err = converter.ConvertString(content)
	if err != nil {
		return "", "", err
	}
	return title, strings.TrimSpace(markdown), nil
}
