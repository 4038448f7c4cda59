package extract

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

// content containers tried in priority order; first non-empty match wins
var contentSelectors = []string{
	".entry-content",
	".post-content",
	".article-content",
	"article",
	".content",
	"main",
}

// decoration stripped from whichever subtree matched
const stripSelector = "div.elementor, style, script, nav, header, footer"

var whitespaceRun = regexp.MustCompile(`\s+`)

// FromURL fetches a page and extracts its main textual content. The client is
// injected so the pooled transport and the fetch timeout are owned by the
// caller.
func FromURL(ctx context.Context, client *http.Client, pageURL string) (commonModels.ExtractedContent, error) {
	var empty commonModels.ExtractedContent

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return empty, apperrors.ExtractionWrap(apperrors.FetchFailure, "invalid request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return empty, apperrors.ExtractionWrap(apperrors.FetchFailure,
			fmt.Sprintf("failed to fetch %s", pageURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return empty, apperrors.Extraction(apperrors.FetchFailure,
			fmt.Sprintf("fetching %s returned status %d", pageURL, resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return empty, apperrors.ExtractionWrap(apperrors.ParseFailure, "failed to parse page HTML", err)
	}

	content := selectContent(doc)
	cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(content, " "))
	if cleaned == "" {
		return empty, apperrors.Extraction(apperrors.EmptyContent, "no content found at the provided URL")
	}

	return commonModels.ExtractedContent{
		Text: cleaned,
		Metadata: commonModels.ContentMetadata{
			Source:      pageURL,
			Title:       pageTitle(doc),
			PublishedAt: publishDate(doc),
			ContentType: "text/html",
			WordCount:   len(strings.Fields(cleaned)),
		},
	}, nil
}

func selectContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		clone := sel.First().Clone()
		clone.Find(stripSelector).Remove()
		if text := clone.Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}

	//fall back to the whole body minus chrome
	body := doc.Find("body").Clone()
	body.Find("nav, header, footer, script, style").Remove()
	return body.Text()
}

func pageTitle(doc *goquery.Document) string {
	for _, selector := range []string{"h1.entry-title", "h1", "title"} {
		if t := strings.TrimSpace(doc.Find(selector).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func publishDate(doc *goquery.Document) string {
	metas := []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[property="article:modified_time"]`,
	}
	for _, selector := range metas {
		if content, ok := doc.Find(selector).First().Attr("content"); ok && content != "" {
			return content
		}
	}
	return ""
}
