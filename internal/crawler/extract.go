package crawler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"curator/internal/catalog"
)

// seriesKeywords maps lowercase markers to canonical series names, in
// match priority order.
var seriesKeywords = []struct {
	keyword string
	series  string
}{
	{"north pole", "North Pole Series"},
	{"dickens", "Dickens' Village"},
	{"snow village", "Original Snow Village"},
	{"new england", "New England Village"},
	{"alpine", "Alpine Village"},
	{"christmas in the city", "Christmas in the City"},
	{"bethlehem", "Little Town of Bethlehem"},
	{"halloween", "Halloween Village"},
}

var (
	skuPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)SKU[:\s]+([A-Z0-9.\-]+)`),
		regexp.MustCompile(`(?i)Item\s*#[:\s]*([A-Z0-9.\-]+)`),
		regexp.MustCompile(`(?i)Item\s*Number[:\s]*([A-Z0-9.\-]+)`),
		regexp.MustCompile(`(?i)Product\s*Code[:\s]*([A-Z0-9.\-]+)`),
	}
	introYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Introduced\s+(?:in\s+)?[A-Z][a-z]+\s+(\d{4})`),
		regexp.MustCompile(`(?i)Introduced[:\s]+(\d{4})`),
		regexp.MustCompile(`(?i)First\s+Released[:\s]+(\d{4})`),
	}
	retireYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Retired\s+(?:in\s+)?[A-Z][a-z]+\s+(\d{4})`),
		regexp.MustCompile(`(?i)Retired[:\s]+(\d{4})`),
		regexp.MustCompile(`(?i)Discontinued[:\s]+(\d{4})`),
	}
	// Non-greedy up to a sentence break so decimal points survive.
	dimensionsPattern = regexp.MustCompile(`(?i)Measures?[:\s]+(.+?)(?:\.\s|\.$|\n|$)`)
)

// earliestYear bounds year extraction; the catalog starts in 1976.
const earliestYear = 1976

// ParseProduct extracts a candidate from a product detail page. The name
// is the only required field; everything else is best effort.
func ParseProduct(data []byte, pageURL, site string) (catalog.Candidate, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return catalog.Candidate{}, fmt.Errorf("parse html: %w", err)
	}

	var page pageData
	page.metas = make(map[string]string)
	collectPage(doc, &page, false)

	candidate := catalog.Candidate{
		SourceSite: site,
		SourceURL:  pageURL,
		Kind:       inferKind(pageURL, page.breadcrumbs),
	}

	applyJSONLD(&candidate, page.jsonLD)

	if candidate.Name == "" {
		candidate.Name = page.title
	}
	if candidate.Name == "" {
		return catalog.Candidate{}, fmt.Errorf("no product name found at %s", pageURL)
	}

	text := page.text.String()
	if candidate.ItemNumber == "" {
		candidate.ItemNumber = firstMatch(skuPatterns, text)
	}
	if candidate.Description == "" {
		candidate.Description = page.metas["og:description"]
	}
	candidate.IntroYear = extractYear(introYearPatterns, text)
	candidate.RetireYear = extractYear(retireYearPatterns, text)
	candidate.Dimensions = strings.TrimSpace(firstMatchOne(dimensionsPattern, text))
	candidate.Series = extractSeries(pageURL, page.breadcrumbs, text)
	candidate.Collection = extractCollection(page.breadcrumbs, text)

	images := page.images
	if og := page.metas["og:image"]; og != "" {
		images = append([]string{og}, images...)
	}
	images = dedupe(images)
	if len(images) > 0 {
		candidate.PrimaryImageURL = images[0]
		candidate.AdditionalImages = images
	}

	return candidate, nil
}

// pageData is the single-pass harvest of everything the extractors need.
type pageData struct {
	title       string
	jsonLD      []string
	metas       map[string]string
	breadcrumbs []string
	images      []string
	text        strings.Builder
}

func collectPage(n *html.Node, page *pageData, inBreadcrumb bool) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script:
			if attrValue(n, "type") == "application/ld+json" && n.FirstChild != nil {
				page.jsonLD = append(page.jsonLD, n.FirstChild.Data)
			}
			return
		case atom.Style, atom.Noscript:
			return
		case atom.Meta:
			if property := attrValue(n, "property"); property != "" {
				if content := attrValue(n, "content"); content != "" {
					page.metas[property] = content
				}
			}
			return
		case atom.H1:
			if page.title == "" {
				page.title = strings.TrimSpace(nodeText(n))
			}
		case atom.Img:
			if src := attrValue(n, "src"); src != "" {
				page.images = append(page.images, src)
			}
		case atom.A:
			if inBreadcrumb {
				if text := strings.TrimSpace(nodeText(n)); text != "" {
					page.breadcrumbs = append(page.breadcrumbs, text)
				}
			}
		}
		if strings.Contains(strings.ToLower(attrValue(n, "class")), "breadcrumb") {
			inBreadcrumb = true
		}
	}

	if n.Type == html.TextNode {
		if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
			page.text.WriteString(trimmed)
			page.text.WriteByte(' ')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectPage(c, page, inBreadcrumb)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// jsonLDProduct is the subset of schema.org Product the sites publish.
type jsonLDProduct struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Image       any    `json:"image"`
}

func applyJSONLD(candidate *catalog.Candidate, scripts []string) {
	for _, script := range scripts {
		var product jsonLDProduct
		if err := json.Unmarshal([]byte(script), &product); err != nil {
			continue
		}
		if product.Type != "Product" {
			continue
		}
		candidate.Name = strings.TrimSpace(product.Name)
		candidate.ItemNumber = strings.TrimSpace(product.SKU)
		candidate.Description = strings.TrimSpace(product.Description)
		switch image := product.Image.(type) {
		case string:
			if image != "" {
				candidate.PrimaryImageURL = image
				candidate.AdditionalImages = []string{image}
			}
		case []any:
			for _, entry := range image {
				if url, ok := entry.(string); ok && url != "" {
					candidate.AdditionalImages = append(candidate.AdditionalImages, url)
				}
			}
			if len(candidate.AdditionalImages) > 0 {
				candidate.PrimaryImageURL = candidate.AdditionalImages[0]
			}
		}
		return
	}
}

func extractSeries(pageURL string, breadcrumbs []string, text string) string {
	// URL path segments are the most reliable marker on the retired site.
	loweredURL := strings.ToLower(pageURL)
	for _, entry := range seriesKeywords {
		segment := strings.ReplaceAll(entry.keyword, " ", "-")
		if strings.Contains(loweredURL, "/"+segment) {
			return entry.series
		}
	}

	for _, crumb := range breadcrumbs {
		lowered := strings.ToLower(crumb)
		for _, entry := range seriesKeywords {
			if strings.Contains(lowered, entry.keyword) {
				return entry.series
			}
		}
	}

	loweredText := strings.ToLower(text)
	for _, entry := range seriesKeywords {
		if strings.Contains(loweredText, entry.keyword) {
			return entry.series
		}
	}
	return ""
}

// collectionPattern pulls a named collection out of marketing copy such
// as "Part of the Heritage Village Collection".
var collectionPattern = regexp.MustCompile(`(?i)part of (?:the )?((?:[\w'’.]+ ){1,5}collection)\b`)

func extractCollection(breadcrumbs []string, text string) string {
	// Breadcrumb entries name collections directly ("Heritage Village
	// Collection"); the suffix check keeps series crumbs out.
	for _, crumb := range breadcrumbs {
		trimmed := strings.TrimSpace(crumb)
		if strings.HasSuffix(strings.ToLower(trimmed), " collection") {
			return trimmed
		}
	}
	if groups := collectionPattern.FindStringSubmatch(text); groups != nil {
		return strings.TrimSpace(groups[1])
	}
	return ""
}

func inferKind(pageURL string, breadcrumbs []string) catalog.ItemKind {
	if strings.Contains(strings.ToLower(pageURL), "accessor") {
		return catalog.KindAccessory
	}
	for _, crumb := range breadcrumbs {
		if strings.Contains(strings.ToLower(crumb), "accessor") {
			return catalog.KindAccessory
		}
	}
	return catalog.KindHouse
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, pattern := range patterns {
		if groups := pattern.FindStringSubmatch(text); groups != nil {
			// SKU character classes swallow sentence-final punctuation.
			return strings.TrimRight(strings.TrimSpace(groups[1]), ".-")
		}
	}
	return ""
}

func firstMatchOne(pattern *regexp.Regexp, text string) string {
	if groups := pattern.FindStringSubmatch(text); groups != nil {
		return groups[1]
	}
	return ""
}

func extractYear(patterns []*regexp.Regexp, text string) int {
	raw := firstMatch(patterns, text)
	if raw == "" {
		return 0
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	if year < earliestYear || year > time.Now().Year() {
		return 0
	}
	return year
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	var out []string
	for _, url := range urls {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
