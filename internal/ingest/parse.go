package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"curator/internal/catalog"
)

// Item is one catalog row recovered from a document page.
type Item struct {
	Name          string
	Kind          catalog.ItemKind
	ItemNumber    string
	Year          int
	PurchasedYear int
	Details       string
	LinkedNames   []string
}

// Document is the parsed content of one .docx file: the house described
// on page one plus every accessory page that follows.
type Document struct {
	SourceFile  string
	House       *Item
	Accessories []Item
}

var (
	itemNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:SKU|Item\s*#|Item\s*Number|Product\s*Code)[\s:]*([0-9]{2,3}\.[0-9]{4,5})`),
		regexp.MustCompile(`\b([0-9]{2,3}\.[0-9]{4,5})\b`),
	}
	releaseYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Released|Introduced|Issued)[\s:]*([0-9]{4})`),
		regexp.MustCompile(`\b(19[7-9][0-9]|20[0-9]{2})\b`),
	}
	purchasedYearPattern = regexp.MustCompile(`(?i)(?:Purchased|Bought|Acquired)[\s:]*(?:in\s+)?([0-9]{4})`)
	linkPhrasePattern    = regexp.MustCompile(`(?i)(?:coordinates?\s+with|goes\s+with|pairs?\s+with|accessory\s+for|works?\s+with)[:\s]+([^.;]+)`)

	boxKeywords = []string{"box", "packaging", "carton", "styrofoam", "sleeve"}
)

const (
	earliestDocumentYear = 1976
	latestDocumentYear   = 2030
)

func parseDocument(paras []paragraph, name string) (*Document, error) {
	pages := splitPages(paras)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: document has no text", filepath.Base(name))
	}
	doc := &Document{SourceFile: filepath.Base(name)}

	house, firstAccessory, err := parseHousePage(pages[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.SourceFile, err)
	}
	doc.House = house
	if firstAccessory != nil {
		doc.Accessories = append(doc.Accessories, *firstAccessory)
	}
	for _, page := range pages[1:] {
		item, ok := parseAccessoryPage(page)
		if !ok {
			continue
		}
		doc.Accessories = append(doc.Accessories, item)
	}
	return doc, nil
}

// parseHousePage reads the page-one layout: house name on the first line,
// the companion accessory's name on the second, an optional line about
// the original box, then free-form detail lines shared by both items.
func parseHousePage(lines []string) (*Item, *Item, error) {
	lines = dropIgnored(lines)
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("first page has no usable text")
	}
	house := &Item{Name: lines[0], Kind: catalog.KindHouse}

	rest := lines[1:]
	var accessory *Item
	if len(rest) > 0 && !isBoxLine(rest[0]) && !looksLikeDetail(rest[0]) {
		accessory = &Item{Name: rest[0], Kind: catalog.KindAccessory}
		rest = rest[1:]
	}
	if len(rest) > 0 && isBoxLine(rest[0]) {
		rest = rest[1:]
	}
	details := strings.Join(rest, "\n")
	fillItem(house, details)
	if accessory != nil {
		fillItem(accessory, details)
		accessory.LinkedNames = append(accessory.LinkedNames, house.Name)
	}
	return house, accessory, nil
}

// parseAccessoryPage reads a follow-on page: accessory name first, details
// after. Pages with no name line are skipped.
func parseAccessoryPage(lines []string) (Item, bool) {
	lines = dropIgnored(lines)
	if len(lines) == 0 {
		return Item{}, false
	}
	item := Item{Name: lines[0], Kind: catalog.KindAccessory}
	fillItem(&item, strings.Join(lines[1:], "\n"))
	return item, true
}

func fillItem(item *Item, details string) {
	item.Details = details
	item.ItemNumber = firstPattern(itemNumberPatterns, details)
	item.Year = extractDocumentYear(releaseYearPatterns, details)
	if m := purchasedYearPattern.FindStringSubmatch(details); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil && plausibleYear(year) {
			item.PurchasedYear = year
		}
	}
	for _, m := range linkPhrasePattern.FindAllStringSubmatch(details, -1) {
		name := strings.TrimSpace(strings.TrimRight(m[1], ".- "))
		if name != "" {
			item.LinkedNames = append(item.LinkedNames, name)
		}
	}
}

func firstPattern(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractDocumentYear(patterns []*regexp.Regexp, text string) int {
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			year, err := strconv.Atoi(m[1])
			if err == nil && plausibleYear(year) {
				return year
			}
		}
	}
	return 0
}

func plausibleYear(year int) bool {
	now := time.Now().Year()
	limit := latestDocumentYear
	if now+1 < limit {
		limit = now + 1
	}
	return year >= earliestDocumentYear && year <= limit
}

func dropIgnored(lines []string) []string {
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.EqualFold(trimmed, "imported from docx") {
			continue
		}
		kept = append(kept, trimmed)
	}
	return kept
}

// isBoxLine reports whether a line only describes the original packaging.
func isBoxLine(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range boxKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// looksLikeDetail guards against short pages where the second line is
// already detail text rather than an accessory name.
func looksLikeDetail(line string) bool {
	if itemNumberPatterns[0].MatchString(line) || itemNumberPatterns[1].MatchString(line) {
		return true
	}
	for _, p := range releaseYearPatterns[:1] {
		if p.MatchString(line) {
			return true
		}
	}
	return purchasedYearPattern.MatchString(line)
}
