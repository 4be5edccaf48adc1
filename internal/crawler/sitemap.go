package crawler

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapLoc `xml:"url"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// parseSitemap decodes a sitemap document. A urlset yields page URLs; a
// sitemapindex yields nested sitemap URLs instead.
func parseSitemap(data []byte) (pages []string, nested []string, err error) {
	var set sitemapURLSet
	if err := xml.Unmarshal(data, &set); err == nil {
		for _, entry := range set.URLs {
			if loc := strings.TrimSpace(entry.Loc); loc != "" {
				pages = append(pages, loc)
			}
		}
		return pages, nil, nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal(data, &index); err == nil {
		for _, entry := range index.Sitemaps {
			if loc := strings.TrimSpace(entry.Loc); loc != "" {
				nested = append(nested, loc)
			}
		}
		return nil, nested, nil
	}

	return nil, nil, fmt.Errorf("document is neither a urlset nor a sitemapindex")
}

// productURLs filters sitemap pages down to product detail pages.
func productURLs(pages []string) []string {
	var urls []string
	for _, page := range pages {
		lowered := strings.ToLower(page)
		if strings.Contains(lowered, "/products/") || strings.Contains(lowered, "/product/") {
			urls = append(urls, page)
		}
	}
	return urls
}
