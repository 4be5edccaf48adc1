package linking

import (
	"regexp"
	"strings"
)

// House records store series and collection as free text inside notes,
// so the snapshot loader extracts them with a fixed pattern table.
var seriesNotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`series[:\s]+([^.\n]+)`),
	regexp.MustCompile(`village[:\s]+([^.\n]+)`),
	regexp.MustCompile(`from the ([^.\n]+ (?:series|village|collection))`),
}

var collectionNotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`collection[:\s]+([^.\n]+)`),
	regexp.MustCompile(`part of ([^.\n]+ collection)`),
}

// ExtractSeriesCollection pulls series and collection labels out of house
// notes. Either result may be empty.
func ExtractSeriesCollection(notes string) (series, collection string) {
	lowered := strings.ToLower(notes)

	for _, pattern := range seriesNotePatterns {
		if groups := pattern.FindStringSubmatch(lowered); groups != nil {
			series = strings.TrimSpace(groups[1])
			break
		}
	}
	for _, pattern := range collectionNotePatterns {
		if groups := pattern.FindStringSubmatch(lowered); groups != nil {
			collection = strings.TrimSpace(groups[1])
			break
		}
	}
	return series, collection
}
