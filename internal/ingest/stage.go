package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"curator/internal/linking"
	"curator/internal/logging"
	"curator/internal/staging"
)

// Result counts the rows written by one Stage call.
type Result struct {
	Houses      int
	Accessories int
}

// Stage writes a parsed document into the catalog: the house goes into
// the houses table directly (documents describe items already owned),
// and each accessory is staged for review with link suggestions against
// the full house snapshot.
func Stage(ctx context.Context, store *staging.Store, linker *linking.Linker, doc *Document, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ingest")
	var result Result

	houseID, err := store.InsertHouse(ctx, staging.House{
		Name:       doc.House.Name,
		ItemNumber: doc.House.ItemNumber,
		IntroYear:  doc.House.Year,
		Notes:      houseNotes(doc.House),
	})
	if err != nil {
		return result, fmt.Errorf("insert house %q: %w", doc.House.Name, err)
	}
	result.Houses++
	logger.Info("ingested house",
		logging.String("house_id", houseID),
		logging.String("name", doc.House.Name),
		logging.String("source", doc.SourceFile))

	houses, err := store.LoadHouseSnapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("load house snapshot: %w", err)
	}
	for _, accessory := range doc.Accessories {
		data := accessoryData(accessory)
		matches := linker.FindCompatible(data, houses)
		id, err := store.StageAccessory(ctx, staging.StagedAccessory{
			Name:                 accessory.Name,
			ItemNumber:           accessory.ItemNumber,
			IntroYear:            accessory.Year,
			Description:          data.Description,
			DiscoveredSeries:     data.Series,
			DiscoveredCollection: data.Collection,
			SuggestedLinks:       staging.SuggestedLinksFromMatches(matches),
		})
		if err != nil {
			return result, fmt.Errorf("stage accessory %q: %w", accessory.Name, err)
		}
		result.Accessories++
		logger.Info("staged accessory",
			logging.String("accessory_id", id),
			logging.String("name", accessory.Name),
			logging.Int("suggestions", len(matches)))
	}
	return result, nil
}

func accessoryData(item Item) linking.AccessoryData {
	series, collection := linking.ExtractSeriesCollection(item.Details)
	return linking.AccessoryData{
		Name:        item.Name,
		ItemNumber:  item.ItemNumber,
		IntroYear:   item.Year,
		Description: accessoryDescription(item),
		Series:      series,
		Collection:  collection,
	}
}

// accessoryDescription folds explicit cross-references back into the
// detail text so the linker's phrase mining can see them even when the
// reference came from another page of the document.
func accessoryDescription(item Item) string {
	parts := make([]string, 0, 1+len(item.LinkedNames))
	if item.Details != "" {
		parts = append(parts, item.Details)
	}
	for _, name := range item.LinkedNames {
		parts = append(parts, fmt.Sprintf("Goes with %s.", name))
	}
	return strings.Join(parts, "\n")
}

func houseNotes(item *Item) string {
	notes := item.Details
	if item.PurchasedYear > 0 {
		if notes != "" {
			notes += "\n"
		}
		notes += fmt.Sprintf("Purchased in %d", item.PurchasedYear)
	}
	return notes
}
