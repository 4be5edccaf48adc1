package staging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"curator/internal/linking"
)

const houseColumns = "id, name, item_number, intro_year, notes, series, collection"

// InsertHouse adds an approved house to the catalog and returns its id.
func (s *Store) InsertHouse(ctx context.Context, house House) (string, error) {
	if strings.TrimSpace(house.Name) == "" {
		return "", errors.New("house name is required")
	}
	id := house.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO houses (id, name, item_number, intro_year, notes, series, collection)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		house.Name,
		nullableString(house.ItemNumber),
		nullableInt(house.IntroYear),
		nullableString(house.Notes),
		nullableString(house.Series),
		nullableString(house.Collection),
	)
	if err != nil {
		return "", fmt.Errorf("insert house: %w", err)
	}
	return id, nil
}

// GetHouse fetches a catalog house by id. Missing rows return nil.
func (s *Store) GetHouse(ctx context.Context, id string) (*House, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+houseColumns+` FROM houses WHERE id = ?`, id)
	house, err := scanHouse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get house: %w", err)
	}
	return house, nil
}

// ListHouses returns every catalog house ordered by name.
func (s *Store) ListHouses(ctx context.Context) ([]House, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+houseColumns+` FROM houses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()

	var houses []House
	for rows.Next() {
		house, err := scanHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		houses = append(houses, *house)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate houses: %w", err)
	}
	return houses, nil
}

// LoadHouseSnapshot returns the linker's view of the catalog. Houses
// whose series or collection columns are empty get them extracted from
// the free-text notes.
func (s *Store) LoadHouseSnapshot(ctx context.Context) ([]linking.HouseRecord, error) {
	houses, err := s.ListHouses(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]linking.HouseRecord, 0, len(houses))
	for _, house := range houses {
		record := linking.HouseRecord{
			ID:         house.ID,
			Name:       house.Name,
			Year:       house.IntroYear,
			Code:       house.ItemNumber,
			Notes:      house.Notes,
			Series:     house.Series,
			Collection: house.Collection,
		}
		if record.Series == "" || record.Collection == "" {
			series, collection := linking.ExtractSeriesCollection(house.Notes)
			if record.Series == "" {
				record.Series = series
			}
			if record.Collection == "" {
				record.Collection = collection
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func scanHouse(scanner interface{ Scan(dest ...any) error }) (*House, error) {
	var (
		id         string
		name       string
		itemNumber sql.NullString
		introYear  sql.NullInt64
		notes      sql.NullString
		series     sql.NullString
		collection sql.NullString
	)
	if err := scanner.Scan(&id, &name, &itemNumber, &introYear, &notes, &series, &collection); err != nil {
		return nil, err
	}
	return &House{
		ID:         id,
		Name:       name,
		ItemNumber: itemNumber.String,
		IntroYear:  int(introYear.Int64),
		Notes:      notes.String,
		Series:     series.String,
		Collection: collection.String,
	}, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}
