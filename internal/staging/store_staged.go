package staging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"curator/internal/confidence"
)

const stagedHouseColumns = `id, original_house_id, name, item_number, intro_year, retire_year,
    description, primary_image_url, additional_images, discovered_series,
    dept56_official_url, dept56_retired_url, replacements_url,
    name_match_score, confidence_factors, overall_confidence_score,
    confidence_category, recommendation, status, created_at, updated_at`

const stagedAccessoryColumns = `id, original_accessory_id, name, item_number, intro_year,
    description, discovered_series, discovered_collection, suggested_house_links,
    status, created_at, updated_at`

// StageHouse inserts a scraped house candidate as pending and returns
// its staged id.
func (s *Store) StageHouse(ctx context.Context, staged StagedHouse) (string, error) {
	if strings.TrimSpace(staged.Name) == "" {
		return "", errors.New("staged house name is required")
	}

	id := staged.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	factorsJSON, err := json.Marshal(staged.Factors)
	if err != nil {
		return "", fmt.Errorf("marshal confidence factors: %w", err)
	}
	imagesJSON, err := json.Marshal(staged.AdditionalImages)
	if err != nil {
		return "", fmt.Errorf("marshal images: %w", err)
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO staged_houses (`+stagedHouseColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		nullableString(staged.OriginalHouseID),
		staged.Name,
		nullableString(staged.ItemNumber),
		nullableInt(staged.IntroYear),
		nullableInt(staged.RetireYear),
		nullableString(staged.Description),
		nullableString(staged.PrimaryImageURL),
		string(imagesJSON),
		nullableString(staged.DiscoveredSeries),
		nullableString(staged.OfficialURL),
		nullableString(staged.RetiredURL),
		nullableString(staged.ReplacementsURL),
		staged.NameMatchScore,
		string(factorsJSON),
		staged.Factors.Overall,
		string(staged.Category),
		string(staged.Recommendation),
		string(StatusPending),
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("insert staged house: %w", err)
	}
	return id, nil
}

// StageAccessory inserts a scraped accessory candidate as pending,
// carrying its suggested house links, and returns its staged id.
func (s *Store) StageAccessory(ctx context.Context, staged StagedAccessory) (string, error) {
	if strings.TrimSpace(staged.Name) == "" {
		return "", errors.New("staged accessory name is required")
	}

	id := staged.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	linksJSON, err := json.Marshal(staged.SuggestedLinks)
	if err != nil {
		return "", fmt.Errorf("marshal suggested links: %w", err)
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO staged_accessories (`+stagedAccessoryColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		nullableString(staged.OriginalAccessoryID),
		staged.Name,
		nullableString(staged.ItemNumber),
		nullableInt(staged.IntroYear),
		nullableString(staged.Description),
		nullableString(staged.DiscoveredSeries),
		nullableString(staged.DiscoveredCollection),
		string(linksJSON),
		string(StatusPending),
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("insert staged accessory: %w", err)
	}
	return id, nil
}

// GetStagedHouse fetches a staged house by id. Missing rows return nil.
func (s *Store) GetStagedHouse(ctx context.Context, id string) (*StagedHouse, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+stagedHouseColumns+` FROM staged_houses WHERE id = ?`, id)
	staged, err := scanStagedHouse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get staged house: %w", err)
	}
	return staged, nil
}

// GetStagedAccessory fetches a staged accessory by id. Missing rows return nil.
func (s *Store) GetStagedAccessory(ctx context.Context, id string) (*StagedAccessory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+stagedAccessoryColumns+` FROM staged_accessories WHERE id = ?`, id)
	staged, err := scanStagedAccessory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get staged accessory: %w", err)
	}
	return staged, nil
}

// ListStagedHouses returns staged houses with the given status ordered
// by descending overall confidence. A limit <= 0 returns all rows.
func (s *Store) ListStagedHouses(ctx context.Context, status Status, limit int) ([]StagedHouse, error) {
	query := `SELECT ` + stagedHouseColumns + ` FROM staged_houses WHERE status = ?
        ORDER BY overall_confidence_score DESC, created_at`
	args := []any{string(status)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staged houses: %w", err)
	}
	defer rows.Close()

	var staged []StagedHouse
	for rows.Next() {
		row, err := scanStagedHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staged house: %w", err)
		}
		staged = append(staged, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staged houses: %w", err)
	}
	return staged, nil
}

// ListStagedAccessories returns staged accessories with the given status
// ordered by insertion time. A limit <= 0 returns all rows.
func (s *Store) ListStagedAccessories(ctx context.Context, status Status, limit int) ([]StagedAccessory, error) {
	query := `SELECT ` + stagedAccessoryColumns + ` FROM staged_accessories WHERE status = ? ORDER BY created_at`
	args := []any{string(status)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staged accessories: %w", err)
	}
	defer rows.Close()

	var staged []StagedAccessory
	for rows.Next() {
		row, err := scanStagedAccessory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staged accessory: %w", err)
		}
		staged = append(staged, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staged accessories: %w", err)
	}
	return staged, nil
}

// ErrNotStaged indicates a review action referenced an unknown staged id.
var ErrNotStaged = errors.New("staged item not found")

// SetHouseStatus transitions a staged house's review status.
func (s *Store) SetHouseStatus(ctx context.Context, id string, status Status) error {
	return s.setStatus(ctx, "staged_houses", id, status)
}

// SetAccessoryStatus transitions a staged accessory's review status.
func (s *Store) SetAccessoryStatus(ctx context.Context, id string, status Status) error {
	return s.setStatus(ctx, "staged_accessories", id, status)
}

func (s *Store) setStatus(ctx context.Context, table, id string, status Status) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE `+table+` SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, id,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotStaged, id)
	}
	return nil
}

// PendingSummary aggregates review-queue counts.
func (s *Store) PendingSummary(ctx context.Context) (Summary, error) {
	var summary Summary

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(AVG(overall_confidence_score), 0)
         FROM staged_houses WHERE status = ?`, string(StatusPending))
	if err := row.Scan(&summary.HousesPending, &summary.AvgConfidence); err != nil {
		return Summary{}, fmt.Errorf("pending house summary: %w", err)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM staged_accessories WHERE status = ?`, string(StatusPending))
	if err := row.Scan(&summary.AccessoriesPending); err != nil {
		return Summary{}, fmt.Errorf("pending accessory summary: %w", err)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT
            (SELECT COUNT(1) FROM staged_houses WHERE status = 'approved') +
            (SELECT COUNT(1) FROM staged_accessories WHERE status = 'approved'),
            (SELECT COUNT(1) FROM staged_houses WHERE status = 'rejected') +
            (SELECT COUNT(1) FROM staged_accessories WHERE status = 'rejected')`)
	if err := row.Scan(&summary.Approved, &summary.Rejected); err != nil {
		return Summary{}, fmt.Errorf("resolved summary: %w", err)
	}

	return summary, nil
}

func scanStagedHouse(scanner interface{ Scan(dest ...any) error }) (*StagedHouse, error) {
	var (
		id              string
		originalID      sql.NullString
		name            string
		itemNumber      sql.NullString
		introYear       sql.NullInt64
		retireYear      sql.NullInt64
		description     sql.NullString
		primaryImageURL sql.NullString
		imagesJSON      sql.NullString
		series          sql.NullString
		officialURL     sql.NullString
		retiredURL      sql.NullString
		replacementsURL sql.NullString
		nameMatchScore  float64
		factorsJSON     sql.NullString
		overall         float64
		category        sql.NullString
		recommendation  sql.NullString
		statusStr       string
		createdRaw      string
		updatedRaw      string
	)

	if err := scanner.Scan(
		&id, &originalID, &name, &itemNumber, &introYear, &retireYear,
		&description, &primaryImageURL, &imagesJSON, &series,
		&officialURL, &retiredURL, &replacementsURL,
		&nameMatchScore, &factorsJSON, &overall,
		&category, &recommendation, &statusStr, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	staged := &StagedHouse{
		ID:               id,
		OriginalHouseID:  originalID.String,
		Name:             name,
		ItemNumber:       itemNumber.String,
		IntroYear:        int(introYear.Int64),
		RetireYear:       int(retireYear.Int64),
		Description:      description.String,
		PrimaryImageURL:  primaryImageURL.String,
		DiscoveredSeries: series.String,
		OfficialURL:      officialURL.String,
		RetiredURL:       retiredURL.String,
		ReplacementsURL:  replacementsURL.String,
		NameMatchScore:   nameMatchScore,
		Category:         confidence.Category(category.String),
		Recommendation:   confidence.Recommendation(recommendation.String),
		Status:           Status(statusStr),
	}

	if imagesJSON.Valid && imagesJSON.String != "" {
		if err := json.Unmarshal([]byte(imagesJSON.String), &staged.AdditionalImages); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	if factorsJSON.Valid && factorsJSON.String != "" {
		if err := json.Unmarshal([]byte(factorsJSON.String), &staged.Factors); err != nil {
			return nil, fmt.Errorf("decode confidence factors: %w", err)
		}
	}
	staged.Factors.Overall = overall

	staged.CreatedAt = parseTimestamp(createdRaw)
	staged.UpdatedAt = parseTimestamp(updatedRaw)
	return staged, nil
}

func scanStagedAccessory(scanner interface{ Scan(dest ...any) error }) (*StagedAccessory, error) {
	var (
		id          string
		originalID  sql.NullString
		name        string
		itemNumber  sql.NullString
		introYear   sql.NullInt64
		description sql.NullString
		series      sql.NullString
		collection  sql.NullString
		linksJSON   sql.NullString
		statusStr   string
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(
		&id, &originalID, &name, &itemNumber, &introYear,
		&description, &series, &collection, &linksJSON,
		&statusStr, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	staged := &StagedAccessory{
		ID:                   id,
		OriginalAccessoryID:  originalID.String,
		Name:                 name,
		ItemNumber:           itemNumber.String,
		IntroYear:            int(introYear.Int64),
		Description:          description.String,
		DiscoveredSeries:     series.String,
		DiscoveredCollection: collection.String,
		Status:               Status(statusStr),
	}

	if linksJSON.Valid && linksJSON.String != "" {
		if err := json.Unmarshal([]byte(linksJSON.String), &staged.SuggestedLinks); err != nil {
			return nil, fmt.Errorf("decode suggested links: %w", err)
		}
	}

	staged.CreatedAt = parseTimestamp(createdRaw)
	staged.UpdatedAt = parseTimestamp(updatedRaw)
	return staged, nil
}

func parseTimestamp(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
