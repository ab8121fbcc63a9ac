package analytics

import (
	"database/sql"
	"strings"
)

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type LinkCount struct {
	LinkID string `json:"link_id"`
	Clicks int    `json:"clicks"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

// Repository derives series and breakdowns from the scans table. Totals are
// deliberately not computed here: the card counters are the authoritative
// all-time numbers, scan aggregates are supplementary detail.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ViewsByDay groups view events since the cutoff (epoch millis) into
// YYYY-MM-DD buckets, ascending.
func (r *Repository) ViewsByDay(cardIDs []string, since int64) ([]DayCount, error) {
	if len(cardIDs) == 0 {
		return []DayCount{}, nil
	}
	query := `
		SELECT strftime('%Y-%m-%d', timestamp / 1000, 'unixepoch') AS day, COUNT(*)
		FROM scans
		WHERE card_id IN (` + placeholders(len(cardIDs)) + `) AND event_type = 'view' AND timestamp >= ?
		GROUP BY day
		ORDER BY day ASC
	`
	args := make([]interface{}, 0, len(cardIDs)+1)
	for _, id := range cardIDs {
		args = append(args, id)
	}
	args = append(args, since)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []DayCount{}
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// TopLinks ranks a card's links by click count, descending. Ties fall back
// to the store's retrieval order.
func (r *Repository) TopLinks(cardID string, limit int) ([]LinkCount, error) {
	query := `
		SELECT link_id, COUNT(*) AS clicks
		FROM scans
		WHERE card_id = ? AND event_type = 'click' AND link_id != ''
		GROUP BY link_id
		ORDER BY clicks DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, cardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []LinkCount{}
	for rows.Next() {
		var l LinkCount
		if err := rows.Scan(&l.LinkID, &l.Clicks); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (r *Repository) TopReferrers(cardID string, limit int) ([]ReferrerCount, error) {
	query := `
		SELECT referrer, COUNT(*) AS hits
		FROM scans
		WHERE card_id = ? AND referrer != ''
		GROUP BY referrer
		ORDER BY hits DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, cardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []ReferrerCount{}
	for rows.Next() {
		var c ReferrerCount
		if err := rows.Scan(&c.Referrer, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *Repository) DeviceBreakdown(cardID string) ([]DeviceCount, error) {
	query := `
		SELECT device_type, COUNT(*)
		FROM scans
		WHERE card_id = ? AND device_type != ''
		GROUP BY device_type
	`
	rows, err := r.db.Query(query, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []DeviceCount{}
	for rows.Next() {
		var d DeviceCount
		if err := rows.Scan(&d.Device, &d.Count); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// CountShares counts share events across the given cards since the cutoff.
// Shares have no running counter on the card, only scan rows.
func (r *Repository) CountShares(cardIDs []string, since int64) (int, error) {
	if len(cardIDs) == 0 {
		return 0, nil
	}
	query := `
		SELECT COUNT(*) FROM scans
		WHERE card_id IN (` + placeholders(len(cardIDs)) + `) AND event_type = 'share' AND timestamp >= ?
	`
	args := make([]interface{}, 0, len(cardIDs)+1)
	for _, id := range cardIDs {
		args = append(args, id)
	}
	args = append(args, since)

	var count int
	err := r.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
