package scans

import (
	"database/sql"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(scan *Scan) error {
	query := `
		INSERT INTO scans (
			id, card_id, link_id, event_type, ip, user_agent, referrer,
			device_type, browser, os, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		scan.ID,
		scan.CardID,
		scan.LinkID,
		scan.EventType,
		scan.IP,
		scan.UserAgent,
		scan.Referrer,
		scan.DeviceType,
		scan.Browser,
		scan.OS,
		scan.Timestamp,
	)
	return err
}

// CountByType counts a card's events of one type since a cutoff, 0 meaning
// all time.
func (r *Repository) CountByType(cardID, eventType string, since int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM scans WHERE card_id = ? AND event_type = ? AND timestamp >= ?`,
		cardID, eventType, since,
	).Scan(&count)
	return count, err
}
