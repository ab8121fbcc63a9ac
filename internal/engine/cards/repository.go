package cards

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const cardColumns = `id, user_id, org_id, slug, mode, status, profile, links, theme, settings,
       short_url, short_link_id, total_views, total_clicks, total_captures, created_at, updated_at`

// Counter names accepted by IncrementCounter, mapped to their columns.
var counterColumns = map[string]string{
	"views":    "total_views",
	"clicks":   "total_clicks",
	"captures": "total_captures",
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(card *Card) error {
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		card.ID,
		card.UserID,
		card.OrgID,
		card.Slug,
		card.Mode,
		card.Status,
		card.Profile,
		card.Links,
		card.Theme,
		card.Settings,
		card.ShortURL,
		card.ShortLinkID,
		card.Analytics.TotalViews,
		card.Analytics.TotalClicks,
		card.Analytics.TotalCaptures,
		card.CreatedAt,
		card.UpdatedAt,
	)
	return err
}

// GetByID returns the card regardless of status, or nil when absent.
func (r *Repository) GetByID(id string) (*Card, error) {
	row := r.db.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	return scanCard(row)
}

// GetActiveBySlug is the pure public lookup; archived and missing cards are
// indistinguishable (both nil).
func (r *Repository) GetActiveBySlug(slug string) (*Card, error) {
	row := r.db.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE slug = ? AND status = ?`, slug, StatusActive)
	return scanCard(row)
}

// GetPublicBySlug is the visitor read path: it bumps total_views as part of
// the lookup (atomic increment at the storage layer) and returns the card as
// of after the increment. Returns nil when no active card matches.
func (r *Repository) GetPublicBySlug(slug string) (*Card, error) {
	res, err := r.db.Exec(
		`UPDATE cards SET total_views = total_views + 1 WHERE slug = ? AND status = ?`,
		slug, StatusActive,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return r.GetActiveBySlug(slug)
}

func (r *Repository) ListActiveByOwner(userID string) ([]*Card, error) {
	rows, err := r.db.Query(
		`SELECT `+cardColumns+` FROM cards WHERE user_id = ? AND status = ? ORDER BY created_at DESC, id DESC`,
		userID, StatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, rows.Err()
}

func (r *Repository) Update(card *Card) error {
	query := `
		UPDATE cards SET
			mode = ?, profile = ?, links = ?, theme = ?, settings = ?,
			short_url = ?, short_link_id = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		card.Mode,
		card.Profile,
		card.Links,
		card.Theme,
		card.Settings,
		card.ShortURL,
		card.ShortLinkID,
		card.UpdatedAt,
		card.ID,
	)
	return err
}

// Archive soft-deletes: the row stays, public and owner-listing reads skip it.
func (r *Repository) Archive(id string) error {
	_, err := r.db.Exec(
		`UPDATE cards SET status = ?, updated_at = ? WHERE id = ?`,
		StatusArchived, time.Now().Unix(), id,
	)
	return err
}

// IncrementCounter applies an atomic +1 to exactly one counter column.
func (r *Repository) IncrementCounter(id, counter string) error {
	column, ok := counterColumns[counter]
	if !ok {
		return fmt.Errorf("unrecognized counter %q", counter)
	}
	_, err := r.db.Exec(
		fmt.Sprintf(`UPDATE cards SET %s = %s + 1 WHERE id = ?`, column, column),
		id,
	)
	return err
}

// CountMatching implements AvailabilityChecker over card slugs: base itself
// plus any base-<n> suffix, regardless of status. The suffix must be digits
// only; the second GLOB rejects slugs like base-2nd or base-2-extra that
// merely start with a digit.
func (r *Repository) CountMatching(base string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM cards WHERE slug = ? OR (slug GLOB ? AND slug NOT GLOB ?)`,
		base, base+"-[0-9]*", base+"-*[^0-9]*",
	).Scan(&count)
	return count, err
}

// Exists implements AvailabilityChecker.
func (r *Repository) Exists(candidate string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM cards WHERE slug = ?)`, candidate).Scan(&exists)
	return exists, err
}

func scanCard(s interface {
	Scan(dest ...interface{}) error
}) (*Card, error) {
	var card Card
	err := s.Scan(
		&card.ID,
		&card.UserID,
		&card.OrgID,
		&card.Slug,
		&card.Mode,
		&card.Status,
		&card.Profile,
		&card.Links,
		&card.Theme,
		&card.Settings,
		&card.ShortURL,
		&card.ShortLinkID,
		&card.Analytics.TotalViews,
		&card.Analytics.TotalClicks,
		&card.Analytics.TotalCaptures,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}
