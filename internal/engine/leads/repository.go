package leads

import (
	"database/sql"
	"errors"
	"time"
)

const leadColumns = `id, card_id, card_owner_id, name, email, phone, company, notes,
       channel, referrer, ip, user_agent, consent, status, tags, synced, crm_lead_id,
       created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(lead *Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		lead.ID,
		lead.CardID,
		lead.CardOwnerID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.Notes,
		lead.Channel,
		lead.Referrer,
		lead.IP,
		lead.UserAgent,
		lead.Consent,
		lead.Status,
		lead.Tags,
		lead.Synced,
		lead.CRMLeadID,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	return err
}

func (r *Repository) GetByID(id string) (*Lead, error) {
	row := r.db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

// Filter narrows an owner's lead listing; zero values mean "no filter".
type Filter struct {
	CardID string
	Status string
}

func (r *Repository) ListByOwner(ownerID string, filter Filter, limit, offset int) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE card_owner_id = ?`
	args := []interface{}{ownerID}
	if filter.CardID != "" {
		query += ` AND card_id = ?`
		args = append(args, filter.CardID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}

func (r *Repository) CountByOwner(ownerID string, filter Filter) (int, error) {
	query := `SELECT COUNT(*) FROM leads WHERE card_owner_id = ?`
	args := []interface{}{ownerID}
	if filter.CardID != "" {
		query += ` AND card_id = ?`
		args = append(args, filter.CardID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}

	var count int
	err := r.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

// UpdateWorkflow mutates only the owner workflow fields (status, tags); the
// lead details and source metadata stay as captured.
func (r *Repository) UpdateWorkflow(id, status string, tags Tags) error {
	_, err := r.db.Exec(
		`UPDATE leads SET status = ?, tags = ?, updated_at = ? WHERE id = ?`,
		status, tags, time.Now().Unix(), id,
	)
	return err
}

func scanLead(s interface {
	Scan(dest ...interface{}) error
}) (*Lead, error) {
	var lead Lead
	err := s.Scan(
		&lead.ID,
		&lead.CardID,
		&lead.CardOwnerID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Company,
		&lead.Notes,
		&lead.Channel,
		&lead.Referrer,
		&lead.IP,
		&lead.UserAgent,
		&lead.Consent,
		&lead.Status,
		&lead.Tags,
		&lead.Synced,
		&lead.CRMLeadID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}
