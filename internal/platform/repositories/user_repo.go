package repositories

import (
	"database/sql"
	"time"

	"cardsynch/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, subject, email, display_name, handle, avatar_url, plan, plan_expires_at, org_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Subject, user.Email, user.DisplayName, user.Handle, user.AvatarURL, user.Plan, user.PlanExpiresAt, user.OrgID, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne(`SELECT id, subject, email, display_name, handle, avatar_url, plan, plan_expires_at, org_id, created_at, updated_at FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetBySubject(subject string) (*models.User, error) {
	return r.getOne(`SELECT id, subject, email, display_name, handle, avatar_url, plan, plan_expires_at, org_id, created_at, updated_at FROM users WHERE subject = ?`, subject)
}

func (r *UserRepository) GetByHandle(handle string) (*models.User, error) {
	return r.getOne(`SELECT id, subject, email, display_name, handle, avatar_url, plan, plan_expires_at, org_id, created_at, updated_at FROM users WHERE handle = ?`, handle)
}

func (r *UserRepository) getOne(query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Subject, &user.Email, &user.DisplayName, &user.Handle,
		&user.AvatarURL, &user.Plan, &user.PlanExpiresAt, &user.OrgID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) UpdateProfile(id, displayName, handle, avatarURL string) error {
	_, err := r.db.Exec(`
		UPDATE users SET display_name = ?, handle = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?
	`, displayName, handle, avatarURL, time.Now().Unix(), id)
	return err
}

func (r *UserRepository) UpdatePlan(id, plan string, planExpiresAt *int64) error {
	_, err := r.db.Exec(`
		UPDATE users SET plan = ?, plan_expires_at = ?, updated_at = ?
		WHERE id = ?
	`, plan, planExpiresAt, time.Now().Unix(), id)
	return err
}

// DowngradeExpired moves users whose paid plan lapsed back to the free tier.
// Returns the number of users downgraded.
func (r *UserRepository) DowngradeExpired(now int64) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE users SET plan = ?, plan_expires_at = NULL, updated_at = ?
		WHERE plan != ? AND plan_expires_at IS NOT NULL AND plan_expires_at < ?
	`, models.PlanFree, time.Now().Unix(), models.PlanFree, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountMatchingHandle counts handles equal to base or of the form base-<n>,
// digits only; handles like base-2nd do not count.
func (r *UserRepository) CountMatchingHandle(base string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE handle = ? OR (handle GLOB ? AND handle NOT GLOB ?)`,
		base, base+"-[0-9]*", base+"-*[^0-9]*",
	).Scan(&count)
	return count, err
}

func (r *UserRepository) ExistsByHandle(handle string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE handle = ?)`, handle).Scan(&exists)
	return exists, err
}

// Handles exposes handle availability in the shape the slug prober expects.
func (r *UserRepository) Handles() *HandleChecker {
	return &HandleChecker{repo: r}
}

type HandleChecker struct {
	repo *UserRepository
}

func (c *HandleChecker) CountMatching(base string) (int, error) {
	return c.repo.CountMatchingHandle(base)
}

func (c *HandleChecker) Exists(candidate string) (bool, error) {
	return c.repo.ExistsByHandle(candidate)
}
