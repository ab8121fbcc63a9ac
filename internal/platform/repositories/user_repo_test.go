package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"

	"cardsynch/internal/platform/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	query := `
	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		handle TEXT NOT NULL UNIQUE,
		avatar_url TEXT NOT NULL DEFAULT '',
		plan TEXT NOT NULL DEFAULT 'free',
		plan_expires_at INTEGER,
		org_id TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return db
}

func testUser(id, subject, handle string) *models.User {
	now := time.Now().Unix()
	return &models.User{
		ID:          id,
		Subject:     subject,
		Email:       subject + "@example.com",
		DisplayName: "Test User",
		Handle:      handle,
		Plan:        models.PlanFree,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUserRepository(db)

	if err := repo.Create(testUser("usr_1", "sub-1", "ada")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	bySubject, err := repo.GetBySubject("sub-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bySubject == nil || bySubject.ID != "usr_1" {
		t.Errorf("Unexpected user: %+v", bySubject)
	}
	if bySubject.PlanExpiresAt != nil {
		t.Errorf("Expected nil expiry, got %v", bySubject.PlanExpiresAt)
	}

	missing, err := repo.GetBySubject("sub-nope")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown subject")
	}

	// Duplicate subjects are rejected by the unique index
	if err := repo.Create(testUser("usr_2", "sub-1", "other")); err == nil {
		t.Error("Expected unique constraint error for duplicate subject")
	}
}

func TestUserRepository_UpdatePlan(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUserRepository(db)
	if err := repo.Create(testUser("usr_1", "sub-1", "ada")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	expiry := time.Now().AddDate(0, 1, 0).UnixMilli()
	if err := repo.UpdatePlan("usr_1", models.PlanPro, &expiry); err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}

	user, _ := repo.GetByID("usr_1")
	if user.Plan != models.PlanPro || user.PlanExpiresAt == nil || *user.PlanExpiresAt != expiry {
		t.Errorf("Plan not stored: %+v", user)
	}

	if err := repo.UpdatePlan("usr_1", models.PlanFree, nil); err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}
	user, _ = repo.GetByID("usr_1")
	if user.Plan != models.PlanFree || user.PlanExpiresAt != nil {
		t.Errorf("Expiry not cleared: %+v", user)
	}
}

func TestUserRepository_DowngradeExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUserRepository(db)

	now := time.Now().UnixMilli()
	past := now - 1000
	future := now + 86_400_000

	expired := testUser("usr_1", "sub-1", "expired")
	expired.Plan = models.PlanPro
	expired.PlanExpiresAt = &past

	current := testUser("usr_2", "sub-2", "current")
	current.Plan = models.PlanTeam
	current.PlanExpiresAt = &future

	lifetime := testUser("usr_3", "sub-3", "lifetime")
	lifetime.Plan = models.PlanPro

	for _, u := range []*models.User{expired, current, lifetime} {
		if err := repo.Create(u); err != nil {
			t.Fatalf("Failed to create: %v", err)
		}
	}

	count, err := repo.DowngradeExpired(now)
	if err != nil {
		t.Fatalf("DowngradeExpired failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 downgrade, got %d", count)
	}

	u1, _ := repo.GetByID("usr_1")
	if u1.Plan != models.PlanFree || u1.PlanExpiresAt != nil {
		t.Errorf("Expired user not downgraded: %+v", u1)
	}
	u2, _ := repo.GetByID("usr_2")
	if u2.Plan != models.PlanTeam {
		t.Errorf("Current user touched: %+v", u2)
	}
	u3, _ := repo.GetByID("usr_3")
	if u3.Plan != models.PlanPro {
		t.Errorf("Lifetime user touched: %+v", u3)
	}
}

func TestUserRepository_HandleChecker(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUserRepository(db)
	for i, handle := range []string{"ada", "ada-2", "ada-x", "ada-2nd", "adam"} {
		u := testUser("usr_"+string(rune('a'+i)), "sub-"+handle, handle)
		if err := repo.Create(u); err != nil {
			t.Fatalf("Failed to create %s: %v", handle, err)
		}
	}

	checker := repo.Handles()

	// Only the base and digits-only suffixes count; "ada-x" and "ada-2nd"
	// are unrelated handles.
	count, err := checker.CountMatching("ada")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 matches, got %d", count)
	}

	exists, _ := checker.Exists("ada-2")
	if !exists {
		t.Error("Expected ada-2 to exist")
	}
	exists, _ = checker.Exists("ada-3")
	if exists {
		t.Error("Expected ada-3 to be free")
	}
}

// The sweep uses RowsAffected for its log line, exercised here against a
// mocked driver since sqlite's result plumbing is already covered above.
func TestUserRepository_DowngradeExpiredResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET plan").
		WillReturnResult(sqlmock.NewResult(0, 7))

	repo := NewUserRepository(db)
	count, err := repo.DowngradeExpired(time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("DowngradeExpired failed: %v", err)
	}
	if count != 7 {
		t.Errorf("Expected 7, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
