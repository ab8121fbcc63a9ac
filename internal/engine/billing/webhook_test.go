package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cardsynch/internal/platform/models"
	"cardsynch/internal/platform/repositories"
)

func TestVerifySignature(t *testing.T) {
	secret := "secret"
	payload := []byte("payload")

	// Calculated using: echo -n "payload" | openssl dgst -sha256 -hmac "secret"
	valid := "b82fcb791acec57859b989b430a826488ce2e479fdf92326bd0a2e8375a42ba4"

	if !VerifySignature(payload, valid, secret) {
		t.Error("Valid signature rejected")
	}
	if VerifySignature(payload, valid, "other-secret") {
		t.Error("Signature accepted with wrong secret")
	}
	if VerifySignature([]byte("tampered"), valid, secret) {
		t.Error("Signature accepted for tampered body")
	}
	if VerifySignature(payload, "", secret) {
		t.Error("Empty signature accepted")
	}
}

func TestResolvePlan(t *testing.T) {
	tests := []struct {
		name         string
		entitlements []string
		want         string
	}{
		{"Empty", nil, models.PlanFree},
		{"Pro", []string{"cardsynch_pro"}, models.PlanPro},
		{"Team", []string{"cardsynch_team"}, models.PlanTeam},
		{"Highest Wins", []string{"cardsynch_pro", "cardsynch_team"}, models.PlanTeam},
		{"Unknown Ignored", []string{"cardsynch_legacy", "cardsynch_pro"}, models.PlanPro},
		{"All Unknown", []string{"mystery"}, models.PlanFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePlan(tt.entitlements); got != tt.want {
				t.Errorf("ResolvePlan(%v) = %s, want %s", tt.entitlements, got, tt.want)
			}
		})
	}
}

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

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestProcess(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	users := repositories.NewUserRepository(db)
	now := time.Now().Unix()
	if err := users.Create(&models.User{
		ID: "usr_1", Subject: "sub-1", Handle: "ada", Plan: models.PlanFree,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	const secret = "whsec_test"
	proc := NewProcessor(users, secret)

	expiry := time.Now().AddDate(0, 1, 0).UnixMilli()
	purchase := []byte(fmt.Sprintf(
		`{"event":{"type":"INITIAL_PURCHASE","app_user_id":"sub-1","entitlement_ids":["cardsynch_pro"],"expiration_at_ms":%d}}`,
		expiry,
	))

	if err := proc.Process(purchase, "deadbeef"); err != ErrInvalidSignature {
		t.Fatalf("Expected ErrInvalidSignature, got %v", err)
	}
	if err := proc.Process(purchase, sign(secret, purchase)); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	user, _ := users.GetBySubject("sub-1")
	if user.Plan != models.PlanPro {
		t.Errorf("Expected pro plan, got %s", user.Plan)
	}
	if user.PlanExpiresAt == nil || *user.PlanExpiresAt != expiry {
		t.Errorf("Expiry not stored: %v", user.PlanExpiresAt)
	}

	// Cancellation drops back to free and clears the expiry
	cancel := []byte(`{"event":{"type":"CANCELLATION","app_user_id":"sub-1"}}`)
	if err := proc.Process(cancel, sign(secret, cancel)); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	user, _ = users.GetBySubject("sub-1")
	if user.Plan != models.PlanFree || user.PlanExpiresAt != nil {
		t.Errorf("Cancellation not applied: plan=%s expiry=%v", user.Plan, user.PlanExpiresAt)
	}

	// Billing issues are acknowledged without touching the plan
	users.UpdatePlan("usr_1", models.PlanTeam, nil)
	issue := []byte(`{"event":{"type":"BILLING_ISSUE","app_user_id":"sub-1"}}`)
	if err := proc.Process(issue, sign(secret, issue)); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	user, _ = users.GetBySubject("sub-1")
	if user.Plan != models.PlanTeam {
		t.Errorf("Billing issue changed the plan: %s", user.Plan)
	}

	// Unknown users are acknowledged, not an error
	stranger := []byte(`{"event":{"type":"RENEWAL","app_user_id":"sub-unknown","entitlement_ids":["cardsynch_pro"]}}`)
	if err := proc.Process(stranger, sign(secret, stranger)); err != nil {
		t.Errorf("Expected ack for unknown user, got %v", err)
	}

	// Garbage payloads fail after the signature check
	garbage := []byte(`{not json`)
	if err := proc.Process(garbage, sign(secret, garbage)); err == nil {
		t.Error("Expected parse error")
	}
}
