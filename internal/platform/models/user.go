package models

const (
	PlanFree = "free"
	PlanPro  = "pro"
	PlanTeam = "team"
)

type User struct {
	ID            string `json:"id"`
	Subject       string `json:"subject"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	Handle        string `json:"handle"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Plan          string `json:"plan"`
	PlanExpiresAt *int64 `json:"plan_expires_at,omitempty"` // epoch millis
	OrgID         string `json:"org_id,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}
