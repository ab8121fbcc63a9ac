package cards

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

const (
	ModeBusiness = "business"
	ModeLanding  = "landing"
	ModeLead     = "lead"
	ModeLink     = "link"

	StatusActive   = "active"
	StatusArchived = "archived"
)

// Card is one public profile page. Profile, links, theme, settings and the
// analytics counters are embedded; scans and leads live in their own tables.
type Card struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	OrgID       string   `json:"org_id,omitempty"`
	Slug        string   `json:"slug"`
	Mode        string   `json:"mode"`
	Status      string   `json:"status"`
	Profile     Profile  `json:"profile"`
	Links       Links    `json:"links"`
	Theme       Theme    `json:"theme"`
	Settings    Settings `json:"settings"`
	ShortURL    string   `json:"short_url,omitempty"`
	ShortLinkID string   `json:"short_link_id,omitempty"`
	Analytics   Counters `json:"analytics"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

type Profile struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DisplayName    string `json:"display_name,omitempty"`
	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
	Headline       string `json:"headline,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Prefix         string `json:"prefix,omitempty"`
	Accreditations string `json:"accreditations,omitempty"`
	Department     string `json:"department,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	CoverURL       string `json:"cover_url,omitempty"`
}

// Link is one contact/social entry on a card. The visibility flag, not
// presence in the list, controls whether it appears publicly; Order is the
// ascending display sort key.
type Link struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Icon        string `json:"icon"`
	Visible     bool   `json:"visible"`
	Order       int    `json:"order"`
	ID          string `json:"id,omitempty"`
	ShortURL    string `json:"short_url,omitempty"`
	ShortLinkID string `json:"short_link_id,omitempty"`
}

type Links []Link

type Theme struct {
	Template     string `json:"template"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	FontFamily   string `json:"font_family"`
	DarkMode     bool   `json:"dark_mode"`
	Layout       string `json:"layout"`
}

type Settings struct {
	LeadCaptureEnabled bool   `json:"lead_capture_enabled"`
	ShowEmail          bool   `json:"show_email"`
	ShowPhone          bool   `json:"show_phone"`
	ScheduleLink       string `json:"schedule_link,omitempty"`
	EmbedSchedule      bool   `json:"embed_schedule"`
}

// Counters are monotonically non-decreasing; they are only ever mutated by
// atomic increments at the storage layer.
type Counters struct {
	TotalViews    int `json:"total_views"`
	TotalClicks   int `json:"total_clicks"`
	TotalCaptures int `json:"total_captures"`
}

func DefaultTheme() Theme {
	return Theme{
		Template:     "modern",
		PrimaryColor: "#2563EB",
		AccentColor:  "#7C3AED",
		FontFamily:   "sans",
		DarkMode:     false,
		Layout:       "vertical",
	}
}

func DefaultSettings() Settings {
	return Settings{
		LeadCaptureEnabled: true,
		ShowEmail:          true,
		ShowPhone:          true,
		EmbedSchedule:      false,
	}
}

// Value implements the driver.Valuer interface for Profile
func (p Profile) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for Profile
func (p *Profile) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// Value implements the driver.Valuer interface for Links
func (l Links) Value() (driver.Value, error) {
	if l == nil {
		l = Links{}
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for Links
func (l *Links) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Value implements the driver.Valuer interface for Theme
func (t Theme) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for Theme
func (t *Theme) Scan(value interface{}) error {
	return scanJSON(value, t)
}

// Value implements the driver.Valuer interface for Settings
func (s Settings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for Settings
func (s *Settings) Scan(value interface{}) error {
	return scanJSON(value, s)
}

func scanJSON(value, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("type assertion to []byte failed")
	}
}
