package leads

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusWon       = "won"
	StatusLost      = "lost"

	ChannelNFCTap    = "nfc_tap"
	ChannelQRScan    = "qr_scan"
	ChannelLinkShare = "link_share"
	ChannelEmbed     = "embed"
)

// Lead is a visitor-submitted inquiry. The lead details, source metadata and
// consent flag are immutable once created; only status and tags are owner
// workflow state.
type Lead struct {
	ID          string `json:"id"`
	CardID      string `json:"card_id"`
	CardOwnerID string `json:"card_owner_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Channel     string `json:"channel"`
	Referrer    string `json:"referrer,omitempty"`
	IP          string `json:"ip,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	Consent     bool   `json:"consent"`
	Status      string `json:"status"`
	Tags        Tags   `json:"tags"`
	Synced      bool   `json:"synced"`
	CRMLeadID   string `json:"crm_lead_id,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type Tags []string

// Value implements the driver.Valuer interface for Tags
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for Tags
func (t *Tags) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("type assertion to []byte failed")
	}
}

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusWon, StatusLost:
		return true
	}
	return false
}

func ValidChannel(c string) bool {
	switch c {
	case ChannelNFCTap, ChannelQRScan, ChannelLinkShare, ChannelEmbed:
		return true
	}
	return false
}
