package scans

const (
	EventView        = "view"
	EventClick       = "click"
	EventSaveContact = "save_contact"
	EventShare       = "share"
)

// Scan is one immutable visitor interaction with a card. Rows are appended
// and never updated or deleted by normal operation.
type Scan struct {
	ID         string `json:"id"`
	CardID     string `json:"card_id"`
	LinkID     string `json:"link_id,omitempty"`
	EventType  string `json:"event_type"`
	IP         string `json:"ip,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	Referrer   string `json:"referrer,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	Browser    string `json:"browser,omitempty"`
	OS         string `json:"os,omitempty"`
	Timestamp  int64  `json:"timestamp"` // epoch millis, assigned at append
}

func ValidEventType(t string) bool {
	switch t {
	case EventView, EventClick, EventSaveContact, EventShare:
		return true
	}
	return false
}

// counterForEvent maps an event type to the card counter it bumps. Only
// views and clicks have a running aggregate on the card; saves and shares
// exist solely as scan rows.
func counterForEvent(eventType string) string {
	switch eventType {
	case EventView:
		return "views"
	case EventClick:
		return "clicks"
	}
	return ""
}
