package cards

// PublicCard is the visitor-facing projection of a card. It is built as an
// allow-list: fields are copied in explicitly, so columns added to Card
// later stay private until someone decides otherwise. Owner and org ids and
// the analytics counters are never included.
type PublicCard struct {
	ID       string         `json:"id"`
	Slug     string         `json:"slug"`
	Mode     string         `json:"mode"`
	Profile  Profile        `json:"profile"`
	Links    []Link         `json:"links"`
	Theme    Theme          `json:"theme"`
	Settings PublicSettings `json:"settings"`
	ShortURL string         `json:"short_url,omitempty"`
}

// PublicSettings is the settings subset a visitor may see.
type PublicSettings struct {
	LeadCaptureEnabled bool   `json:"lead_capture_enabled"`
	ShowEmail          bool   `json:"show_email"`
	ShowPhone          bool   `json:"show_phone"`
	ScheduleLink       string `json:"schedule_link,omitempty"`
	EmbedSchedule      bool   `json:"embed_schedule"`
}

// Project filters the link list down to visible entries, preserving the
// stored order (clients sort by Order ascending).
func Project(card *Card) *PublicCard {
	visible := make([]Link, 0, len(card.Links))
	for _, l := range card.Links {
		if l.Visible {
			visible = append(visible, l)
		}
	}

	return &PublicCard{
		ID:      card.ID,
		Slug:    card.Slug,
		Mode:    card.Mode,
		Profile: card.Profile,
		Links:   visible,
		Theme:   card.Theme,
		Settings: PublicSettings{
			LeadCaptureEnabled: card.Settings.LeadCaptureEnabled,
			ShowEmail:          card.Settings.ShowEmail,
			ShowPhone:          card.Settings.ShowPhone,
			ScheduleLink:       card.Settings.ScheduleLink,
			EmbedSchedule:      card.Settings.EmbedSchedule,
		},
		ShortURL: card.ShortURL,
	}
}
