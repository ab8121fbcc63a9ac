package cards

// CreateInput is the owner-supplied payload for card creation. Absent theme
// and settings fall back to the documented defaults.
type CreateInput struct {
	Profile  Profile        `json:"profile"`
	Links    []Link         `json:"links"`
	Theme    *ThemePatch    `json:"theme"`
	Settings *SettingsPatch `json:"settings"`
	Mode     string         `json:"mode"`
}

// UpdateInput carries a field-level partial update. Nil means "field absent,
// leave it alone"; a non-nil patch overwrites only the keys it carries.
// Links, when present, replace the stored list as a set.
type UpdateInput struct {
	Profile  *ProfilePatch  `json:"profile"`
	Links    *[]Link        `json:"links"`
	Theme    *ThemePatch    `json:"theme"`
	Settings *SettingsPatch `json:"settings"`
	Mode     *string        `json:"mode"`
}

type ProfilePatch struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	DisplayName    *string `json:"display_name"`
	Title          *string `json:"title"`
	Company        *string `json:"company"`
	Headline       *string `json:"headline"`
	Bio            *string `json:"bio"`
	Prefix         *string `json:"prefix"`
	Accreditations *string `json:"accreditations"`
	Department     *string `json:"department"`
	AvatarURL      *string `json:"avatar_url"`
	CoverURL       *string `json:"cover_url"`
}

type ThemePatch struct {
	Template     *string `json:"template"`
	PrimaryColor *string `json:"primary_color"`
	AccentColor  *string `json:"accent_color"`
	FontFamily   *string `json:"font_family"`
	DarkMode     *bool   `json:"dark_mode"`
	Layout       *string `json:"layout"`
}

type SettingsPatch struct {
	LeadCaptureEnabled *bool   `json:"lead_capture_enabled"`
	ShowEmail          *bool   `json:"show_email"`
	ShowPhone          *bool   `json:"show_phone"`
	ScheduleLink       *string `json:"schedule_link"`
	EmbedSchedule      *bool   `json:"embed_schedule"`
}

func (p *ProfilePatch) apply(dst *Profile) {
	if p == nil {
		return
	}
	if p.FirstName != nil {
		dst.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		dst.LastName = *p.LastName
	}
	if p.DisplayName != nil {
		dst.DisplayName = *p.DisplayName
	}
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Company != nil {
		dst.Company = *p.Company
	}
	if p.Headline != nil {
		dst.Headline = *p.Headline
	}
	if p.Bio != nil {
		dst.Bio = *p.Bio
	}
	if p.Prefix != nil {
		dst.Prefix = *p.Prefix
	}
	if p.Accreditations != nil {
		dst.Accreditations = *p.Accreditations
	}
	if p.Department != nil {
		dst.Department = *p.Department
	}
	if p.AvatarURL != nil {
		dst.AvatarURL = *p.AvatarURL
	}
	if p.CoverURL != nil {
		dst.CoverURL = *p.CoverURL
	}
}

func (p *ThemePatch) apply(dst *Theme) {
	if p == nil {
		return
	}
	if p.Template != nil {
		dst.Template = *p.Template
	}
	if p.PrimaryColor != nil {
		dst.PrimaryColor = *p.PrimaryColor
	}
	if p.AccentColor != nil {
		dst.AccentColor = *p.AccentColor
	}
	if p.FontFamily != nil {
		dst.FontFamily = *p.FontFamily
	}
	if p.DarkMode != nil {
		dst.DarkMode = *p.DarkMode
	}
	if p.Layout != nil {
		dst.Layout = *p.Layout
	}
}

func (p *SettingsPatch) apply(dst *Settings) {
	if p == nil {
		return
	}
	if p.LeadCaptureEnabled != nil {
		dst.LeadCaptureEnabled = *p.LeadCaptureEnabled
	}
	if p.ShowEmail != nil {
		dst.ShowEmail = *p.ShowEmail
	}
	if p.ShowPhone != nil {
		dst.ShowPhone = *p.ShowPhone
	}
	if p.ScheduleLink != nil {
		dst.ScheduleLink = *p.ScheduleLink
	}
	if p.EmbedSchedule != nil {
		dst.EmbedSchedule = *p.EmbedSchedule
	}
}
