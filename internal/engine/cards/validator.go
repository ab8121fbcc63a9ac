package cards

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

var linkTypes = map[string]bool{
	"email":     true,
	"phone":     true,
	"linkedin":  true,
	"twitter":   true,
	"instagram": true,
	"facebook":  true,
	"youtube":   true,
	"tiktok":    true,
	"github":    true,
	"website":   true,
	"calendly":  true,
	"custom":    true,
}

var templates = map[string]bool{"modern": true, "classic": true, "minimal": true, "bold": true}
var fontFamilies = map[string]bool{"sans": true, "serif": true, "mono": true}
var layouts = map[string]bool{"vertical": true, "horizontal": true}
var modes = map[string]bool{ModeBusiness: true, ModeLanding: true, ModeLead: true, ModeLink: true}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func ValidateCreate(input *CreateInput) error {
	if err := validateProfile(&input.Profile); err != nil {
		return err
	}
	for i := range input.Links {
		if err := ValidateLink(&input.Links[i]); err != nil {
			return err
		}
	}
	if err := validateThemePatch(input.Theme); err != nil {
		return err
	}
	if err := validateSettingsPatch(input.Settings); err != nil {
		return err
	}
	if input.Mode != "" && !modes[input.Mode] {
		return fmt.Errorf("mode: %q is not a valid card mode", input.Mode)
	}
	return nil
}

func ValidateUpdate(input *UpdateInput) error {
	if p := input.Profile; p != nil {
		if p.FirstName != nil && (*p.FirstName == "" || len(*p.FirstName) > 50) {
			return errors.New("profile.first_name: must be 1-50 characters")
		}
		if p.LastName != nil && (*p.LastName == "" || len(*p.LastName) > 50) {
			return errors.New("profile.last_name: must be 1-50 characters")
		}
		if p.Bio != nil && len(*p.Bio) > 1000 {
			return errors.New("profile.bio: must be at most 1000 characters")
		}
	}
	if input.Links != nil {
		for i := range *input.Links {
			if err := ValidateLink(&(*input.Links)[i]); err != nil {
				return err
			}
		}
	}
	if err := validateThemePatch(input.Theme); err != nil {
		return err
	}
	if err := validateSettingsPatch(input.Settings); err != nil {
		return err
	}
	if input.Mode != nil && !modes[*input.Mode] {
		return fmt.Errorf("mode: %q is not a valid card mode", *input.Mode)
	}
	return nil
}

func validateProfile(p *Profile) error {
	if p.FirstName == "" || len(p.FirstName) > 50 {
		return errors.New("profile.first_name: must be 1-50 characters")
	}
	if p.LastName == "" || len(p.LastName) > 50 {
		return errors.New("profile.last_name: must be 1-50 characters")
	}
	if len(p.Bio) > 1000 {
		return errors.New("profile.bio: must be at most 1000 characters")
	}
	return nil
}

func ValidateLink(l *Link) error {
	if !linkTypes[l.Type] {
		return fmt.Errorf("links.type: %q is not a supported channel", l.Type)
	}
	if l.Label == "" || len(l.Label) > 50 {
		return errors.New("links.label: must be 1-50 characters")
	}
	if l.Value == "" || len(l.Value) > 500 {
		return errors.New("links.value: must be 1-500 characters")
	}
	if len(l.Icon) > 50 {
		return errors.New("links.icon: must be at most 50 characters")
	}
	if l.Order < 0 {
		return errors.New("links.order: must not be negative")
	}
	return nil
}

func validateThemePatch(t *ThemePatch) error {
	if t == nil {
		return nil
	}
	if t.Template != nil && !templates[*t.Template] {
		return fmt.Errorf("theme.template: %q is not a valid template", *t.Template)
	}
	if t.PrimaryColor != nil && !hexColorPattern.MatchString(*t.PrimaryColor) {
		return errors.New("theme.primary_color: invalid hex color")
	}
	if t.AccentColor != nil && !hexColorPattern.MatchString(*t.AccentColor) {
		return errors.New("theme.accent_color: invalid hex color")
	}
	if t.FontFamily != nil && !fontFamilies[*t.FontFamily] {
		return fmt.Errorf("theme.font_family: %q is not a valid font family", *t.FontFamily)
	}
	if t.Layout != nil && !layouts[*t.Layout] {
		return fmt.Errorf("theme.layout: %q is not a valid layout", *t.Layout)
	}
	return nil
}

func validateSettingsPatch(s *SettingsPatch) error {
	if s == nil || s.ScheduleLink == nil || *s.ScheduleLink == "" {
		return nil
	}
	u, err := url.Parse(*s.ScheduleLink)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("settings.schedule_link: must be an http(s) URL")
	}
	return nil
}
