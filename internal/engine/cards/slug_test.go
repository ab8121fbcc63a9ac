package cards

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

type MockChecker struct {
	taken map[string]bool
}

func (m *MockChecker) CountMatching(base string) (int, error) {
	if base == "error" {
		return 0, errors.New("db error")
	}
	count := 0
	for slug := range m.taken {
		if slug == base || strings.HasPrefix(slug, base+"-") {
			count++
		}
	}
	return count, nil
}

func (m *MockChecker) Exists(candidate string) (bool, error) {
	return m.taken[candidate], nil
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"Simple", "Ada Lovelace", SlugMaxLen, "ada-lovelace"},
		{"Punctuation", "Ada  Lovelace, Jr.!", SlugMaxLen, "ada-lovelace-jr"},
		{"Leading And Trailing", "--Ada--", SlugMaxLen, "ada"},
		{"Unicode Dropped", "Müller & Söhne", SlugMaxLen, "m-ller-s-hne"},
		{"Empty", "!!!", SlugMaxLen, ""},
		{"Truncated", strings.Repeat("a", 60), SlugMaxLen, strings.Repeat("a", 50)},
		{"Truncation Trims Hyphen", strings.Repeat("a", 49) + " bc", SlugMaxLen, strings.Repeat("a", 49)},
		{"Handle Cap", "Johannes Chrysostomus Wolfgangus Theophilus", HandleMaxLen, "johannes-chrysostomus-wolfgang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input, tt.max); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	checker := &MockChecker{taken: map[string]bool{
		"ada-lovelace":   true,
		"grace-hopper":   true,
		"grace-hopper-2": true,
	}}

	// Free base is returned unchanged
	slug, err := GenerateSlug("alan-turing", checker)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if slug != "alan-turing" {
		t.Errorf("Expected alan-turing, got %s", slug)
	}

	// Taken base moves to the -2 suffix
	slug, err = GenerateSlug("ada-lovelace", checker)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if slug != "ada-lovelace-2" {
		t.Errorf("Expected ada-lovelace-2, got %s", slug)
	}

	// Occupied suffixes are skipped
	slug, err = GenerateSlug("grace-hopper", checker)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if slug != "grace-hopper-3" {
		t.Errorf("Expected grace-hopper-3, got %s", slug)
	}

	// Store errors propagate
	if _, err := GenerateSlug("error", checker); err == nil {
		t.Error("Expected error from checker, got nil")
	}
}

func TestGenerateSlugExhaustion(t *testing.T) {
	taken := map[string]bool{"busy": true}
	for i := 2; i <= 1000; i++ {
		taken["busy-"+strconv.Itoa(i)] = true
	}
	checker := &MockChecker{taken: taken}

	slug, err := GenerateSlug("busy", checker)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(slug, "busy-") || taken[slug] {
		t.Errorf("Expected a fresh timestamp fallback, got %s", slug)
	}
}
