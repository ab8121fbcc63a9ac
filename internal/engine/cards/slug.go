package cards

import (
	"fmt"
	"strings"
	"time"
)

const (
	SlugMaxLen   = 50
	HandleMaxLen = 30

	maxSuffixProbes = 1000
)

// AvailabilityChecker answers slug-uniqueness questions against a store.
// Both the cards table (slug) and the users table (handle) satisfy it.
type AvailabilityChecker interface {
	// CountMatching counts identifiers equal to base or of the form base-<n>.
	CountMatching(base string) (int, error)
	// Exists reports whether the exact candidate is taken.
	Exists(candidate string) (bool, error)
}

// Slugify lowercases the input, collapses runs of non-alphanumerics into
// single hyphens, trims edge hyphens and truncates to maxLen.
func Slugify(input string, maxLen int) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	return slug
}

// GenerateSlug returns base unchanged when nothing matches base(-<n>)?,
// otherwise probes base-2, base-3, ... for the first free candidate. After
// 1000 failed probes it falls back to a timestamp suffix rather than looping
// forever. The result is not reserved: callers must hold a unique index on
// the column and re-probe when the insert loses the race.
func GenerateSlug(base string, checker AvailabilityChecker) (string, error) {
	count, err := checker.CountMatching(base)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}

	for suffix := 2; suffix <= maxSuffixProbes; suffix++ {
		candidate := fmt.Sprintf("%s-%d", base, suffix)
		exists, err := checker.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli()), nil
}
