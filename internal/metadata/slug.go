package metadata

import (
	"regexp"
	"strings"
	"time"
)

// SlugStrategy selects the base string a slug is generated from when the
// frontmatter does not carry one.
type SlugStrategy string

const (
	SlugFilename     SlugStrategy = "filename"
	SlugTitle        SlugStrategy = "title"
	SlugDateFilename SlugStrategy = "date-filename"
	SlugDateTitle    SlugStrategy = "date-title"
)

// SlugStrategies lists every accepted strategy, for config validation.
var SlugStrategies = []interface{}{
	string(SlugFilename), string(SlugTitle), string(SlugDateFilename), string(SlugDateTitle),
}

var (
	slugStripRe   = regexp.MustCompile(`[^a-z0-9\p{Han}\s-]+`)
	slugSpaceRe   = regexp.MustCompile(`\s+`)
	slugHyphenRe  = regexp.MustCompile(`-{2,}`)
	isoDateFormat = "2006-01-02"
)

// Slug derives a URL-safe identifier from the display name or title,
// optionally prefixed with the calendar date. Deterministic for a fixed
// now. Latin letters are lowercased and Han ideographs kept, everything
// else outside [a-z0-9 whitespace hyphen] is dropped.
func Slug(displayName, title string, strategy SlugStrategy, now time.Time) string {
	var base string
	switch strategy {
	case SlugTitle:
		base = title
	case SlugDateFilename:
		base = now.Format(isoDateFormat) + "-" + displayName
	case SlugDateTitle:
		base = now.Format(isoDateFormat) + "-" + title
	default:
		base = displayName
	}

	s := strings.ToLower(base)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
