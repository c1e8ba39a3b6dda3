// Package metadata resolves a vault note into the normalized form sent to
// the remote store: title, slug, tags, status, category, and summary.
package metadata

import (
	"path"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
)

// Options carries the configured resolution rules. All fields are optional.
type Options struct {
	// TagPrefix, when non-empty, keeps only tags carrying the prefix and
	// strips it from the kept tags (e.g. "publish/a" -> "a").
	TagPrefix string
	// SlugStrategy selects the slug base string, see slug.go.
	SlugStrategy SlugStrategy
	// CategoryMapping maps a vault folder path to a remote category id.
	CategoryMapping map[string]string
	// DefaultCategoryID applies when neither frontmatter nor the mapping
	// name a category. Empty means the payload omits the field.
	DefaultCategoryID string
}

// Input is everything Extract needs about one note. Frontmatter may be nil.
type Input struct {
	Path        string
	Frontmatter map[string]interface{}
	ContentTags []string
	Now         time.Time
}

// Extract builds NoteMetadata from a note's frontmatter and derived tag
// annotations. Pure function of its inputs; the metadata is rebuilt on
// every sync and never cached.
func Extract(in Input, opts Options) (models.NoteMetadata, error) {
	display := DisplayName(in.Path)

	title := parser.String(in.Frontmatter, "title")
	if title == "" {
		title = display
	}
	if title == "" {
		return models.NoteMetadata{}, &apperr.ExtractionError{Path: in.Path, Reason: "no usable title"}
	}

	slug := parser.String(in.Frontmatter, "slug")
	if slug == "" {
		slug = Slug(display, title, opts.SlugStrategy, in.Now)
	}

	categoryID := parser.String(in.Frontmatter, "categoryId")
	if categoryID == "" {
		categoryID = ResolveCategory(Folder(in.Path), opts.CategoryMapping)
	}
	if categoryID == "" {
		categoryID = opts.DefaultCategoryID
	}

	summary := parser.String(in.Frontmatter, "summary")
	if summary == "" {
		summary = parser.String(in.Frontmatter, "description")
	}

	return models.NoteMetadata{
		Title:      title,
		Slug:       slug,
		Tags:       resolveTags(parser.StringList(in.Frontmatter, "tags"), in.ContentTags, opts.TagPrefix),
		Status:     models.ParseStatus(parser.String(in.Frontmatter, "status")),
		CategoryID: categoryID,
		Summary:    summary,
		RemoteID:   parser.String(in.Frontmatter, parser.RemoteIDKey),
	}, nil
}

// resolveTags unions frontmatter tags with content-derived tags in
// first-seen order, then applies the prefix filter.
func resolveTags(fmTags, contentTags []string, prefix string) []string {
	seen := make(map[string]struct{})
	var merged []string
	add := func(tag string) {
		tag = strings.TrimPrefix(tag, "#")
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	for _, t := range fmTags {
		add(t)
	}
	for _, t := range contentTags {
		add(t)
	}

	if prefix == "" {
		return merged
	}
	var kept []string
	for _, t := range merged {
		if strings.HasPrefix(t, prefix) {
			kept = append(kept, strings.TrimPrefix(t, prefix))
		}
	}
	return kept
}

// DisplayName returns the note's human-readable name: the file name with
// the extension removed.
func DisplayName(notePath string) string {
	base := path.Base(notePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Folder returns the note's containing folder relative to the vault root,
// or "" for a note at the root.
func Folder(notePath string) string {
	dir := path.Dir(notePath)
	if dir == "." {
		return ""
	}
	return dir
}
