// Package parser splits a note into its frontmatter block and Markdown
// body, and extracts inline tag annotations.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// delim is the frontmatter fence. It must open the file at byte zero;
// anything else means the note has no frontmatter.
const delim = "---"

// Result holds the output of parsing a note.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Tags        []string
}

// Parse separates the frontmatter mapping from the Markdown body and
// collects inline #tags from the body. It never mutates its input and is
// idempotent: parsing an already-extracted body yields the same body back.
func Parse(data []byte) *Result {
	fm, body := splitFrontmatter(data)
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Tags:        extractTags(body),
	}
}

// splitFrontmatter separates the YAML block between leading --- fences from
// the body. The opening fence must start the file; a missing or unclosed
// fence, or an invalid YAML block, means the whole (trimmed) text is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	if !bytes.HasPrefix(data, []byte(delim+"\n")) && !bytes.HasPrefix(data, []byte(delim+"\r\n")) {
		return nil, strings.TrimSpace(string(data))
	}

	rest := data[len(delim):]
	idx := closingFenceIndex(rest)
	if idx < 0 {
		return nil, strings.TrimSpace(string(data))
	}

	yamlBlock := rest[:idx]
	body := strings.TrimSpace(string(rest[idx+1+len(delim):]))

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, strings.TrimSpace(string(data))
	}
	return fm, body
}

// closingFenceIndex returns the offset in rest of the newline that opens a
// closing fence, or -1. The fence must occupy a whole line: "---" directly
// followed by a line ending or the end of input, so a "---" embedded inside
// a frontmatter value never terminates the block early.
func closingFenceIndex(rest []byte) int {
	for off := 0; ; {
		i := bytes.Index(rest[off:], []byte("\n"+delim))
		if i < 0 {
			return -1
		}
		idx := off + i
		tail := rest[idx+1+len(delim):]
		if len(tail) == 0 || tail[0] == '\n' ||
			(tail[0] == '\r' && (len(tail) == 1 || tail[1] == '\n')) {
			return idx
		}
		off = idx + 1
	}
}

// extractTags collects inline #tags from the body, deduplicated in
// first-seen order, without the leading marker.
func extractTags(body string) []string {
	matches := tagRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// String returns the frontmatter value for key if it is a non-empty string.
func String(fm map[string]interface{}, key string) string {
	if fm == nil {
		return ""
	}
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// StringList normalizes a frontmatter value that may be a scalar or a
// sequence into a list of non-empty strings.
func StringList(fm map[string]interface{}, key string) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm[key]
	if !ok {
		return nil
	}
	var out []string
	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
