package parser

import "bytes"

// RemoteIDKey is the frontmatter key that links a vault note to its remote
// counterpart. Its presence switches a sync from create to update.
const RemoteIDKey = "remote_id"

// InsertFrontmatterKey returns content with a "key: value" line added to
// the frontmatter block. The operation is additive-only:
//
//   - no frontmatter: a new block holding just the key is prepended,
//   - frontmatter without the key: one line is inserted before the closing
//     fence and every other byte is left untouched,
//   - key already present: content is returned unchanged.
func InsertFrontmatterKey(content []byte, key, value string) []byte {
	line := key + ": " + value

	if !bytes.HasPrefix(content, []byte(delim+"\n")) && !bytes.HasPrefix(content, []byte(delim+"\r\n")) {
		block := []byte(delim + "\n" + line + "\n" + delim + "\n\n")
		return append(block, content...)
	}

	rest := content[len(delim):]
	idx := closingFenceIndex(rest)
	if idx < 0 {
		// Unclosed fence; treat as body-only and prepend a fresh block.
		block := []byte(delim + "\n" + line + "\n" + delim + "\n\n")
		return append(block, content...)
	}

	if blockHasKey(rest[:idx], key) {
		return content
	}

	// Insert before the line ending that precedes the closing fence, using
	// the document's own line ending so CRLF notes stay CRLF.
	pos := len(delim) + idx
	eol := "\n"
	if content[pos-1] == '\r' {
		eol = "\r\n"
		pos--
	}
	out := make([]byte, 0, len(content)+len(eol)+len(line))
	out = append(out, content[:pos]...)
	out = append(out, eol...)
	out = append(out, line...)
	out = append(out, content[pos:]...)
	return out
}

// blockHasKey reports whether any line of the YAML block starts with
// "key:" at the top level.
func blockHasKey(block []byte, key string) bool {
	prefix := []byte(key + ":")
	for _, l := range bytes.Split(block, []byte("\n")) {
		if bytes.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
