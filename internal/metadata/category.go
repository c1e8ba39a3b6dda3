package metadata

// ResolveCategory looks up the remote category id mapped to a vault
// folder. Exact match only; no ancestor or prefix matching. Returns ""
// when the folder has no mapping.
func ResolveCategory(folder string, mapping map[string]string) string {
	if mapping == nil {
		return ""
	}
	return mapping[folder]
}
