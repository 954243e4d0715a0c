package vectorstore

import "strings"

// WithPrefix returns name namespaced under prefix. Names that already carry
// the prefix pass through unchanged.
func WithPrefix(prefix, name string) string {
	if prefix == "" || strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

// StripPrefix removes the namespace prefix from a collection name.
func StripPrefix(prefix, name string) string {
	return strings.TrimPrefix(name, prefix)
}

// SanitizeName replaces characters outside [A-Za-z0-9_] with underscores so
// arbitrary user input is safe to use as a collection name.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// InferChunkingType reports which chunking strategy produced a collection,
// read off its name after the namespace prefix is removed.
func InferChunkingType(prefix, name string) string {
	base := StripPrefix(prefix, name)
	switch {
	case base == "recursive" || strings.HasPrefix(base, "recursive_"):
		return "recursive"
	case base == "semantic" || strings.HasPrefix(base, "semantic_"):
		return "semantic"
	default:
		return "unknown"
	}
}
