package chunking

// ElementKind identifies the structural role of a parsed document element.
type ElementKind int

const (
	KindTitle ElementKind = iota
	KindNarrativeText
	KindListItem
	KindTable
)

// String returns the canonical name for the element kind.
func (k ElementKind) String() string {
	switch k {
	case KindTitle:
		return "Title"
	case KindNarrativeText:
		return "NarrativeText"
	case KindListItem:
		return "ListItem"
	case KindTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// KindFromString maps an extractor's element type name to an ElementKind.
// Unrecognized names map to NarrativeText so unexpected element types still
// contribute their text instead of being dropped.
func KindFromString(name string) ElementKind {
	switch name {
	case "Title":
		return KindTitle
	case "NarrativeText":
		return KindNarrativeText
	case "ListItem":
		return KindListItem
	case "Table":
		return KindTable
	default:
		return KindNarrativeText
	}
}

// Element is one unit of parsed document content.
type Element struct {
	Kind       ElementKind
	Text       string
	PageNumber int     // 0 means unknown
	Position   float64 // vertical coordinate within the page, 0 when the extractor has none
	HTML       string  // raw fragment, set for Table elements when the extractor supplies it
}
