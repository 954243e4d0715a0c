package chunking

import (
	"sort"
	"strings"
)

// defaultSectionTitle names the synthetic section used when a document has
// no Title elements at all.
const defaultSectionTitle = "Document"

// Section is a contiguous run of elements between heading boundaries. It
// exists only during chunking and is never persisted.
type Section struct {
	Title   string
	Content string
	Page    int
}

// GroupSections groups text-bearing elements into sections. Elements are
// ordered by (page, position) with a stable sort, so equal keys keep input
// order. A Title element starts a new section; every other kind appends its
// text to the current section, blank-line separated. Sections that end up
// with no content are dropped.
func GroupSections(elements []Element) []Section {
	sorted := make([]Element, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PageNumber != sorted[j].PageNumber {
			return sorted[i].PageNumber < sorted[j].PageNumber
		}
		return sorted[i].Position < sorted[j].Position
	})

	var sections []Section
	var current *Section
	flush := func() {
		if current != nil && strings.TrimSpace(current.Content) != "" {
			sections = append(sections, *current)
		}
	}

	for _, el := range sorted {
		switch el.Kind {
		case KindTable:
			// Tables are decomposed separately.
			continue
		case KindTitle:
			flush()
			current = &Section{Title: el.Text, Page: el.PageNumber}
		default:
			if strings.TrimSpace(el.Text) == "" {
				continue
			}
			if current == nil {
				current = &Section{Title: defaultSectionTitle, Page: el.PageNumber}
			}
			if current.Content != "" {
				current.Content += "\n\n"
			}
			current.Content += el.Text
		}
	}
	flush()
	return sections
}
