package chunking

// ChunkingType identifies which strategy produced a chunk.
type ChunkingType string

const (
	ChunkingRecursive ChunkingType = "recursive"
	ChunkingSemantic  ChunkingType = "semantic"
)

// TableFormat identifies which view of a table a chunk renders.
type TableFormat string

const (
	FormatReadable    TableFormat = "readable"
	FormatJSON        TableFormat = "json"
	FormatColumn      TableFormat = "column"
	FormatStatistics  TableFormat = "statistics"
	FormatDescription TableFormat = "description"
	FormatRowGroup    TableFormat = "row_group"
)

// TablePurpose identifies the retrieval intent a table view serves.
type TablePurpose string

const (
	PurposeDisplay  TablePurpose = "display"
	PurposeQuery    TablePurpose = "query"
	PurposeAnalysis TablePurpose = "analysis"
	PurposeOverview TablePurpose = "overview"
)

// ChunkTypeTable and ChunkTypeText are the values of the "type" metadata key.
const (
	ChunkTypeTable = "table"
	ChunkTypeText  = "text"
)

// Metadata carries the structured fields attached to a chunk. Extra is an
// open extension bag for view-specific keys (json_data, column_stats, ...)
// that flows into the stored payload untouched.
type Metadata struct {
	ChunkingType ChunkingType
	Type         string
	TableFormat  TableFormat
	TablePurpose TablePurpose
	TableID      string
	SectionTitle string
	SectionIndex int
	PageNumber   int
	ChunkSize    int
	ChunkOverlap int
	Error        string
	Extra        map[string]any
}

// ToPayload flattens the metadata into the map form stored alongside the
// chunk content in the vector store. Unset fields are omitted; page_number
// is always present on chunks produced by a chunking strategy.
func (m Metadata) ToPayload() map[string]any {
	p := make(map[string]any, len(m.Extra)+8)
	for k, v := range m.Extra {
		p[k] = v
	}
	if m.ChunkingType != "" {
		p["chunking_type"] = string(m.ChunkingType)
		p["page_number"] = m.PageNumber
	}
	if m.Type != "" {
		p["type"] = m.Type
	}
	if m.TableFormat != "" {
		p["table_format"] = string(m.TableFormat)
	}
	if m.TablePurpose != "" {
		p["table_purpose"] = string(m.TablePurpose)
	}
	if m.TableID != "" {
		p["table_id"] = m.TableID
	}
	if m.SectionTitle != "" {
		p["section_title"] = m.SectionTitle
		p["section_index"] = m.SectionIndex
	}
	if m.ChunkSize > 0 {
		p["chunk_size"] = m.ChunkSize
		p["chunk_overlap"] = m.ChunkOverlap
	}
	if m.Error != "" {
		p["error"] = m.Error
	}
	return p
}

// withView returns a copy of the metadata tagged for one table view.
func (m Metadata) withView(format TableFormat, purpose TablePurpose) Metadata {
	out := m
	out.TableFormat = format
	out.TablePurpose = purpose
	return out
}

// withExtra returns a copy of the metadata with one extension key added.
// The receiver's bag is not mutated.
func (m Metadata) withExtra(key string, value any) Metadata {
	out := m
	out.Extra = make(map[string]any, len(m.Extra)+1)
	for k, v := range m.Extra {
		out.Extra[k] = v
	}
	out.Extra[key] = value
	return out
}

// Chunk is the unit of text stored and retrieved. Chunks are immutable once
// built; reprocessing a document produces a fresh set.
type Chunk struct {
	Content  string
	Metadata Metadata
}
