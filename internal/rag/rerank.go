package rag

// boostTableDocs regroups retrieved table views so each table surfaces once,
// represented by its most queryable view. Table docs are grouped by table_id;
// each group contributes the view whose purpose ranks best, plus the json view
// when a different view won. Grouped picks precede plain text docs; relative
// retrieval order is preserved everywhere else.
func boostTableDocs(docs []ScoredDoc) []ScoredDoc {
	groups := make(map[string][]ScoredDoc)
	var groupOrder []string
	var textDocs []ScoredDoc

	for _, doc := range docs {
		if metaString(doc.Meta, "type") != "table" {
			textDocs = append(textDocs, doc)
			continue
		}
		tableID := metaString(doc.Meta, "table_id")
		if tableID == "" {
			tableID = "unknown"
		}
		if _, ok := groups[tableID]; !ok {
			groupOrder = append(groupOrder, tableID)
		}
		groups[tableID] = append(groups[tableID], doc)
	}

	boosted := make([]ScoredDoc, 0, len(docs))
	for _, tableID := range groupOrder {
		group := groups[tableID]
		best := group[0]
		for _, doc := range group[1:] {
			if purposeRank(doc.Meta) < purposeRank(best.Meta) {
				best = doc
			}
		}
		boosted = append(boosted, best)

		if metaString(best.Meta, "table_format") != "json" {
			for _, doc := range group {
				if metaString(doc.Meta, "table_format") == "json" {
					boosted = append(boosted, doc)
					break
				}
			}
		}
	}

	return append(boosted, textDocs...)
}

// purposeRank orders table views by how directly they answer a data question.
// Unknown purposes sort after all known ones.
func purposeRank(meta map[string]any) int {
	switch metaString(meta, "table_purpose") {
	case "query":
		return 0
	case "analysis":
		return 1
	case "overview":
		return 2
	case "display":
		return 3
	default:
		return 4
	}
}
