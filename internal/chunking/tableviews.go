package chunking

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// Tables with more records than this additionally get row-group views.
	rowGroupThreshold = 10
	rowGroupSize      = 5
	maxUniqueValues   = 10
)

// GenerateTableChunks renders every applicable view of a table, in a fixed
// order: readable, json, per-column, statistics, description, row groups.
// Views whose backing data is absent are skipped silently, so a degraded
// header-less table yields only its readable view. base supplies the shared
// metadata (chunking type, table id, page, error marker); each view adds its
// format, purpose, and view-specific keys.
func GenerateTableChunks(t *StructuredTable, base Metadata) []Chunk {
	var chunks []Chunk
	if c, ok := readableView(t, base); ok {
		chunks = append(chunks, c)
	}
	if c, ok := jsonView(t, base); ok {
		chunks = append(chunks, c)
	}
	chunks = append(chunks, columnViews(t, base)...)
	if c, ok := statisticsView(t, base); ok {
		chunks = append(chunks, c)
	}
	if c, ok := descriptionView(t, base); ok {
		chunks = append(chunks, c)
	}
	chunks = append(chunks, rowGroupViews(t, base)...)
	return chunks
}

// readableView renders the pipe-delimited table. Header-less tables render
// their rows only, with no separator rule.
func readableView(t *StructuredTable, base Metadata) (Chunk, bool) {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return Chunk{}, false
	}
	var b strings.Builder
	b.WriteString("TABLE:\n")
	if len(t.Headers) > 0 {
		b.WriteString(strings.Join(t.Headers, " | "))
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", utf8.RuneCountInString(b.String())-1))
		b.WriteString("\n")
	}
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	return Chunk{Content: b.String(), Metadata: base.withView(FormatReadable, PurposeDisplay)}, true
}

// jsonView serializes the records verbatim, preserving header order.
func jsonView(t *StructuredTable, base Metadata) (Chunk, bool) {
	if len(t.Records) == 0 {
		return Chunk{}, false
	}
	raw, err := json.MarshalIndent(t.Records, "", "  ")
	if err != nil {
		return Chunk{}, false
	}
	fields := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		fields[i] = h
	}
	meta := base.withView(FormatJSON, PurposeQuery).withExtra("json_data", string(raw))
	meta.Extra["record_count"] = len(t.Records)
	meta.Extra["fields"] = fields
	return Chunk{Content: "TABLE DATA (JSON FORMAT):\n" + string(raw), Metadata: meta}, true
}

// columnViews emits one chunk per column holding at least one non-empty
// cell. Numeric columns carry their aggregates, the rest a deduplicated
// value sample capped at maxUniqueValues entries.
func columnViews(t *StructuredTable, base Metadata) []Chunk {
	var chunks []Chunk
	for _, col := range t.Columns {
		if !hasValue(col.Values) {
			continue
		}
		meta := base.withView(FormatColumn, PurposeAnalysis).withExtra("column_name", col.Name)
		var content string
		if stats, ok := t.Statistics[col.Name]; ok {
			content = fmt.Sprintf(
				"COLUMN DATA: %s\n\nValues: %s\nMin: %s\nMax: %s\nAverage: %s\nSum: %s\n",
				col.Name,
				strings.Join(col.Values, ", "),
				formatNumber(stats.Min), formatNumber(stats.Max),
				formatNumber(stats.Mean), formatNumber(stats.Sum),
			)
			meta.Extra["is_numeric"] = true
			meta.Extra["column_stats"] = map[string]any{
				"min":   stats.Min,
				"max":   stats.Max,
				"avg":   stats.Mean,
				"sum":   stats.Sum,
				"count": stats.Count,
			}
		} else {
			unique := uniqueValues(col.Values)
			sample := unique
			if len(sample) > maxUniqueValues {
				sample = sample[:maxUniqueValues]
			}
			content = fmt.Sprintf(
				"COLUMN DATA: %s\n\nValues: %s\nUnique values: %d\n",
				col.Name,
				strings.Join(col.Values, ", "),
				len(unique),
			)
			meta.Extra["is_numeric"] = false
			sampleAny := make([]any, len(sample))
			for i, v := range sample {
				sampleAny[i] = v
			}
			meta.Extra["unique_values"] = sampleAny
		}
		chunks = append(chunks, Chunk{Content: content, Metadata: meta})
	}
	return chunks
}

// statisticsView aggregates every numeric column into one chunk, iterating
// in column order so output is stable.
func statisticsView(t *StructuredTable, base Metadata) (Chunk, bool) {
	if len(t.Statistics) == 0 {
		return Chunk{}, false
	}
	var b strings.Builder
	b.WriteString("TABLE STATISTICS:\n")
	statsMeta := make(map[string]any, len(t.Statistics))
	for _, col := range t.Columns {
		stats, ok := t.Statistics[col.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", col.Name)
		fmt.Fprintf(&b, "  - min: %s\n", formatNumber(stats.Min))
		fmt.Fprintf(&b, "  - max: %s\n", formatNumber(stats.Max))
		fmt.Fprintf(&b, "  - mean: %s\n", formatNumber(stats.Mean))
		fmt.Fprintf(&b, "  - sum: %s\n", formatNumber(stats.Sum))
		statsMeta[col.Name] = map[string]any{
			"min":  stats.Min,
			"max":  stats.Max,
			"mean": stats.Mean,
			"sum":  stats.Sum,
		}
	}
	meta := base.withView(FormatStatistics, PurposeAnalysis).withExtra("statistics", statsMeta)
	return Chunk{Content: b.String(), Metadata: meta}, true
}

// descriptionView renders a prose summary of the table's shape and numeric
// aggregates.
func descriptionView(t *StructuredTable, base Metadata) (Chunk, bool) {
	if len(t.Headers) == 0 {
		return Chunk{}, false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "This table contains %d rows and %d columns. The columns are: %s.",
		len(t.Rows), len(t.Headers), strings.Join(t.Headers, ", "))

	var numericCols []string
	for _, col := range t.Columns {
		if _, ok := t.Statistics[col.Name]; ok {
			numericCols = append(numericCols, col.Name)
		}
	}
	if len(numericCols) > 0 {
		fmt.Fprintf(&b, " The table contains numeric data in columns: %s.", strings.Join(numericCols, ", "))
		for _, name := range numericCols {
			stats := t.Statistics[name]
			fmt.Fprintf(&b, " The sum of %s is %s with an average of %s.",
				name, formatNumber(stats.Sum), formatNumber(stats.Mean))
		}
	}
	return Chunk{Content: b.String(), Metadata: base.withView(FormatDescription, PurposeOverview)}, true
}

// rowGroupViews partitions large tables into groups of rowGroupSize rows,
// each rendered as pipe text with its records embedded as JSON. Tables at or
// under the threshold get no row groups at all.
func rowGroupViews(t *StructuredTable, base Metadata) []Chunk {
	if len(t.Records) <= rowGroupThreshold {
		return nil
	}
	var chunks []Chunk
	for start := 0; start < len(t.Records); start += rowGroupSize {
		end := start + rowGroupSize
		if end > len(t.Records) {
			end = len(t.Records)
		}
		raw, err := json.MarshalIndent(t.Records[start:end], "", "  ")
		if err != nil {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "TABLE ROWS %d to %d:\n\n", start+1, end)
		b.WriteString(strings.Join(t.Headers, " | "))
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", utf8.RuneCountInString(b.String())))
		b.WriteString("\n")
		for _, row := range t.Rows[start:end] {
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
		b.WriteString("\nJSON:\n")
		b.Write(raw)

		meta := base.withView(FormatRowGroup, PurposeQuery).withExtra("row_range", fmt.Sprintf("%d-%d", start+1, end))
		meta.Extra["json_data"] = string(raw)
		chunks = append(chunks, Chunk{Content: b.String(), Metadata: meta})
	}
	return chunks
}

// formatNumber renders a float as the shortest decimal string that
// round-trips, never in exponent notation.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func hasValue(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// uniqueValues deduplicates in first-seen order, keeping output stable.
func uniqueValues(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
