package chunking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ColumnStats aggregates one numeric column. Count is the number of
// non-empty cells that contributed to the aggregates.
type ColumnStats struct {
	Min   float64
	Max   float64
	Mean  float64
	Sum   float64
	Count int
}

// Column pairs a header with its cells in row order.
type Column struct {
	Name   string
	Values []string
}

// Record is one table row keyed by column name. Fields preserves header
// order so serialized records are deterministic instead of following map
// iteration order.
type Record struct {
	Fields []string
	Values map[string]string
}

// MarshalJSON emits the record's fields in header order. Duplicate headers
// are emitted once, at their first position, with the last value assigned.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]bool, len(r.Fields))
	first := true
	for _, f := range r.Fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NestedTable attaches a table found inside a cell to its owning position.
// Nested tables are decomposed on their own; their text does not leak into
// the parent cell.
type NestedTable struct {
	Row   int
	Col   int
	Table *StructuredTable
}

// StructuredTable is the decomposed form of one table element.
//
// Rows are rectangular: every row is padded with empty cells to the longest
// observed width. Statistics holds aggregates for numeric columns only,
// where a column counts as numeric when at least one non-empty cell parses
// as a number; remaining non-empty cells coerce to zero in the aggregates.
type StructuredTable struct {
	Headers    []string
	Rows       [][]string
	Records    []Record
	Columns    []Column
	Statistics map[string]ColumnStats
	Nested     []NestedTable
	PageNumber int
	Err        string // set when decomposition degraded, never fatal
}

// DecomposeElement turns a Table element into a StructuredTable. When the
// element carries no HTML the raw text becomes a single header-less row,
// which downstream renders as a plain text table view with no statistics.
func DecomposeElement(el Element) *StructuredTable {
	if strings.TrimSpace(el.HTML) != "" {
		if t := DecomposeTableHTML(el.HTML, el.PageNumber); t != nil {
			return t
		}
		return &StructuredTable{
			Rows:       [][]string{{el.Text}},
			PageNumber: el.PageNumber,
			Err:        "no table element found in html",
		}
	}
	return &StructuredTable{
		Rows:       [][]string{{el.Text}},
		PageNumber: el.PageNumber,
	}
}

// DecomposeTableHTML parses an HTML fragment and decomposes the first table
// in it. Returns nil when the fragment contains no table.
func DecomposeTableHTML(fragment string, page int) *StructuredTable {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	tbl := findTable(doc)
	if tbl == nil {
		return nil
	}
	return decomposeTableNode(tbl, page)
}

// decomposeTableNode extracts headers, rows, and nested tables from one
// table node, then derives records, columns, and statistics.
func decomposeTableNode(tbl *html.Node, page int) *StructuredTable {
	t := &StructuredTable{PageNumber: page}

	allRows := rowNodes(tbl)
	if len(allRows) == 0 {
		t.Err = "table has no rows"
		return t
	}

	var headerRows map[*html.Node]bool
	if thead := tableSection(tbl, "thead"); thead != nil {
		headerRows = make(map[*html.Node]bool)
		var lastHeader *html.Node
		for _, tr := range rowNodes(thead) {
			headerRows[tr] = true
			lastHeader = tr
		}
		if lastHeader != nil {
			for _, cell := range cellNodes(lastHeader) {
				t.Headers = append(t.Headers, textContent(cell))
			}
		}
	} else {
		// No thead: the first row serves as the header and is skipped
		// in the body.
		headerRows = map[*html.Node]bool{allRows[0]: true}
		for _, cell := range cellNodes(allRows[0]) {
			t.Headers = append(t.Headers, textContent(cell))
		}
	}

	for _, tr := range allRows {
		if headerRows[tr] {
			continue
		}
		var row []string
		rowIdx := len(t.Rows)
		for colIdx, cell := range cellNodes(tr) {
			row = append(row, textContent(cell))
			for _, nested := range tablesWithin(cell) {
				t.Nested = append(t.Nested, NestedTable{
					Row:   rowIdx,
					Col:   colIdx,
					Table: decomposeTableNode(nested, page),
				})
			}
		}
		if len(row) > 0 {
			t.Rows = append(t.Rows, row)
		}
	}

	t.finish()
	return t
}

// finish pads rows to a rectangle, synthesizes column names when the header
// row does not line up, and derives records, columns, and statistics.
func (t *StructuredTable) finish() {
	maxCols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	for i, row := range t.Rows {
		for len(row) < maxCols {
			row = append(row, "")
		}
		t.Rows[i] = row
	}

	if len(t.Headers) != maxCols {
		headers := make([]string, maxCols)
		for i := range headers {
			headers[i] = fmt.Sprintf("Column_%d", i+1)
		}
		t.Headers = headers
	}

	if len(t.Headers) == 0 {
		return
	}

	for _, row := range t.Rows {
		rec := Record{Fields: t.Headers, Values: make(map[string]string, len(t.Headers))}
		for i, h := range t.Headers {
			rec.Values[h] = row[i]
		}
		t.Records = append(t.Records, rec)
	}

	for i, h := range t.Headers {
		col := Column{Name: h}
		for _, row := range t.Rows {
			col.Values = append(col.Values, row[i])
		}
		t.Columns = append(t.Columns, col)
	}

	for _, col := range t.Columns {
		if stats, ok := columnStats(col.Values); ok {
			if t.Statistics == nil {
				t.Statistics = make(map[string]ColumnStats)
			}
			t.Statistics[col.Name] = stats
		}
	}
}

// columnStats coerces a column's cells to numbers and aggregates them.
// Empty cells are treated as missing and excluded. A column is numeric when
// at least one remaining cell parses; cells that do not parse count as zero.
// This lossy zero policy is intentional and pinned by tests.
func columnStats(values []string) (ColumnStats, bool) {
	var nums []float64
	numeric := false
	for _, v := range values {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			f = 0
		} else {
			numeric = true
		}
		nums = append(nums, f)
	}
	if !numeric || len(nums) == 0 {
		return ColumnStats{}, false
	}

	min, max, sum := nums[0], nums[0], 0.0
	for _, f := range nums {
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
		sum += f
	}
	return ColumnStats{
		Min:   min,
		Max:   max,
		Mean:  sum / float64(len(nums)),
		Sum:   sum,
		Count: len(nums),
	}, true
}

// findTable returns the first table element in document order.
func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTable(c); found != nil {
			return found
		}
	}
	return nil
}

// tableSection returns the table's thead or tbody child, if present. The
// parser normalizes these to direct children of the table node.
func tableSection(tbl *html.Node, tag string) *html.Node {
	for c := tbl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// rowNodes collects tr nodes under root without crossing into nested tables.
func rowNodes(root *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				if n != root {
					return
				}
			case "tr":
				rows = append(rows, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return rows
}

// cellNodes returns the td/th children of a row.
func cellNodes(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, c)
		}
	}
	return cells
}

// tablesWithin returns the top-level tables nested inside a cell. Deeper
// nesting is handled when each of those tables is decomposed in turn.
func tablesWithin(cell *html.Node) []*html.Node {
	var tables []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return tables
}

// textContent gathers the visible text under a node with normalized
// whitespace. Text inside nested tables is excluded; it belongs to the
// nested table's own decomposition.
func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			parts = append(parts, node.Data)
			return
		}
		if node.Type == html.ElementNode && node.Data == "table" && node != n {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
