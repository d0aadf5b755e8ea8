// Package preview renders operator-facing summaries of fetched and loaded
// data: the source column inventory, a first-rows table and the post-load
// sample. Output is plain terminal text, not part of any data contract.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/kobosync/internal/schema"
	"github.com/dbsmedya/kobosync/internal/types"
)

// Config controls preview rendering.
type Config struct {
	MaxRows      int // data rows shown in the first-rows table
	MaxCellWidth int // cells wider than this are truncated with an ellipsis
	NoColor      bool
}

// DefaultConfig returns the rendering defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRows:      3,
		MaxCellWidth: 28,
	}
}

// Renderer writes previews to an output stream.
type Renderer struct {
	out io.Writer
	cfg *Config
}

// NewRenderer creates a renderer. If cfg is nil, defaults are used.
func NewRenderer(out io.Writer, cfg *Config) *Renderer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Renderer{out: out, cfg: cfg}
}

func (r *Renderer) heading(text string) {
	if r.cfg.NoColor {
		fmt.Fprintf(r.out, "=== %s ===\n", text)
		return
	}
	fmt.Fprintln(r.out, color.Bold.Sprintf("=== %s ===", text))
}

// FetchSummary renders the column inventory and first rows of a fetched
// record set, with each source column annotated with the destination name
// it maps to (or "dropped").
func (r *Renderer) FetchSummary(rs *types.RawRecordSet, mapping *schema.ColumnMapping) {
	r.heading("Fetched Export")
	fmt.Fprintf(r.out, "Rows: %d (skipped %d malformed lines), Columns: %d\n\n",
		rs.Stats.RowsParsed, rs.Stats.RowsSkipped, rs.Stats.ColumnCount)

	for i, col := range rs.Columns {
		dest, ok := mapping.DestinationFor(col)
		if !ok {
			dest = "dropped"
		}
		fmt.Fprintf(r.out, "  %2d. %q -> %s\n", i+1, col, dest)
	}
	fmt.Fprintln(r.out)

	max := r.cfg.MaxRows
	if max > len(rs.Rows) {
		max = len(rs.Rows)
	}
	if max == 0 {
		return
	}

	rows := make([][]string, 0, max)
	for _, row := range rs.Rows[:max] {
		cells := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			cells[i] = row[col]
		}
		rows = append(rows, cells)
	}

	fmt.Fprintf(r.out, "First %d rows:\n", max)
	r.table(rs.Columns, rows)
}

// LoadReport renders the post-load verification: total row count and the
// sampled rows.
func (r *Renderer) LoadReport(rowCount int64, sampleColumns []string, samples [][]string) {
	r.heading("Load Verification")
	fmt.Fprintf(r.out, "Total records in table: %d\n", rowCount)

	if len(samples) == 0 {
		fmt.Fprintln(r.out)
		return
	}

	fmt.Fprintln(r.out, "\nSample data from database:")
	r.table(sampleColumns, samples)
}

// Banner renders the completion banner.
func (r *Renderer) Banner(text string) {
	line := strings.Repeat("=", 50)
	if r.cfg.NoColor {
		fmt.Fprintf(r.out, "%s\n%s\n%s\n", line, text, line)
		return
	}
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out, color.Green.Sprint(text))
	fmt.Fprintln(r.out, line)
}

// table renders header and rows with runewidth-aware column alignment,
// so survey answers with wide characters line up correctly.
func (r *Renderer) table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(r.clip(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := runewidth.StringWidth(r.clip(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	r.tableRow(header, widths)

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	r.tableRow(sep, widths)

	for _, row := range rows {
		r.tableRow(row, widths)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) tableRow(cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = runewidth.FillRight(r.clip(cell), widths[i])
	}
	fmt.Fprintf(r.out, "  %s\n", strings.TrimRight(strings.Join(parts, "  "), " "))
}

// clip truncates a cell to the configured width, unicode-aware.
func (r *Renderer) clip(s string) string {
	if r.cfg.MaxCellWidth <= 0 {
		return s
	}
	return runewidth.Truncate(s, r.cfg.MaxCellWidth, "…")
}
