package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wonny/screener/internal/report"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	doubleSeparator = "═══════════════════════════════════════════════════════════"
	singleSeparator = "───────────────────────────────────────────────────────────"
)

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, doubleSeparator)
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, singleSeparator)
}

// PrintHeader prints a titled block header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  %s\n", title)
	PrintSeparator(w)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row. Cells are padded by rune count so "€"
// does not shift the columns.
func PrintTableRow(w io.Writer, values []string, widths []int) {
	var b strings.Builder
	for i, val := range values {
		b.WriteString(val)
		if i == len(values)-1 {
			break
		}
		if pad := widths[i] - utf8.RuneCountInString(val); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("  ")
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

var rankingColumns = []string{"Rank", "Symbol", "Name", "Safety", "Potential", "Analyst", "Total", "Sector", "P/E", "Price"}
var rankingWidths = []int{4, 7, 28, 6, 9, 7, 6, 22, 8, 12}

// PrintRankingTable prints the ranked rows
func PrintRankingTable(w io.Writer, rows []report.Row) {
	PrintTableHeader(w, rankingColumns, rankingWidths)
	for _, row := range rows {
		PrintTableRow(w, []string{
			strconv.Itoa(row.Rank),
			row.Symbol,
			truncate(row.Name, rankingWidths[2]),
			score(row.Safety),
			score(row.Potential),
			score(row.Analyst),
			score(row.Total),
			truncate(row.Sector, rankingWidths[7]),
			row.TrailingPE.String(),
			row.DisplayPrice,
		}, rankingWidths)
	}
}

var sectorColumns = []string{"Sector", "Count", "P/E", "Fwd P/E", "P/B", "D/E"}
var sectorWidths = []int{24, 5, 8, 8, 8, 8}

// PrintSectorTable prints the sector means
func PrintSectorTable(w io.Writer, rows []report.SectorRow) {
	PrintTableHeader(w, sectorColumns, sectorWidths)
	for _, row := range rows {
		PrintTableRow(w, []string{
			truncate(row.Sector, sectorWidths[0]),
			strconv.Itoa(row.Count),
			row.TrailingPE.String(),
			row.ForwardPE.String(),
			row.PriceToBook.String(),
			row.DebtToEquity.String(),
		}, sectorWidths)
	}
}

// PrintTopList prints a numbered top-N list by one score
func PrintTopList(w io.Writer, title string, rows []report.Row, key func(report.Row) float64) {
	fmt.Fprintf(w, "\n%s\n", title)
	for i, row := range rows {
		fmt.Fprintf(w, "   %d. %-6s %-28s %s\n", i+1, row.Symbol, truncate(row.Name, 28), score(key(row)))
	}
}

// PrintFailures lists symbols dropped during fetch or scoring
func PrintFailures(w io.Writer, failures []report.Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	PrintWarning(w, fmt.Sprintf("%d symbols skipped", len(failures)))
	for _, f := range failures {
		fmt.Fprintf(w, "   • %s (%s): %s\n", f.Symbol, f.Stage, f.Error)
	}
}

// PrintReport prints the full CLI view of a report
func PrintReport(w io.Writer, rep *report.Report, limit int) {
	PrintHeader(w, fmt.Sprintf("Ranking  %s  (%d/%d ranked in %s)",
		rep.GeneratedAt.Format("2006-01-02 15:04"), len(rep.Rows), rep.Requested, rep.Duration))
	PrintRankingTable(w, rep.Limit(limit))

	PrintTopList(w, fmt.Sprintf("Top %d Safety", len(rep.TopSafety)), rep.TopSafety,
		func(r report.Row) float64 { return r.Safety })
	PrintTopList(w, fmt.Sprintf("Top %d Potential", len(rep.TopPotential)), rep.TopPotential,
		func(r report.Row) float64 { return r.Potential })

	PrintFailures(w, rep.Failures)
	PrintDoubleSeparator(w)
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
