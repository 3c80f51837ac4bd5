package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteText writes the report as a human-readable styled table to the
// writer. Output uses lipgloss for color and formatting when the
// output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, r *Report) error {
	s := DefaultStyles()

	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf(
		"=== Schema profile: %d document(s), %d key path(s) ===",
		r.Meta.Total, len(r.Counts))))
	fmt.Fprintln(w, s.SubHeader.Render("    generated "+r.Meta.Date))
	fmt.Fprintln(w)

	if len(r.Counts) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No key paths discovered."))
	} else {
		writePathTable(w, r, s)
	}

	fmt.Fprintf(w, "\n%s %s\n", s.SummaryLabel.Render("sha1:"),
		s.Muted.Render(r.Meta.SHA1))
	fmt.Fprintf(w, "%s %s\n", s.SummaryLabel.Render("size:"),
		strconv.Itoa(r.Meta.Size))
	return nil
}

func writePathTable(w io.Writer, r *Report, s Styles) {
	// Hottest paths first; ties break on path name for stable output.
	paths := make([]string, 0, len(r.Counts))
	for p := range r.Counts {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if r.Counts[paths[i]] != r.Counts[paths[j]] {
			return r.Counts[paths[i]] > r.Counts[paths[j]]
		}
		return paths[i] < paths[j]
	})

	// Budget: 80 cols total. Borders take ~5, padding 8.
	// PATH=30, COUNT=7, UNIQ=5, EXAMPLE=25.
	const maxPath = 30
	const maxExample = 25

	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		path := p
		if len(path) > maxPath {
			path = path[:maxPath-3] + "..."
		}

		example := ""
		if ex := r.Examples[p]; len(ex) > 0 {
			example = ex[0].Display()
			if len(example) > maxExample {
				example = example[:maxExample-3] + "..."
			}
		}

		rows = append(rows, []string{
			path,
			strconv.FormatUint(r.Counts[p], 10),
			strconv.Itoa(len(r.Unique[p])),
			example,
		})
	}

	t := table.New().
		Width(78).
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 1 {
				return s.Count
			}
			return s.TableCell
		}).
		Headers("PATH", "COUNT", "UNIQ", "EXAMPLE").
		Rows(rows...)

	fmt.Fprintln(w, t)
}
