package app

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dshills/aditor/internal/dispatcher"
)

var statsHeaders = []string{"ACTION", "COUNT", "COMMITTED", "NO-OP", "ERRORS", "SKIPPED", "WARNINGS", "MEAN", "MAX"}

// Stats writes the dispatch statistics of doc's engine to w: one row per
// action, then a totals line. Collection must be enabled with the editor
// metrics setting or Options.Metrics.
func (app *Application) Stats(doc *Document, w io.Writer) error {
	m := doc.Engine.Metrics()
	if m == nil {
		return NewOperationError("stats", doc.Name, ErrMetricsDisabled)
	}
	snap := m.Snapshot()

	if _, err := fmt.Fprintln(w, statsTable(snap)); err != nil {
		return NewOperationError("stats", doc.Name, err)
	}
	_, err := fmt.Fprintf(w, "%d dispatches, %d committed, %d errors, %d warnings, %d panics\n",
		snap.Dispatches, snap.Committed, snap.Errors, snap.Warnings, snap.Panics)
	if err != nil {
		return NewOperationError("stats", doc.Name, err)
	}
	return nil
}

func statsTable(snap dispatcher.Snapshot) string {
	rows := make([][]string, 0, len(snap.Actions))
	for _, s := range snap.Actions {
		rows = append(rows, []string{
			string(s.Action),
			count(s.Count),
			count(s.Committed),
			count(s.NoOps),
			count(s.Errors),
			count(s.Skipped),
			count(s.Warnings),
			s.Mean().Round(time.Microsecond).String(),
			s.Max.Round(time.Microsecond).String(),
		})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Bold(true)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(statsHeaders...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}

func count(n uint64) string {
	return strconv.FormatUint(n, 10)
}
